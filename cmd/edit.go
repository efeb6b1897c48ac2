package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/project"
	"github.com/papapumpkin/montage/internal/tui"
	"github.com/papapumpkin/montage/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the project in an interactive timeline",
	Long: `Open the project in a full-screen editor. Select rows with up/down, nudge
with left/right, grab with g and drag with the arrows, drop with enter or
cancel with esc. u and r undo and redo, s saves, q quits.`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, _ []string) (err error) {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	r, err := newRenderer(s.cfg, s.proj.Space)
	if err != nil {
		return err
	}
	defer r.Close()

	// The last bytes this editor wrote, to tell its own saves apart from
	// outside changes.
	var (
		mu   sync.Mutex
		last []byte
	)
	if last, err = os.ReadFile(s.path); err != nil {
		return err
	}
	save := func() error {
		label := "edit"
		if t := s.stack.UndoText(); t != "" {
			label = "edit: " + t
		}
		data, err := project.Marshal(s.proj)
		if err != nil {
			return err
		}
		mu.Lock()
		last = data
		mu.Unlock()
		return s.commit(commandContext(cmd), label)
	}

	p := tui.NewProgram(tui.Options{
		Space:    s.proj.Space,
		Stack:    s.stack,
		Renderer: r,
		Name:     s.path,
		Save:     save,
	})

	if w, werr := project.NewWatcher(s.path); werr == nil && w.Start() == nil {
		defer w.Stop()
		go func() {
			for ch := range w.Changes {
				if !ch.Removed {
					data, rerr := os.ReadFile(ch.Path)
					mu.Lock()
					own := rerr == nil && bytes.Equal(data, last)
					mu.Unlock()
					if own {
						continue
					}
				}
				p.Send(tui.MsgExternalChange{Path: s.path, Removed: ch.Removed})
			}
		}()
	}

	// The saved-notice lines of commit would corrupt the full-screen view.
	s.printer = ui.NewWriter(io.Discard, false)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
