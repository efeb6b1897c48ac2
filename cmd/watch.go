package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/ansi"
	"github.com/papapumpkin/montage/internal/config"
	"github.com/papapumpkin/montage/internal/project"
	"github.com/papapumpkin/montage/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Redraw the timeline whenever the project file changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("no-clear", false, "append frames instead of clearing the screen")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, printer, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	noClear, _ := cmd.Flags().GetBool("no-clear")

	w, err := project.NewWatcher(cfg.Project)
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Project, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.Project, err)
	}
	defer w.Stop()

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return watchLoop(ctx, cmd.OutOrStdout(), cfg, printer, w.Changes, !noClear)
}

// watchLoop draws the project once and again for every change until ctx is
// done or changes is closed.
func watchLoop(ctx context.Context, out io.Writer, cfg config.Config, printer *ui.Printer, changes <-chan project.Change, clearScreen bool) error {
	draw := func(reason string) {
		if clearScreen {
			fmt.Fprint(out, ansi.ClearScreen)
		}
		frame, err := drawProject(cfg, printer)
		if err != nil {
			printer.Error(err.Error())
			return
		}
		fmt.Fprint(out, frame)
		printer.Info(fmt.Sprintf("%s %s (%s)", time.Now().Format(time.TimeOnly), cfg.Project, reason))
	}

	draw("loaded")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				return nil
			}
			if ch.Removed {
				printer.Info(cfg.Project + " removed, waiting")
				continue
			}
			draw("changed")
		}
	}
}

func drawProject(cfg config.Config, printer *ui.Printer) (string, error) {
	p, err := project.Load(cfg.Project, spaceOptions(cfg, printer)...)
	if err != nil {
		return "", err
	}
	r, err := newRenderer(cfg, p.Space)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return r.Render(""), nil
}
