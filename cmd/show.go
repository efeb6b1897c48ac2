package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/config"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/render"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Draw the timeline, or the overlaps of one item",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func newRenderer(cfg config.Config, sp *model.Space) (*render.Renderer, error) {
	return render.New(sp, render.Options{
		Width:     cfg.Render.Width,
		Color:     cfg.Render.Color,
		CacheSize: cfg.OverlapCacheSize,
	})
}

func ids(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

func runShow(cmd *cobra.Command, args []string) (err error) {
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

	if len(args) == 0 {
		fmt.Fprint(cmd.OutOrStdout(), r.Render(""))
		return nil
	}
	it, err := s.item(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), r.Render(it.ID()))
	up, down := s.proj.Space.FindOverlapsRecursive(it)
	s.printer.Overlaps(it.ID(), r.Overlaps(it), ids(up), ids(down))
	return nil
}
