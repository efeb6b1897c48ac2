package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

var fitCmd = &cobra.Command{
	Use:   "fit <sequence>",
	Short: "Report where a new item of --length would fit at --x",
	Args:  cobra.ExactArgs(1),
	RunE:  runFit,
}

var placeCmd = &cobra.Command{
	Use:   "place <sequence>",
	Short: "Insert a new item of --length into a sequence at --x",
	Long: `Insert a new item into a sequence. --x is in sequence coordinates. The
item goes to the lowest index where it fits; with --snap an out of range
position is moved to the nearest one that fits.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	for _, c := range []*cobra.Command{fitCmd, placeCmd} {
		c.Flags().Int("length", 0, "item length in frames")
		c.Flags().Int("x", 0, "start in sequence coordinates")
	}
	placeCmd.Flags().String("id", "", "item id (default: generated)")
	placeCmd.Flags().String("source", "", "source as name[:stream]")
	placeCmd.Flags().Int("offset", 0, "first source frame")
	placeCmd.Flags().Bool("snap", false, "snap to the nearest position that fits")
	rootCmd.AddCommand(fitCmd)
	rootCmd.AddCommand(placeCmd)
}

// newMover wraps one detached item for placement into seq.
func newMover(seq *model.Sequence, spec model.SequenceItemSpec) (*placement.Mover, error) {
	it, err := model.NewSequenceItem(spec)
	if err != nil {
		return nil, err
	}
	return placement.NewMover(seq.Type(), []*model.SequenceItem{it})
}

func runFit(cmd *cobra.Command, args []string) (err error) {
	length, _ := cmd.Flags().GetInt("length")
	x, _ := cmd.Flags().GetInt("x")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()

	seq, err := s.sequence(args[0])
	if err != nil {
		return err
	}
	m, err := newMover(seq, model.SequenceItemSpec{Length: length})
	if err != nil {
		return err
	}
	index, ok := placement.WhereCanFit(seq, m, x)
	var r placement.Range
	if ok {
		r, _ = placement.DetermineRange(seq, m, index)
	}
	s.printer.FitResult(seq.ID(), x, index, r, ok)
	if !ok {
		if i, at, found := placement.Nearest(seq, m, x); found {
			s.printer.Info(fmt.Sprintf("nearest fit: index %d at x=%d", i, at))
		}
	}
	return nil
}

func runPlace(cmd *cobra.Command, args []string) error {
	spec := model.SequenceItemSpec{}
	spec.ID, _ = cmd.Flags().GetString("id")
	spec.Length, _ = cmd.Flags().GetInt("length")
	spec.Offset, _ = cmd.Flags().GetInt("offset")
	src, _ := cmd.Flags().GetString("source")
	spec.Source = parseSource(src)
	x, _ := cmd.Flags().GetInt("x")
	snap, _ := cmd.Flags().GetBool("snap")

	return edit(cmd, "", func(s *session) error {
		seq, err := s.sequence(args[0])
		if err != nil {
			return err
		}
		if err := checkSource(s.proj.Catalog, spec.Source, seq.Type(), spec.Offset, spec.Length); err != nil {
			return err
		}
		m, err := newMover(seq, spec)
		if err != nil {
			return err
		}
		index, ok := placement.WhereCanFit(seq, m, x)
		if !ok && snap {
			index, x, ok = placement.Nearest(seq, m, x)
		}
		if !ok {
			return fmt.Errorf("%w: %s at x=%d", model.ErrNoRoom, seq.ID(), x)
		}
		c, err := placement.Place(seq, m, index, x)
		if err != nil {
			return err
		}
		s.stack.Record(c)
		s.printer.Info(fmt.Sprintf("placed %s at index %d, x=%d", m.Items[0].ID(), index, x))
		return nil
	})
}
