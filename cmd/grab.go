package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/manip"
	"github.com/papapumpkin/montage/internal/model"
)

var grabCmd = &cobra.Command{
	Use:   "grab <id>",
	Short: "Drag an item to a new position in one undoable gesture",
	Long: `Grab a clip, a sequence, or a run of sequence items and drop it at --x
(absolute start frame). With --into the drop goes into that sequence,
otherwise into free space at --x/--y. Sequence items dropped into space
become a clip or a new sequence.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrab,
}

func init() {
	grabCmd.Flags().Int("x", 0, "absolute start frame of the drop")
	grabCmd.Flags().Float64("y", 0, "vertical position of a drop into space")
	grabCmd.Flags().String("into", "", "sequence to drop into")
	grabCmd.Flags().Int("count", 1, "number of adjacent sequence items to grab")
	rootCmd.AddCommand(grabCmd)
}

// grab returns the manipulator for the item with the given ID. count only
// applies to sequence items.
func (s *session) grab(id string, count int) (manip.Manipulator, error) {
	a, err := s.anchorable(id)
	if err != nil {
		return nil, err
	}
	switch it := a.(type) {
	case *model.Clip:
		return manip.NewClipManipulator(s.stack, it)
	case *model.Sequence:
		return manip.NewSequenceManipulator(s.stack, it)
	case *model.SequenceItem:
		i := it.Index()
		return manip.NewSequenceItemsManipulator(s.stack, it.Sequence(), i, i+count)
	}
	return nil, fmt.Errorf("%w: %s", errUnknownItem, id)
}

func runGrab(cmd *cobra.Command, args []string) error {
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetFloat64("y")
	into, _ := cmd.Flags().GetString("into")
	count, _ := cmd.Flags().GetInt("count")
	if count < 1 {
		return fmt.Errorf("--count must be at least 1")
	}

	return edit(cmd, "", func(s *session) error {
		var target *model.Sequence
		if into != "" {
			seq, err := s.sequence(into)
			if err != nil {
				return err
			}
			target = seq
		}
		g, err := s.grab(args[0], count)
		if err != nil {
			return err
		}
		var placed bool
		if target != nil {
			placed = g.TryPlaceInSequence(target, x, manip.OpAdd)
		} else {
			placed = g.TryPlaceInSpace(s.proj.Space, x, y)
		}
		if !placed {
			g.Reset()
			return gestureError(g, fmt.Errorf("%w: %s at x=%d", model.ErrNoRoom, args[0], x))
		}
		state := g.State()
		if !g.Finish() {
			return gestureError(g, errors.New("drop rejected"))
		}
		s.printer.Info(fmt.Sprintf("dropped %s (%s)", args[0], state))
		return nil
	})
}

// gestureError prefers the error that broke the gesture over fallback.
func gestureError(g manip.Manipulator, fallback error) error {
	if e, ok := g.(interface{ Err() error }); ok && e.Err() != nil {
		return e.Err()
	}
	return fallback
}
