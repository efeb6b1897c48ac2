package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

var nudgeCmd = &cobra.Command{
	Use:   "nudge <id>",
	Short: "Shift an item by a number of frames",
	Long: `Shift an item by --by frames. A sequence item slides in place: its
transition absorbs the shift and the following transition compensates, so
the rest of the sequence stays put.`,
	Args: cobra.ExactArgs(1),
	RunE: runNudge,
}

func init() {
	nudgeCmd.Flags().Int("by", 0, "frames to shift (negative moves earlier)")
	nudgeCmd.Flags().Float64("y", 0, "vertical shift (top-level items only)")
	rootCmd.AddCommand(nudgeCmd)
}

func runNudge(cmd *cobra.Command, args []string) error {
	by, _ := cmd.Flags().GetInt("by")
	dy, _ := cmd.Flags().GetFloat64("y")
	if by == 0 && dy == 0 {
		return fmt.Errorf("nothing to do: give --by or --y")
	}
	return edit(cmd, "", func(s *session) error {
		a, err := s.anchorable(args[0])
		if err != nil {
			return err
		}
		if si, ok := a.(*model.SequenceItem); ok {
			if dy != 0 {
				return fmt.Errorf("%s is a sequence item and cannot move vertically", si.ID())
			}
			return s.stack.Do(placement.NewMoveInPlace(si.Sequence(), si, by))
		}
		it := a.(model.Item)
		var p model.ItemPatch
		if by != 0 {
			p.X = model.Set(it.X() + by)
		}
		if dy != 0 {
			p.Y = model.Set(it.Y() + dy)
		}
		return s.stack.Do(command.NewUpdateItem(it, p, "nudge"))
	})
}
