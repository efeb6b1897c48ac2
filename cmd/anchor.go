package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

var anchorCmd = &cobra.Command{
	Use:   "anchor <follower> [target]",
	Short: "Anchor an item to another, or clear its anchor",
	Long: `Anchor the follower's start to the target's start at their current
distance. When the target moves the follower moves with it; with --two-way
moving the follower moves the target too.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAnchor,
}

func init() {
	anchorCmd.Flags().Bool("two-way", false, "moving the follower also moves the target")
	anchorCmd.Flags().Bool("visible", false, "draw the anchor")
	anchorCmd.Flags().Bool("clear", false, "remove the follower's anchor")
	rootCmd.AddCommand(anchorCmd)
}

func runAnchor(cmd *cobra.Command, args []string) error {
	clearAnchor, _ := cmd.Flags().GetBool("clear")
	twoWay, _ := cmd.Flags().GetBool("two-way")
	visible, _ := cmd.Flags().GetBool("visible")
	if clearAnchor == (len(args) == 2) {
		return fmt.Errorf("give either a target or --clear")
	}

	label := "anchor"
	if clearAnchor {
		label = "clear anchor"
	}
	return edit(cmd, label, func(s *session) error {
		follower, err := s.anchorable(args[0])
		if err != nil {
			return err
		}
		var a *model.Anchor
		if !clearAnchor {
			target, err := s.anchorable(args[1])
			if err != nil {
				return err
			}
			if a, err = s.proj.Space.NewAnchor(target, follower, twoWay, visible); err != nil {
				return err
			}
		}
		switch f := follower.(type) {
		case *model.SequenceItem:
			return s.stack.Do(command.NewUpdateSequenceItem(f, model.SequenceItemPatch{Anchor: model.Set(a)}, label))
		case model.Item:
			return s.stack.Do(command.NewUpdateItem(f, model.ItemPatch{Anchor: model.Set(a)}, label))
		}
		return fmt.Errorf("%w: %s", errUnknownItem, args[0])
	})
}
