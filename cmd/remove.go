package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/placement"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an item, or one item of a sequence",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	return edit(cmd, "", func(s *session) error {
		a, err := s.anchorable(args[0])
		if err != nil {
			return err
		}
		if si, ok := a.(*model.SequenceItem); ok {
			i := si.Index()
			return s.stack.Do(placement.NewRemove(si.Sequence(), i, i+1))
		}
		return s.stack.Do(command.NewRemoveItem(s.proj.Space, a.(model.Item)))
	})
}
