package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
)

var addSourceCmd = &cobra.Command{
	Use:   "add-source <name[:stream]>",
	Short: "Register a media stream in the project catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddSource,
}

func init() {
	addSourceCmd.Flags().String("type", "video", "stream type (video or audio)")
	addSourceCmd.Flags().Int("length", 0, "stream length in frames (or samples)")
	addSourceCmd.Flags().String("rate", "", "stream rate as NUM/DEN (default: the project rate)")
	rootCmd.AddCommand(addSourceCmd)
}

func runAddSource(cmd *cobra.Command, args []string) error {
	ref := parseSource(args[0])
	typStr, _ := cmd.Flags().GetString("type")
	typ, err := parseType(typStr)
	if err != nil {
		return err
	}
	length, _ := cmd.Flags().GetInt("length")
	rateStr, _ := cmd.Flags().GetString("rate")

	return edit(cmd, "add source "+ref.String(), func(s *session) error {
		info := model.StreamInfo{Type: typ, Length: length, Rate: s.proj.Space.Rate(typ)}
		if rateStr != "" {
			if info.Rate, err = parseRate(rateStr); err != nil {
				return err
			}
		}
		cat := s.proj.Catalog
		prev, perr := cat.Stream(ref)
		return s.stack.Do(command.Func{
			Label: "add source",
			DoFn:  func() error { return cat.Add(ref, info) },
			UndoFn: func() error {
				if perr == nil {
					return cat.Add(ref, prev)
				}
				cat.Remove(ref)
				return nil
			},
		})
	})
}
