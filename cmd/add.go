package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/command"
	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/project"
)

var addClipCmd = &cobra.Command{
	Use:   "add-clip",
	Short: "Add a clip on top of the space",
	Args:  cobra.NoArgs,
	RunE:  runAddClip,
}

var addSequenceCmd = &cobra.Command{
	Use:   "add-sequence",
	Short: "Add a sequence built from LENGTH[:TRANSITION] items",
	Long: `Add a sequence on top of the space. Each --item is LENGTH[:TRANSITION];
a positive transition overlaps the previous item, a negative one leaves a gap.
Items are named <sequence id>/<n>.`,
	Args: cobra.NoArgs,
	RunE: runAddSequence,
}

func init() {
	for _, c := range []*cobra.Command{addClipCmd, addSequenceCmd} {
		c.Flags().String("id", "", "item id (default: generated)")
		c.Flags().Int("x", 0, "start frame")
		c.Flags().Float64("y", 0, "vertical position")
		c.Flags().Float64("height", 1, "height")
		c.Flags().String("type", "video", "stream type (video or audio)")
		c.Flags().StringSlice("tag", nil, "tag (repeatable)")
	}
	addClipCmd.Flags().Int("length", 0, "length in frames")
	addClipCmd.Flags().String("source", "", "source as name[:stream]")
	addClipCmd.Flags().Int("offset", 0, "first source frame")
	addSequenceCmd.Flags().StringArray("item", nil, "item as LENGTH[:TRANSITION] (repeatable)")
	addSequenceCmd.Flags().Bool("expanded", false, "show the items when rendering")

	rootCmd.AddCommand(addClipCmd)
	rootCmd.AddCommand(addSequenceCmd)
}

type placementFlags struct {
	id     string
	x      int
	y      float64
	height float64
	typ    model.StreamType
	tags   []string
}

func readPlacementFlags(cmd *cobra.Command) (placementFlags, error) {
	var f placementFlags
	f.id, _ = cmd.Flags().GetString("id")
	f.x, _ = cmd.Flags().GetInt("x")
	f.y, _ = cmd.Flags().GetFloat64("y")
	f.height, _ = cmd.Flags().GetFloat64("height")
	f.tags, _ = cmd.Flags().GetStringSlice("tag")
	typStr, _ := cmd.Flags().GetString("type")
	typ, err := parseType(typStr)
	if err != nil {
		return placementFlags{}, err
	}
	f.typ = typ
	return f, nil
}

// checkSource verifies that frames [offset, offset+length) exist in ref.
func checkSource(cat *project.Catalog, ref model.SourceRef, typ model.StreamType, offset, length int) error {
	if ref.Name == "" {
		return nil
	}
	info, err := cat.Stream(ref)
	if err != nil {
		return err
	}
	if info.Type != typ {
		return fmt.Errorf("source %s is %s, not %s", ref, info.Type, typ)
	}
	if offset < 0 || offset+length > info.Length {
		return fmt.Errorf("source %s has %d frames, clip needs [%d, %d)", ref, info.Length, offset, offset+length)
	}
	return nil
}

func runAddClip(cmd *cobra.Command, _ []string) error {
	f, err := readPlacementFlags(cmd)
	if err != nil {
		return err
	}
	spec := model.ClipSpec{ID: f.id, X: f.x, Y: f.y, Height: f.height, Type: f.typ, Tags: f.tags}
	spec.Length, _ = cmd.Flags().GetInt("length")
	spec.Offset, _ = cmd.Flags().GetInt("offset")
	src, _ := cmd.Flags().GetString("source")
	spec.Source = parseSource(src)

	return edit(cmd, "", func(s *session) error {
		if err := checkSource(s.proj.Catalog, spec.Source, spec.Type, spec.Offset, spec.Length); err != nil {
			return err
		}
		c, err := model.NewClip(spec)
		if err != nil {
			return err
		}
		if err := s.stack.Do(command.NewAddItem(s.proj.Space, c)); err != nil {
			return err
		}
		s.printer.Info("added clip " + c.ID())
		return nil
	})
}

func runAddSequence(cmd *cobra.Command, _ []string) error {
	f, err := readPlacementFlags(cmd)
	if err != nil {
		return err
	}
	if f.id == "" {
		f.id = model.NewID()
	}
	specs, _ := cmd.Flags().GetStringArray("item")
	if len(specs) == 0 {
		return fmt.Errorf("a sequence needs at least one --item")
	}
	items := make([]*model.SequenceItem, 0, len(specs))
	for i, sp := range specs {
		length, transition, err := parseItemSpec(sp)
		if err != nil {
			return err
		}
		it, err := model.NewSequenceItem(model.SequenceItemSpec{
			ID:               fmt.Sprintf("%s/%d", f.id, i),
			Length:           length,
			TransitionLength: transition,
		})
		if err != nil {
			return err
		}
		items = append(items, it)
	}
	expanded, _ := cmd.Flags().GetBool("expanded")
	seq, err := model.NewSequence(model.SequenceSpec{
		ID: f.id, X: f.x, Y: f.y, Height: f.height, Type: f.typ, Tags: f.tags, Expanded: expanded,
	}, items)
	if err != nil {
		return err
	}

	return edit(cmd, "", func(s *session) error {
		if err := s.stack.Do(command.NewAddItem(s.proj.Space, seq)); err != nil {
			return err
		}
		s.printer.Info(fmt.Sprintf("added sequence %s (%d items, length %d)", seq.ID(), seq.Len(), seq.Length()))
		return nil
	})
}
