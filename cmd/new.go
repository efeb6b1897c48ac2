package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/montage/internal/model"
	"github.com/papapumpkin/montage/internal/project"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty project file",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().String("rate", "25/1", "video frame rate as NUM/DEN")
	newCmd.Flags().Int("frame-width", model.DefaultVideoFormat.Width, "video frame width")
	newCmd.Flags().Int("frame-height", model.DefaultVideoFormat.Height, "video frame height")
	newCmd.Flags().Int("sample-rate", model.DefaultAudioFormat.SampleRate, "audio sample rate")
	newCmd.Flags().Int("channels", model.DefaultAudioFormat.Channels, "audio channels")
	newCmd.Flags().Bool("force", false, "overwrite an existing project file")
	rootCmd.AddCommand(newCmd)
}

func runNew(cmd *cobra.Command, _ []string) (err error) {
	cfg, printer, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer.Banner()
	}
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(cfg.Project); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfg.Project)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	rateStr, _ := cmd.Flags().GetString("rate")
	rate, err := parseRate(rateStr)
	if err != nil {
		return err
	}
	video := model.VideoFormat{Rate: rate}
	video.Width, _ = cmd.Flags().GetInt("frame-width")
	video.Height, _ = cmd.Flags().GetInt("frame-height")
	var audio model.AudioFormat
	audio.SampleRate, _ = cmd.Flags().GetInt("sample-rate")
	audio.Channels, _ = cmd.Flags().GetInt("channels")
	if audio.SampleRate < 1 || audio.Channels < 1 {
		return fmt.Errorf("invalid audio format %dHz/%dch", audio.SampleRate, audio.Channels)
	}

	s, err := newSession(cmd, cfg, printer, project.New(video, audio, spaceOptions(cfg, printer)...))
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.close()) }()
	return s.commit(commandContext(cmd), "new project")
}
