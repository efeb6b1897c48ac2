package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/montage/internal/config"
	"github.com/papapumpkin/montage/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "montage",
	Short: "Timeline editing for non-linear video projects",
	Long: `Montage edits a project timeline: clips and sequences placed in a 2D space,
with overlap-aware stacking, transitions, anchors and undoable drag gestures.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.New().Report(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .montage.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringP("project", "p", "", "project file (default montage.toml)")
	rootCmd.PersistentFlags().Bool("color", true, "style output")
	rootCmd.PersistentFlags().Int("width", 100, "timeline width in columns")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag("render.color", rootCmd.PersistentFlags().Lookup("color"))
	_ = viper.BindPFlag("render.width", rootCmd.PersistentFlags().Lookup("width"))
}

func initConfig() {
	config.LoadEnv()

	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".montage")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("MONTAGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
