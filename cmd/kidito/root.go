package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/kidito"
)

// cli holds the flags shared by every command.
type cli struct {
	verbose      bool
	settingsPath string
	scene        string
	settings     Settings
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "kidito",
		Short: "Hot-reloading shader and mesh harness",
		Long: `kidito renders a textured mesh with a pair of WGSL shaders and reloads
the whole scene from scene.conf on demand. A failed reload keeps the previous
scene on the GPU and paints the window in the error color.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			kidito.SetLogger(logger)

			s, err := LoadSettings(c.settingsPath, cmd.Flags().Changed("settings"))
			if err != nil {
				return err
			}
			if c.scene != "" {
				s.Scene = c.scene
			}
			c.settings = s
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&c.settingsPath, "settings", SettingsFilename, "Harness settings file")
	root.PersistentFlags().StringVarP(&c.scene, "scene", "s", "", "Scene config file (overrides the settings file)")

	root.AddCommand(newRunCmd(c))
	root.AddCommand(newCheckCmd(c))
	root.AddCommand(newCubeCmd())
	return root
}
