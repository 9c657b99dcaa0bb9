package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/backend/native"
	intImage "github.com/gogpu/kidito/internal/image"
)

// errSceneInvalid is returned by check when the scene does not load.
var errSceneInvalid = errors.New("scene is invalid")

func newCheckCmd(c *cli) *cobra.Command {
	var (
		backend string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load the scene once without a window",
		Long: `check runs a single reload against a headless GPU device and prints
every warning and error. It exits non-zero when the scene does not load.
With --out the first frame is rendered and written as PNG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := native.ParseBackend(backend)
			if err != nil {
				return err
			}
			gpu, err := native.Open(b)
			if err != nil {
				return fmt.Errorf("open GPU: %w", err)
			}
			defer gpu.Close()

			return runCheck(cmd, c.settings, gpu, out)
		},
	}
	cmd.Flags().StringVar(&backend, "backend", native.BackendNoop.String(), "GPU backend: noop or vulkan")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the first frame to this PNG file")
	return cmd
}

func runCheck(cmd *cobra.Command, s Settings, gpu *native.Device, out string) error {
	w := cmd.OutOrStdout()
	r := kidito.NewReloader(gpu, s.ReloaderOptions()...)
	st := kidito.NewState()

	reloadErr := r.Reload(st)
	for _, d := range r.Diagnostics() {
		fmt.Fprintln(w, d.String())
	}

	if out != "" {
		frame, err := gpu.RenderFrame(st, s.Width, s.Height)
		if err != nil {
			return fmt.Errorf("render frame: %w", err)
		}
		if err := intImage.SavePNG(out, frame); err != nil {
			return err
		}
		slog.Info("frame written", "path", out, "width", s.Width, "height", s.Height)
	}

	if reloadErr != nil {
		return fmt.Errorf("%s: %w", r.ConfigPath(), errSceneInvalid)
	}
	_, capacity := r.ArenaUsage()
	used := r.LastArenaUsage()
	fmt.Fprintf(w, "%s: ok, %d vertices, arena %d/%d bytes\n",
		r.ConfigPath(), st.VertexCount, used, capacity)
	return nil
}
