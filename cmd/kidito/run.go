package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/spf13/cobra"

	"github.com/gogpu/kidito"
	"github.com/gogpu/kidito/backend/native"
	"github.com/gogpu/kidito/integration/scenecanvas"
)

// action is what a key press asks the render loop to do.
type action int

const (
	actionNone action = iota
	actionReload
	actionQuit
)

// applyKey updates st for clock keys and returns the action for the rest.
func applyKey(st *kidito.State, key gpucontext.Key) action {
	switch key {
	case gpucontext.KeyF5:
		return actionReload
	case gpucontext.KeySpace:
		st.TogglePause()
	case gpucontext.KeyLeft:
		st.StepTime(-1)
	case gpucontext.KeyRight:
		st.StepTime(1)
	case gpucontext.KeyEscape:
		return actionQuit
	}
	return actionNone
}

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open a window and render the scene",
		Long: `run opens a window and renders the scene described by scene.conf.

Keys:
  F5      reload the scene
  Space   pause or resume the clock
  Left    step the paused clock back
  Right   step the paused clock forward
  Escape  quit`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runWindow(c.settings)
		},
	}
}

func runWindow(s Settings) error {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(s.Title).
		WithSize(s.Width, s.Height))

	var (
		gpu      *native.Device
		reloader *kidito.Reloader
		initErr  error
	)
	st := kidito.NewState()
	canvas := scenecanvas.New()
	keys := make(chan gpucontext.Key, 16)
	last := time.Now()

	reload := func() {
		// Failures are logged by the reloader and shown as the error color.
		_ = reloader.Reload(st)
	}

	app.OnDraw(func(dc *gogpu.Context) {
		if gpu == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			gpu, initErr = native.FromProvider(provider)
			if initErr != nil {
				slog.Warn("window device not shareable, opening a separate one", "error", initErr)
				gpu, initErr = native.Open(native.BackendVulkan)
			}
			if initErr != nil {
				app.Quit()
				return
			}
			reloader = kidito.NewReloader(gpu, s.ReloaderOptions()...)
			reload()
		}

	drain:
		for {
			select {
			case key := <-keys:
				switch applyKey(st, key) {
				case actionReload:
					reload()
				case actionQuit:
					app.Quit()
					return
				}
			default:
				break drain
			}
		}

		now := time.Now()
		st.Advance(float32(now.Sub(last).Seconds()))
		last = now

		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}
		frame, err := gpu.RenderFrame(st, w, h)
		if err != nil {
			slog.Error("render frame", "error", err)
			return
		}
		if err := canvas.Present(dc.AsTextureDrawer(), frame); err != nil {
			slog.Error("present frame", "error", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		select {
		case keys <- key:
		default:
			slog.Debug("key dropped", "key", key)
		}
	})

	app.OnClose(func() {
		_ = canvas.Close()
		if gpu != nil {
			gpu.Close()
		}
	})

	if err := app.Run(); err != nil {
		return err
	}
	if initErr != nil {
		return fmt.Errorf("open GPU: %w", initErr)
	}
	return nil
}
