// Command kidito runs the hot-reloading scene harness.
//
// Usage:
//
//	kidito run [--scene scene.conf]     open a window; F5 reloads
//	kidito check [--out frame.png]      reload once headless, report diagnostics
//	kidito cube > cube.obj              dump the generated cube mesh
//
// Window controls: F5 reloads the scene, Space pauses the clock, Left and
// Right step the paused clock, Escape quits.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "kidito:", err)
		os.Exit(1)
	}
}
