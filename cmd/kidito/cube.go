package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/kidito/geo"
)

func newCubeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "cube",
		Short: "Write the generated cube as mesh records",
		Long: `cube writes the unit cube the harness draws when a scene has no mesh,
one "v" and one "vt" record per vertex. The output is a valid mesh file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cube := geo.CubeMesh()
			if out == "" {
				return geo.WriteOBJ(cmd.OutOrStdout(), cube[:])
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := geo.WriteOBJ(f, cube[:]); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
