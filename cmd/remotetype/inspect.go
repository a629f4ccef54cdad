package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"remotetype/internal/image"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image.mp> [addr...]",
	Short: "Decode metadata records into types",
	Long: `Decode the metadata records at the given addresses and print the
reconstructed types. Without explicit addresses the snapshot's recorded
roots are decoded. Addresses accept 0x prefixes.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		targets, err := resolveTargets(snap, args[1:])
		if err != nil {
			return err
		}

		lines, err := decodeTargets(snap, targets)
		if err != nil {
			return err
		}
		colored := useColor(cmd)
		for i, t := range targets {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				paint(colored, addrColor, t.addr.String()), lines[i])
		}
		return nil
	},
}

// decodeTargets decodes every target in parallel. Reflection contexts
// are single-threaded, so each worker builds its own over the shared
// snapshot.
func decodeTargets(snap *image.Snapshot, targets []target) ([]string, error) {
	lines := make([]string, len(targets))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			ctx, _, err := newContext(snap)
			if err != nil {
				return err
			}
			res := ctx.GetTypeForRemoteTypeMetadata(t.addr)
			if id, ok := res.Value(); ok {
				lines[i] = ctx.Interner().Print(id)
				return nil
			}
			lines[i] = "error: " + res.Failure().Error()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}
