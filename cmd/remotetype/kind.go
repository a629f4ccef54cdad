package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var kindCmd = &cobra.Command{
	Use:   "kind <image.mp> [addr...]",
	Short: "Show the record kind at each address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		targets, err := resolveTargets(snap, args[1:])
		if err != nil {
			return err
		}
		ctx, _, err := newContext(snap)
		if err != nil {
			return err
		}
		colored := useColor(cmd)
		for _, t := range targets {
			res := ctx.GetKindForRemoteTypeMetadata(t.addr)
			if kind, ok := res.Value(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					paint(colored, addrColor, t.addr.String()), kind)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
				paint(colored, addrColor, t.addr.String()),
				paint(colored, errColor, "error: "+res.Failure().Error()))
		}
		return nil
	},
}
