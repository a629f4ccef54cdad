package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var descriptorCmd = &cobra.Command{
	Use:   "descriptor <image.mp> <addr>...",
	Short: "Resolve nominal type descriptors to declarations",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		targets, err := resolveTargets(snap, args[1:])
		if err != nil {
			return err
		}
		ctx, table, err := newContext(snap)
		if err != nil {
			return err
		}
		colored := useColor(cmd)
		for _, t := range targets {
			res := ctx.GetDeclForRemoteNominalTypeDescriptor(t.addr)
			id, ok := res.Value()
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
					paint(colored, addrColor, t.addr.String()),
					paint(colored, errColor, "error: "+res.Failure().Error()))
				continue
			}
			d, _ := table.Decl(id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				paint(colored, addrColor, t.addr.String()), d.Kind,
				paint(colored, okColor, d.Module+"."+d.Name))
		}
		return nil
	},
}
