package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"remotetype/internal/ui"
)

var browseUIFlag string

func init() {
	browseCmd.Flags().StringVar(&browseUIFlag, "ui", "auto", "interactive UI (auto|on|off)")
}

var browseCmd = &cobra.Command{
	Use:   "browse <image.mp> [addr...]",
	Short: "Browse a snapshot interactively",
	Long: `Decode the snapshot's roots (or the given addresses) in an
interactive view. Falls back to plain output when stdout is not a
terminal or --ui=off.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := readUIMode(browseUIFlag)
		if err != nil {
			return err
		}
		snap, err := loadSnapshot(args[0])
		if err != nil {
			return err
		}
		targets, err := resolveTargets(snap, args[1:])
		if err != nil {
			return err
		}

		if !shouldUseTUI(mode) {
			lines, err := decodeTargets(snap, targets)
			if err != nil {
				return err
			}
			for i, t := range targets {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", t.label, t.addr, lines[i])
			}
			return nil
		}

		ctx, _, err := newContext(snap)
		if err != nil {
			return err
		}
		entries := make([]ui.Entry, 0, len(targets))
		for _, t := range targets {
			entries = append(entries, ui.Entry{Label: t.label, Addr: t.addr})
		}
		model := ui.NewBrowseModel(args[0], ctx, entries)
		_, err = tea.NewProgram(model).Run()
		return err
	},
}
