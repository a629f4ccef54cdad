package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"remotetype/internal/image"
)

var packOutput string

func init() {
	packCmd.Flags().StringVarP(&packOutput, "output", "o", "", "output snapshot path (default: image.mp next to the manifest)")
}

var packCmd = &cobra.Command{
	Use:   "pack <image.toml>",
	Short: "Assemble a snapshot from a manifest",
	Long: `Read a TOML manifest describing memory segments and declaration
tables, and write them out as a single snapshot file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manifest, err := image.LoadManifest(args[0])
		if err != nil {
			return err
		}
		snap, err := manifest.Build()
		if err != nil {
			return err
		}

		out := strings.TrimSpace(packOutput)
		if out == "" {
			out = filepath.Join(manifest.Root, "image.mp")
		}
		var st image.Store
		if err := st.Save(out, snap); err != nil {
			return err
		}

		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d segment(s), %d decl(s) into %s\n",
				len(snap.Segments), len(snap.Decls), out)
		}
		return nil
	},
}
