package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"remotetype/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "remotetype",
	Short: "Remote type metadata inspector",
	Long:  `remotetype reconstructs types from captured process metadata snapshots`,
}

func main() {
	// Версия для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(kindCmd)
	rootCmd.AddCommand(descriptorCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
