package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nushell/new-nu-parser/internal/config"
	"github.com/nushell/new-nu-parser/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "nu-parser",
	Short: "Compiler front end for the nu language",
	Long:  "nu-parser lexes, parses, resolves and typechecks nu source files",
}

// cfg holds the file-based defaults; flags override it per invocation.
var cfg = config.Default()

func main() {
	rootCmd.Version = version.String()

	if loaded, err := config.Discover(); err == nil {
		cfg = loaded
	}

	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(checkCmd)

	rootCmd.PersistentFlags().String("color", cfg.Color, "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("no-print", cfg.NoPrint, "suppress per-pass display dumps")
	rootCmd.PersistentFlags().Int("max-errors", cfg.MaxErrors, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// useColor resolves the color flag against the terminal.
func useColor(cmd *cobra.Command) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

// maxErrors resolves the diagnostics cap from the persistent flag.
func maxErrors(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-errors")
	if err != nil {
		return 0
	}
	return n
}
