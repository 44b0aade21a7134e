package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens <file>...",
	Short: "Lex files and dump their token streams",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := compiler.New()
		failed := false

		for _, path := range args {
			contents, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			spanOffset := c.SpanOffset()
			c.AddFile(path, contents)

			toks, lexErr := lexer.Lex(contents, spanOffset)
			fmt.Fprint(cmd.OutOrStdout(), toks.Display(c.Source))
			if lexErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: lexing error: %v\n", path, lexErr)
				failed = true
			}
		}

		if failed {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true
			return fmt.Errorf("lexing failed")
		}
		return nil
	},
}
