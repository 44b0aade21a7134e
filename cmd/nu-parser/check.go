package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diagfmt"
	"github.com/nushell/new-nu-parser/internal/driver"
	"github.com/nushell/new-nu-parser/internal/snapshot"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Run the full pipeline: lex, parse, resolve, typecheck",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noPrint, _ := cmd.Root().PersistentFlags().GetBool("no-print")
		parallel := cfg.Parallel
		if cmd.Flags().Changed("parallel") {
			parallel, _ = cmd.Flags().GetBool("parallel")
		}

		cmd.SilenceUsage = true
		cmd.SilenceErrors = true

		if parallel {
			return runParallelCheck(cmd, args, !noPrint)
		}

		// Sequential mode shares one compiler: every file appends to the
		// same source buffer and the arenas grow across files.
		c := compiler.New()
		ok := true

		for _, path := range args {
			contents, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			res := driver.Run(c, path, contents, driver.Options{
				Print: !noPrint,
				Out:   cmd.OutOrStdout(),
			})
			if res.LexError != nil || !res.Ok {
				ok = false
				break
			}
		}

		diagfmt.Pretty(cmd.ErrOrStderr(), c, diagfmt.PrettyOpts{Color: useColor(cmd), MaxErrors: maxErrors(cmd)})

		if !ok {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

func runParallelCheck(cmd *cobra.Command, paths []string, print bool) error {
	var cache *snapshot.Cache
	if cfg.Cache {
		var err error
		if cfg.CacheDir != "" {
			cache, err = snapshot.OpenAt(cfg.CacheDir)
		} else {
			cache, err = snapshot.Open("nu-parser")
		}
		if err != nil {
			// a missing cache never fails the build
			cache = nil
		}
	}

	results, err := driver.RunParallel(cmd.Context(), paths, print, cache)
	if err != nil {
		return err
	}

	ok := true
	for _, res := range results {
		if res.Cached {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (cached)\n", res.Path)
			continue
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
		if res.Compiler != nil {
			diagfmt.Pretty(cmd.ErrOrStderr(), res.Compiler, diagfmt.PrettyOpts{Color: useColor(cmd), MaxErrors: maxErrors(cmd)})
		}
		if !res.Ok {
			ok = false
		}
	}

	if !ok {
		return fmt.Errorf("check failed")
	}
	return nil
}

func init() {
	checkCmd.Flags().Bool("parallel", false, "compile each file with its own compiler, concurrently")
}
