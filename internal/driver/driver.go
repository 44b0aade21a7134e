// Package driver wires the four passes — lex, parse, resolve, typecheck —
// over a compiler arena and decides when to stop. It is the only place that
// sequences passes; the passes themselves never call each other.
package driver

import (
	"fmt"
	"io"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/parser"
	"github.com/nushell/new-nu-parser/internal/resolver"
	"github.com/nushell/new-nu-parser/internal/typechecker"
)

// Options controls one pipeline run.
type Options struct {
	// Print dumps each pass's display state to Out.
	Print bool
	// Out receives the dumps; ignored when Print is false.
	Out io.Writer
}

// Result reports how far the pipeline got for one file.
type Result struct {
	// Tokens is the lexed buffer (always present, even on lex errors).
	Tokens *lexer.Tokens
	// LexError is set when lexing failed; later passes did not run.
	LexError error
	// Ok is true when no pass recorded an error.
	Ok bool
}

// Run appends one file to the compiler and takes it through every pass,
// stopping after any pass that leaves errors behind (matching the exit
// convention: a failed pass still merges what it produced).
func Run(c *compiler.Compiler, name string, contents []byte, opts Options) Result {
	spanOffset := c.SpanOffset()
	c.AddFile(name, contents)

	toks, lexErr := lexer.Lex(contents, spanOffset)
	if lexErr != nil {
		if opts.Print {
			fmt.Fprint(opts.Out, toks.Display(c.Source))
			fmt.Fprintf(opts.Out, "lexing error: %v\n", lexErr)
		}
		return Result{Tokens: toks, LexError: lexErr}
	}

	parser.New(c, toks).Parse()
	if opts.Print {
		fmt.Fprint(opts.Out, c.DisplayState())
	}
	if c.HasErrors() {
		return Result{Tokens: toks}
	}

	res := resolver.New(c)
	res.Resolve()
	if opts.Print {
		fmt.Fprint(opts.Out, res.DisplayState())
	}
	c.MergeNameBindings(res.IntoBindings(), res.Errors())
	if c.HasErrors() {
		return Result{Tokens: toks}
	}

	tc := typechecker.New(c)
	tc.Typecheck()
	if opts.Print {
		fmt.Fprint(opts.Out, tc.DisplayState())
	}
	c.MergeTypes(tc.IntoTypes(), tc.Errors())
	if c.HasErrors() {
		return Result{Tokens: toks}
	}

	return Result{Tokens: toks, Ok: true}
}
