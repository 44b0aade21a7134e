package diagfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/diagfmt"
	"github.com/nushell/new-nu-parser/internal/driver"
)

func failingCompiler(t *testing.T) *compiler.Compiler {
	t.Helper()
	c := compiler.New()
	driver.Run(c, "bad.nu", []byte("let x = 1\n$nope"), driver.Options{})
	if !c.HasErrors() {
		t.Fatal("expected errors")
	}
	return c
}

func TestPretty(t *testing.T) {
	c := failingCompiler(t)

	var out bytes.Buffer
	diagfmt.Pretty(&out, c, diagfmt.PrettyOpts{Color: false})
	text := out.String()

	if !strings.Contains(text, "bad.nu:2:1:") {
		t.Errorf("missing file:line:col header in %q", text)
	}
	if !strings.Contains(text, "variable `nope` not found") {
		t.Errorf("missing message in %q", text)
	}
	if !strings.Contains(text, "$nope") {
		t.Errorf("missing source context in %q", text)
	}
	if !strings.Contains(text, "^~~~") {
		t.Errorf("missing caret underline in %q", text)
	}
}

func TestJSON(t *testing.T) {
	c := failingCompiler(t)

	var out bytes.Buffer
	if err := diagfmt.JSON(&out, c); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(decoded))
	}
	if decoded[0]["severity"] != "Error" {
		t.Errorf("severity = %v", decoded[0]["severity"])
	}
	if decoded[0]["file"] != "bad.nu" {
		t.Errorf("file = %v", decoded[0]["file"])
	}
}
