package snapshot_test

import (
	"crypto/sha256"
	"testing"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
	"github.com/nushell/new-nu-parser/internal/parser"
	"github.com/nushell/new-nu-parser/internal/snapshot"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := snapshot.OpenAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	src := []byte("let x = 1 + 2")
	c := compiler.New()
	c.AddFile("test.nu", src)
	toks, lexErr := lexer.Lex(src, 0)
	if lexErr != nil {
		t.Fatal(lexErr)
	}
	parser.New(c, toks).Parse()

	payload := snapshot.Capture(c, toks, "test.nu", src)
	if payload.Broken {
		t.Fatal("clean parse marked broken")
	}
	if len(payload.NodeKinds) != len(c.AstNodes) {
		t.Fatalf("captured %d node kinds, want %d", len(payload.NodeKinds), len(c.AstNodes))
	}
	if len(payload.NodeSpans) != 2*len(c.AstNodes) {
		t.Fatalf("captured %d span values, want %d", len(payload.NodeSpans), 2*len(c.AstNodes))
	}

	key := sha256.Sum256(src)
	if err := cache.Store(key, payload); err != nil {
		t.Fatal(err)
	}

	loaded, hit, err := cache.Load(key)
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if loaded.FileName != "test.nu" {
		t.Errorf("file name = %q", loaded.FileName)
	}
	if len(loaded.TokenKinds) != toks.Len() {
		t.Errorf("loaded %d token kinds, want %d", len(loaded.TokenKinds), toks.Len())
	}
	for i := range payload.NodeKinds {
		if loaded.NodeKinds[i] != payload.NodeKinds[i] {
			t.Fatalf("node kind %d mismatch after round trip", i)
		}
	}
}

func TestCacheMiss(t *testing.T) {
	cache, err := snapshot.OpenAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := sha256.Sum256([]byte("never stored"))
	_, hit, err := cache.Load(key)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expected a miss for an unknown digest")
	}
}
