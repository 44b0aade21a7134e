// Package snapshot persists the observable outputs of a compile — token
// kinds, node kinds, spans, rendered node types and error messages — keyed
// by the sha256 of the source. The driver uses it to skip re-checking files
// that have not changed between runs.
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/nushell/new-nu-parser/internal/compiler"
	"github.com/nushell/new-nu-parser/internal/lexer"
)

// Current schema version - increment when Payload format changes.
const schemaVersion uint16 = 1

// Digest identifies a source file's contents.
type Digest = [sha256.Size]byte

// Payload is the cached result of one compile.
type Payload struct {
	Schema uint16

	FileName   string
	SourceHash []byte

	TokenKinds []uint8
	NodeKinds  []uint8
	// Flattened (start, end) pairs, parallel to NodeKinds.
	NodeSpans []uint32
	// Rendered node types; empty when the pipeline stopped early.
	NodeTypes []string

	Errors []string
	Broken bool
}

// Capture builds a payload from a finished (or failed) compile.
func Capture(c *compiler.Compiler, toks *lexer.Tokens, name string, contents []byte) *Payload {
	hash := sha256.Sum256(contents)
	p := &Payload{
		Schema:     schemaVersion,
		FileName:   name,
		SourceHash: hash[:],
		Broken:     c.HasErrors(),
	}

	if toks != nil {
		p.TokenKinds = make([]uint8, toks.Len())
		for i := 0; i < toks.Len(); i++ {
			kind, _ := toks.At(i)
			p.TokenKinds[i] = uint8(kind)
		}
	}

	for i := range c.AstNodes {
		p.NodeKinds = append(p.NodeKinds, uint8(c.AstNodes[i].Kind))
		p.NodeSpans = append(p.NodeSpans, c.Spans[i].Start, c.Spans[i].End)
	}

	if c.Types != nil {
		p.NodeTypes = make([]string, 0, len(c.NodeTypes))
		for _, id := range c.NodeTypes {
			p.NodeTypes = append(p.NodeTypes, c.Types.TypeToString(id, c.GetSpanContents))
		}
	}

	for _, e := range c.Errors {
		p.Errors = append(p.Errors, e.Message)
	}
	return p
}

// Cache stores payloads on disk, one msgpack file per source digest.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache at the standard location ($XDG_CACHE_HOME/<app>
// or ~/.cache/<app>).
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt initializes a cache in an explicit directory.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".msgpack")
}

// Store writes a payload under the digest of its source.
func (c *Cache) Store(key Digest, p *Payload) error {
	data, err := msgpack.Marshal(p)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.WriteFile(c.pathFor(key), data, 0o644)
}

// Load reads a payload back, returning false when absent or from an older
// schema.
func (c *Cache) Load(key Digest) (*Payload, bool, error) {
	c.mu.RLock()
	data, err := os.ReadFile(c.pathFor(key))
	c.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var p Payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		// a corrupt entry is just a miss
		return nil, false, nil
	}
	if p.Schema != schemaVersion {
		return nil, false, nil
	}
	return &p, true, nil
}
