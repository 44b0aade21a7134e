package source_test

import (
	"testing"

	"github.com/nushell/new-nu-parser/internal/source"
)

func TestSpanCover(t *testing.T) {
	a := source.NewSpan(5, 10)
	b := source.NewSpan(2, 7)
	cover := a.Cover(b)
	if cover.Start != 2 || cover.End != 10 {
		t.Errorf("cover = %v, want 2..10", cover)
	}
	if !source.NewSpan(3, 3).Empty() {
		t.Error("zero-length span should be empty")
	}
}

func TestLineIndexResolve(t *testing.T) {
	content := []byte("one\ntwo\nthree")
	idx := source.BuildLineIndex(content)

	cases := []struct {
		offset uint32
		line   uint32
		col    uint32
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{6, 2, 3},
		{8, 3, 1},
		{12, 3, 5},
	}
	for _, tt := range cases {
		got := idx.Resolve(tt.offset)
		if got.Line != tt.line || got.Col != tt.col {
			t.Errorf("Resolve(%d) = %v, want %d:%d", tt.offset, got, tt.line, tt.col)
		}
	}
}

func TestLineIndexRange(t *testing.T) {
	content := []byte("one\ntwo\nthree")
	idx := source.BuildLineIndex(content)

	start, end := idx.LineRange(2, uint32(len(content)))
	if string(content[start:end]) != "two" {
		t.Errorf("line 2 = %q, want %q", content[start:end], "two")
	}
	start, end = idx.LineRange(3, uint32(len(content)))
	if string(content[start:end]) != "three" {
		t.Errorf("line 3 = %q, want %q", content[start:end], "three")
	}
}

func TestFileTableLookup(t *testing.T) {
	var ft source.FileTable
	ft.Add("a.nu", 0, 10)
	ft.Add("b.nu", 10, 15)

	entry, ok := ft.FileOf(3)
	if !ok || entry.Name != "a.nu" {
		t.Errorf("FileOf(3) = %v", entry)
	}
	entry, ok = ft.FileOf(10)
	if !ok || entry.Name != "b.nu" {
		t.Errorf("FileOf(10) = %v", entry)
	}
	// the EOF position resolves to the last file
	entry, ok = ft.FileOf(15)
	if !ok || entry.Name != "b.nu" {
		t.Errorf("FileOf(15) = %v", entry)
	}
	if _, ok := ft.FileOf(99); ok {
		t.Error("offset past every file should not resolve")
	}
}
