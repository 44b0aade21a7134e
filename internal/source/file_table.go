package source

// FileEntry records the byte range a single input file occupies inside the
// compiler's flat source buffer.
type FileEntry struct {
	Name  string
	Start uint32
	End   uint32
}

// FileTable maps global byte offsets back to the files they came from.
type FileTable struct {
	entries []FileEntry
}

// Add appends a file range. Ranges are expected to be appended in offset order.
func (t *FileTable) Add(name string, start, end uint32) {
	t.entries = append(t.entries, FileEntry{Name: name, Start: start, End: end})
}

// Entries returns the recorded files. Callers must not modify the result.
func (t *FileTable) Entries() []FileEntry {
	return t.entries
}

// Len returns the number of recorded files.
func (t *FileTable) Len() int {
	return len(t.entries)
}

// FileOf returns the entry containing the given global offset.
func (t *FileTable) FileOf(offset uint32) (FileEntry, bool) {
	for _, e := range t.entries {
		if offset >= e.Start && offset < e.End {
			return e, true
		}
	}
	// A zero-length file, or the EOF position, sits on an entry boundary.
	for i := len(t.entries) - 1; i >= 0; i-- {
		if offset == t.entries[i].End {
			return t.entries[i], true
		}
	}
	return FileEntry{}, false
}
