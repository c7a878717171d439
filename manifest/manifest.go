package manifest

import (
	"fmt"

	"github.com/mikanbox/droplink/types"
)

// Manifest is an ordered, immutable collection of shareable file entries.
// It is built once per share session and read concurrently by request
// handlers without locking; nothing mutates it after construction.
type Manifest struct {
	entries []types.FileEntry
	byID    map[string]types.FileEntry
}

// New validates the entries and builds the id lookup table.
func New(entries []types.FileEntry) (*Manifest, error) {
	if len(entries) == 0 {
		return nil, ErrEmptySelection
	}
	byID := make(map[string]types.FileEntry, len(entries))
	for _, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("manifest entry %q has no id", entry.DisplayName)
		}
		if _, dup := byID[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate manifest entry id %s", entry.ID)
		}
		byID[entry.ID] = entry
	}
	owned := make([]types.FileEntry, len(entries))
	copy(owned, entries)
	return &Manifest{entries: owned, byID: byID}, nil
}

// Lookup resolves an opaque entry id. This is the only way the server maps
// a request to a file on disk; client-supplied paths are never resolved.
func (m *Manifest) Lookup(id string) (types.FileEntry, bool) {
	entry, ok := m.byID[id]
	return entry, ok
}

// Entries returns the manifest entries in build order.
func (m *Manifest) Entries() []types.FileEntry {
	return m.entries
}

// Len returns the number of entries.
func (m *Manifest) Len() int { return len(m.entries) }

// TotalSize sums the size of every entry in bytes.
func (m *Manifest) TotalSize() int64 {
	var total int64
	for _, entry := range m.entries {
		total += entry.Size
	}
	return total
}

// Metas returns the client-visible projection of every entry.
func (m *Manifest) Metas() []types.FileMeta {
	metas := make([]types.FileMeta, 0, len(m.entries))
	for _, entry := range m.entries {
		metas = append(metas, entry.Meta())
	}
	return metas
}
