package resolve

import (
	"sort"

	"github.com/arthur-debert/cleanfiles/pkg/types"
)

// RootRank orders roots for tie-breaking, lower first
type RootRank func(root string) int

// OldestFirst returns a copy of records sorted by ascending mtime. Equal
// timestamps fall back to root rank, then to relative path.
func OldestFirst(records []types.FileRecord, rank RootRank) []types.FileRecord {
	return ordered(records, rank, func(a, b types.FileRecord) int {
		return a.ModTime.Compare(b.ModTime)
	})
}

// NewestFirst returns a copy of records sorted by descending mtime, with the
// same tie-break as OldestFirst.
func NewestFirst(records []types.FileRecord, rank RootRank) []types.FileRecord {
	return ordered(records, rank, func(a, b types.FileRecord) int {
		return b.ModTime.Compare(a.ModTime)
	})
}

func ordered(records []types.FileRecord, rank RootRank, byTime func(a, b types.FileRecord) int) []types.FileRecord {
	out := make([]types.FileRecord, len(records))
	copy(out, records)
	if rank == nil {
		rank = func(string) int { return 0 }
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := byTime(a, b); c != 0 {
			return c < 0
		}
		if ra, rb := rank(a.Root), rank(b.Root); ra != rb {
			return ra < rb
		}
		return a.Path < b.Path
	})
	return out
}
