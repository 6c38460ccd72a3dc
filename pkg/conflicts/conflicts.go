// Package conflicts groups records that collide, either by content
// (same fingerprint) or by name (same filename in any root or directory).
package conflicts

import "github.com/arthur-debert/cleanfiles/pkg/types"

// Group is a set of at least two colliding records
type Group struct {
	Key     string
	Records []types.FileRecord
}

// Size returns the number of records in the group
func (g Group) Size() int {
	return len(g.Records)
}

// GroupByFingerprint returns the byte-identical groups among records
func GroupByFingerprint(records []types.FileRecord) []Group {
	return groupBy(records, func(r types.FileRecord) string { return r.Fingerprint })
}

// GroupByFilename returns the groups of records sharing a final path segment
func GroupByFilename(records []types.FileRecord) []Group {
	return groupBy(records, func(r types.FileRecord) string { return r.Filename() })
}

// groupBy partitions records by key and drops singletons. Groups come out
// in order of their key's first appearance; members keep input order.
func groupBy(records []types.FileRecord, key func(types.FileRecord) string) []Group {
	index := make(map[string]int)
	var all []Group
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(all)
			index[k] = i
			all = append(all, Group{Key: k})
		}
		all[i].Records = append(all[i].Records, r)
	}

	groups := all[:0]
	for _, g := range all {
		if len(g.Records) > 1 {
			groups = append(groups, g)
		}
	}
	return groups
}
