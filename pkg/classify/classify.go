// Package classify holds the pure predicates that flag problem files.
package classify

import (
	"strings"

	"github.com/arthur-debert/cleanfiles/pkg/types"
)

// IsEmpty reports a zero byte file
func IsEmpty(r types.FileRecord) bool {
	return r.Size == 0
}

// IsTemporary reports whether the filename ends with one of suffixes.
// Matching is case-sensitive; empty suffixes never match.
func IsTemporary(r types.FileRecord, suffixes []string) bool {
	name := r.Filename()
	for _, suffix := range suffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// IsProblematicName reports whether filename contains any of chars
func IsProblematicName(filename string, chars []rune) bool {
	for _, c := range chars {
		if strings.ContainsRune(filename, c) {
			return true
		}
	}
	return false
}

// HasNonDefaultPermissions compares the record's rwx string with want
func HasNonDefaultPermissions(r types.FileRecord, want string) bool {
	return r.Permissions != want
}

// SanitizeName replaces every problematic character with substitute. The
// substitute must not itself be problematic; configuration validation
// rejects that case.
func SanitizeName(filename string, chars []rune, substitute rune) string {
	if len(chars) == 0 {
		return filename
	}
	return strings.Map(func(r rune) rune {
		for _, c := range chars {
			if r == c {
				return substitute
			}
		}
		return r
	}, filename)
}
