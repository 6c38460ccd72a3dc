package types

import (
	"path/filepath"
	"strings"
	"time"
)

// FileRecord describes one regular file found under a root directory.
//
// Records are immutable snapshots. Any mutation of the filesystem (delete,
// rename, chmod, move) makes the records of the whole snapshot stale; callers
// rescan instead of patching records.
type FileRecord struct {
	// Root is the main or auxiliary directory the file was found under
	Root string `json:"root" yaml:"root"`

	// Path is relative to Root and never leaves it
	Path string `json:"path" yaml:"path"`

	// Permissions is the 9 character rwx string, e.g. "rw-r--r--"
	Permissions string `json:"permissions" yaml:"permissions"`

	// Fingerprint is the content digest, e.g. "sha256:e3b0..."
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Filename returns the final path segment
func (r FileRecord) Filename() string {
	return filepath.Base(r.Path)
}

// Extension returns the filename from its last dot on, or "" without a dot
func (r FileRecord) Extension() string {
	name := r.Filename()
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// AbsPath joins Root and Path
func (r FileRecord) AbsPath() string {
	return filepath.Join(r.Root, r.Path)
}

// Dir returns the directory holding the file, relative to Root ("." for top level)
func (r FileRecord) Dir() string {
	return filepath.Dir(r.Path)
}
