package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// FileSpec describes one file to create
type FileSpec struct {
	Content string
	Mode    fs.FileMode
	ModTime time.Time
}

// Tree builds and inspects directory trees on an afero filesystem
type Tree struct {
	t  *testing.T
	Fs afero.Fs
}

// NewTree returns a builder over a fresh in-memory filesystem
func NewTree(t *testing.T) *Tree {
	return NewTreeOn(t, afero.NewMemMapFs())
}

// NewTreeOn returns a builder over fsys
func NewTreeOn(t *testing.T, fsys afero.Fs) *Tree {
	return &Tree{t: t, Fs: fsys}
}

// Dir creates a directory and its parents
func (tr *Tree) Dir(path string) *Tree {
	tr.t.Helper()
	require.NoError(tr.t, tr.Fs.MkdirAll(path, 0755))
	return tr
}

// File creates a 0644 file modified at BaseTime
func (tr *Tree) File(path, content string) *Tree {
	tr.t.Helper()
	return tr.FileWith(path, FileSpec{Content: content})
}

// FileAt creates a 0644 file with the given modification time
func (tr *Tree) FileAt(path, content string, mtime time.Time) *Tree {
	tr.t.Helper()
	return tr.FileWith(path, FileSpec{Content: content, ModTime: mtime})
}

// FileWith creates a file from spec. Zero Mode means 0644, zero ModTime
// means BaseTime.
func (tr *Tree) FileWith(path string, spec FileSpec) *Tree {
	tr.t.Helper()
	mode := spec.Mode
	if mode == 0 {
		mode = 0644
	}
	mtime := spec.ModTime
	if mtime.IsZero() {
		mtime = BaseTime
	}

	require.NoError(tr.t, tr.Fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(tr.t, afero.WriteFile(tr.Fs, path, []byte(spec.Content), mode))
	require.NoError(tr.t, tr.Fs.Chmod(path, mode))
	require.NoError(tr.t, tr.Fs.Chtimes(path, mtime, mtime))
	return tr
}

// Exists reports whether path exists
func (tr *Tree) Exists(path string) bool {
	tr.t.Helper()
	_, err := tr.Fs.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	require.NoError(tr.t, err)
	return true
}

// Read returns the content of path
func (tr *Tree) Read(path string) string {
	tr.t.Helper()
	content, err := afero.ReadFile(tr.Fs, path)
	require.NoError(tr.t, err)
	return string(content)
}

// Mode returns the permission and special bits of path
func (tr *Tree) Mode(path string) fs.FileMode {
	tr.t.Helper()
	info, err := tr.Fs.Stat(path)
	require.NoError(tr.t, err)
	return info.Mode() & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
}

// Files returns the sorted slash separated paths of regular files under root
func (tr *Tree) Files(root string) []string {
	tr.t.Helper()
	var files []string
	err := afero.Walk(tr.Fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(tr.t, err)
	sort.Strings(files)
	return files
}
