package filesystem

import (
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// NewOS returns the real operating system filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

func lstat(fsys afero.Fs, path string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return fsys.Stat(path)
}

func missing(err error) bool {
	return os.IsNotExist(err) || stderrors.Is(err, unix.ENOTDIR)
}

// Exists reports whether path exists. Symlinks are not followed when the
// filesystem supports it.
func Exists(fsys afero.Fs, path string) (bool, error) {
	_, err := lstat(fsys, path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Taken reports whether path cannot be created: it already exists, or its
// nearest existing ancestor is not a directory.
func Taken(fsys afero.Fs, path string) (bool, error) {
	_, err := lstat(fsys, path)
	if err == nil {
		return true, nil
	}
	if !missing(err) {
		return false, err
	}

	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		info, err := lstat(fsys, dir)
		if err == nil {
			return !info.IsDir(), nil
		}
		if !missing(err) {
			return false, err
		}
		if filepath.Dir(dir) == dir {
			return false, nil
		}
	}
}
