package filesystem

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// ErrDestinationExists is wrapped by Rename, Move and Copy when the target
// path is already taken. Nothing is overwritten.
var ErrDestinationExists = stderrors.New("destination already exists")

// Mutator performs one filesystem mutation per call. All paths are absolute.
type Mutator struct {
	fs     afero.Fs
	logger zerolog.Logger
}

// NewMutator creates a mutator over fsys
func NewMutator(fsys afero.Fs) *Mutator {
	return &Mutator{
		fs:     fsys,
		logger: logging.GetLogger("filesystem"),
	}
}

// Fs returns the underlying filesystem
func (m *Mutator) Fs() afero.Fs {
	return m.fs
}

// Delete removes a single file
func (m *Mutator) Delete(path string) error {
	m.logger.Debug().Str("path", path).Msg("Deleting file")
	if err := m.fs.Remove(path); err != nil {
		return errors.PathError(err, errors.ErrFileDelete, "delete", path)
	}
	return nil
}

// Chmod sets the permission and special bits of path
func (m *Mutator) Chmod(path string, mode fs.FileMode) error {
	m.logger.Debug().Str("path", path).Str("mode", mode.String()).Msg("Changing permissions")
	if err := m.fs.Chmod(path, mode); err != nil {
		return errors.PathError(err, errors.ErrFileChmod, "chmod", path)
	}
	return nil
}

// Rename renames a file within the same directory tree. It refuses to
// replace an existing file.
func (m *Mutator) Rename(oldpath, newpath string) error {
	m.logger.Debug().Str("from", oldpath).Str("to", newpath).Msg("Renaming file")
	if err := m.ensureFree(newpath, errors.ErrFileRename, "rename"); err != nil {
		return err
	}
	if err := m.fs.Rename(oldpath, newpath); err != nil {
		return errors.PathError(err, errors.ErrFileRename, "rename", oldpath).WithDetail("target", newpath)
	}
	return nil
}

// Move moves src to dst, creating dst's parent directories. When a plain
// rename crosses devices the file is copied and the source removed.
func (m *Mutator) Move(src, dst string) error {
	m.logger.Debug().Str("from", src).Str("to", dst).Msg("Moving file")
	if err := m.ensureFree(dst, errors.ErrFileMove, "move"); err != nil {
		return err
	}
	if err := m.mkdirParent(dst); err != nil {
		return err
	}

	err := m.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, unix.EXDEV) {
		return errors.PathError(err, errors.ErrFileMove, "move", src).WithDetail("target", dst)
	}

	m.logger.Debug().Str("from", src).Str("to", dst).Msg("Cross-device move, copying instead")
	if err := m.copyFile(src, dst); err != nil {
		return errors.PathError(err, errors.ErrFileMove, "move", src).WithDetail("target", dst)
	}
	if err := m.fs.Remove(src); err != nil {
		return errors.PathError(err, errors.ErrFileMove, "remove moved", src).WithDetail("target", dst)
	}
	return nil
}

// Copy copies src to dst preserving permission bits and modification time,
// creating dst's parent directories.
func (m *Mutator) Copy(src, dst string) error {
	m.logger.Debug().Str("from", src).Str("to", dst).Msg("Copying file")
	if err := m.ensureFree(dst, errors.ErrFileCopy, "copy"); err != nil {
		return err
	}
	if err := m.mkdirParent(dst); err != nil {
		return err
	}
	if err := m.copyFile(src, dst); err != nil {
		return errors.PathError(err, errors.ErrFileCopy, "copy", src).WithDetail("target", dst)
	}
	return nil
}

func (m *Mutator) ensureFree(path string, code errors.ErrorCode, op string) error {
	taken, err := Taken(m.fs, path)
	if err != nil {
		return errors.PathError(err, code, op, path)
	}
	if taken {
		return errors.PathError(ErrDestinationExists, code, op, path)
	}
	return nil
}

func (m *Mutator) mkdirParent(path string) error {
	dir := filepath.Dir(path)
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return errors.PathError(err, errors.ErrDirCreate, "create directory", dir)
	}
	return nil
}

func (m *Mutator) copyFile(src, dst string) error {
	in, err := m.fs.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := m.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	// Closing touches the mtime on some backends, so metadata goes last.
	if err = out.Close(); err != nil {
		return err
	}
	if err = m.fs.Chmod(dst, info.Mode()&(fs.ModePerm|fs.ModeSetuid|fs.ModeSetgid|fs.ModeSticky)); err != nil {
		return err
	}
	return m.fs.Chtimes(dst, info.ModTime(), info.ModTime())
}
