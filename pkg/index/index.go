// Package index builds snapshots of the files under the main and auxiliary
// directories. Each regular file becomes a types.FileRecord carrying its
// permissions, size, modification time and content fingerprint.
package index

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/logging"
	"github.com/arthur-debert/cleanfiles/pkg/permissions"
	"github.com/arthur-debert/cleanfiles/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Options tune a Scanner
type Options struct {
	// Excludes are doublestar globs matched against the slash separated
	// path relative to the root. Matching directories are not descended.
	Excludes []string

	// OnInspect is called for every record added to a snapshot
	OnInspect func(types.FileRecord)
}

// Scanner walks root directories
type Scanner struct {
	fs     afero.Fs
	opts   Options
	logger zerolog.Logger
}

// NewScanner creates a scanner over fsys
func NewScanner(fsys afero.Fs, opts Options) *Scanner {
	return &Scanner{
		fs:     fsys,
		opts:   opts,
		logger: logging.GetLogger("index"),
	}
}

// Snapshot lists every regular file under root in lexical walk order.
// Any unreadable entry aborts the whole root: there is no partial result.
func (s *Scanner) Snapshot(root string) ([]types.FileRecord, error) {
	var records []types.FileRecord

	err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return errors.PathError(walkErr, errors.ErrFileRead, "scan", path)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.PathError(err, errors.ErrFileRead, "scan", path)
		}
		if rel != "." && s.excluded(rel) {
			s.logger.Trace().Str("path", path).Msg("Excluded")
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		fingerprint, err := FingerprintFile(s.fs, path)
		if err != nil {
			return errors.PathError(err, errors.ErrFileRead, "read", path)
		}

		record := types.FileRecord{
			Root:        root,
			Path:        rel,
			Permissions: permissions.Format(info.Mode()),
			Fingerprint: fingerprint,
			Size:        info.Size(),
			ModTime:     info.ModTime(),
		}
		records = append(records, record)

		s.logger.Trace().
			Str("root", root).
			Str("path", rel).
			Int64("size", record.Size).
			Msg("Inspected")
		if s.opts.OnInspect != nil {
			s.opts.OnInspect(record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// SnapshotAll scans the main root and each auxiliary root in order
func (s *Scanner) SnapshotAll(main string, auxiliary []string) (*types.Snapshot, error) {
	snapshot := types.NewSnapshot(main, auxiliary)
	for _, root := range snapshot.Roots() {
		records, err := s.Snapshot(root)
		if err != nil {
			return nil, err
		}
		snapshot.Set(root, records)
	}

	s.logger.Debug().
		Int("roots", len(snapshot.Roots())).
		Int("files", snapshot.Len()).
		Msg("Snapshot built")
	return snapshot, nil
}

func (s *Scanner) excluded(rel string) bool {
	slashed := filepath.ToSlash(rel)
	for _, pattern := range s.opts.Excludes {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}
