package pipeline

import (
	"path/filepath"

	"github.com/arthur-debert/cleanfiles/pkg/classify"
	"github.com/arthur-debert/cleanfiles/pkg/conflicts"
	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/filesystem"
	"github.com/arthur-debert/cleanfiles/pkg/report"
	"github.com/arthur-debert/cleanfiles/pkg/resolve"
	"github.com/arthur-debert/cleanfiles/pkg/types"
)

func (p *Pipeline) deleteEmpty(snap *types.Snapshot) error {
	return p.deleteMatching(snap, "empty", classify.IsEmpty)
}

func (p *Pipeline) deleteTemporary(snap *types.Snapshot) error {
	suffixes := p.cfg.Files.TempFileSuffixes
	return p.deleteMatching(snap, "a temporary file", func(r types.FileRecord) bool {
		return classify.IsTemporary(r, suffixes)
	})
}

func (p *Pipeline) deleteMatching(snap *types.Snapshot, reason string, match func(types.FileRecord) bool) error {
	for _, r := range snap.Union() {
		if !match(r) {
			continue
		}
		ok, err := p.resolver.Delete(r, reason, p.cfg.Actions.Delete)
		if err != nil {
			return err
		}
		if !ok {
			p.logger.Debug().Str("path", r.AbsPath()).Msg("Kept")
			continue
		}
		if err := p.delete(r, reason); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) resolveDuplicates(snap *types.Snapshot) error {
	groups := conflicts.GroupByFingerprint(snap.Union())
	return p.resolveGroups(snap, resolve.Duplicate, groups, p.cfg.Actions.ReplaceOldVersion)
}

func (p *Pipeline) resolveNameCollisions(snap *types.Snapshot) error {
	groups := conflicts.GroupByFilename(snap.Union())
	return p.resolveGroups(snap, resolve.NameCollision, groups, p.cfg.Actions.ReplaceNewVersion)
}

// resolveGroups reduces every group to its survivor. A failed delete stops
// the stage with the group partly resolved.
func (p *Pipeline) resolveGroups(snap *types.Snapshot, kind resolve.Kind, groups []conflicts.Group, policy types.Policy) error {
	for _, g := range groups {
		outcome, err := p.resolver.Group(kind, g, policy, snap.RootRank)
		if err != nil {
			return err
		}
		p.logger.Info().
			Str("kind", kind.String()).
			Str("survivor", outcome.Survivor.AbsPath()).
			Int("removed", len(outcome.Remove)).
			Msg("Group resolved")

		for _, r := range outcome.Remove {
			if err := p.delete(r, kind.String()+" of "+outcome.Survivor.AbsPath()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Pipeline) normalizePermissions(snap *types.Snapshot) error {
	want := p.cfg.Files.DefaultFileAccessRights
	mode, err := p.cfg.DefaultMode()
	if err != nil {
		return err
	}

	for _, r := range snap.Union() {
		if !classify.HasNonDefaultPermissions(r, want) {
			continue
		}
		ok, err := p.resolver.SetPermissions(r, want, p.cfg.Actions.SetDefaultAttributes)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		path := r.AbsPath()
		_, err = p.apply(report.ActionChmod, path, "", r.Permissions+" -> "+want, func() error {
			return p.mutator.Chmod(path, mode)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) sanitizeNames(snap *types.Snapshot) error {
	chars := p.cfg.ProblematicRunes()
	substitute := p.cfg.Substitute()

	for _, r := range snap.Union() {
		if !classify.IsProblematicName(r.Filename(), chars) {
			continue
		}
		newName := classify.SanitizeName(r.Filename(), chars, substitute)
		path := r.AbsPath()
		target := filepath.Join(filepath.Dir(path), newName)

		if taken, err := filesystem.Taken(p.mutator.Fs(), target); err != nil {
			return errors.PathError(err, errors.ErrFileRename, "rename", path).WithDetail("target", target)
		} else if taken {
			p.skip(path, target, "destination exists")
			continue
		}

		ok, err := p.resolver.Rename(r, newName, p.cfg.Actions.Rename)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		_, err = p.apply(report.ActionRenamed, path, target, "", func() error {
			return p.mutator.Rename(path, target)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// merge brings every auxiliary file to the same relative path under the
// main root. Existing destinations are never overwritten.
func (p *Pipeline) merge(snap *types.Snapshot) error {
	for _, r := range snap.AuxiliaryFiles() {
		src := r.AbsPath()
		dest := filepath.Join(snap.Main, r.Path)

		if taken, err := filesystem.Taken(p.mutator.Fs(), dest); err != nil {
			return errors.PathError(err, errors.ErrFileMove, "merge", src).WithDetail("target", dest)
		} else if taken {
			p.skip(src, dest, "destination exists")
			continue
		}

		method, err := p.resolver.Transfer(r, dest, p.cfg.Actions.Copy)
		if err != nil {
			return err
		}

		if method == resolve.Copy {
			_, err = p.apply(report.ActionCopied, src, dest, "", func() error {
				return p.mutator.Copy(src, dest)
			})
		} else {
			_, err = p.apply(report.ActionMoved, src, dest, "", func() error {
				return p.mutator.Move(src, dest)
			})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) delete(r types.FileRecord, reason string) error {
	path := r.AbsPath()
	_, err := p.apply(report.ActionDeleted, path, "", reason, func() error {
		return p.mutator.Delete(path)
	})
	return err
}
