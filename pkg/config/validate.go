package config

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/cleanfiles/pkg/errors"
	"github.com/arthur-debert/cleanfiles/pkg/paths"
	"github.com/arthur-debert/cleanfiles/pkg/permissions"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sys/unix"
)

// Validate checks the configuration values. It does not touch the disk and
// does not look at the directories.
func (c *Config) Validate() error {
	if err := permissions.Validate(c.Files.DefaultFileAccessRights); err != nil {
		return err
	}

	if utf8.RuneCountInString(c.Files.SubstituteChar) != 1 {
		return errors.Newf(errors.ErrConfigInvalid,
			"substitute_char must be exactly one character, got %q", c.Files.SubstituteChar).
			WithDetail("key", "files.substitute_char")
	}
	if strings.ContainsRune(c.Files.ProblematicChars, c.Substitute()) {
		return errors.Newf(errors.ErrConfigInvalid,
			"substitute_char %q is itself a problematic character", c.Files.SubstituteChar).
			WithDetail("key", "files.substitute_char")
	}

	for _, pattern := range c.Files.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf(errors.ErrConfigInvalid, "invalid exclude pattern %q", pattern).
				WithDetail("key", "files.exclude")
		}
	}
	return nil
}

// ValidateDirs checks that every root is an accessible directory and that no
// root equals or contains another. It must pass before anything is scanned.
func (c *Config) ValidateDirs() error {
	if c.MainDir == "" {
		return errors.New(errors.ErrConfigInvalid, "a main directory is required")
	}
	if len(c.AuxDirs) == 0 {
		return errors.New(errors.ErrConfigInvalid, "at least one auxiliary directory is required")
	}

	roots := c.Roots()
	normalized := make([]string, len(roots))

	for i, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return errors.PathError(err, errors.ErrDirAccess, "open directory", root)
		}
		if !info.IsDir() {
			return errors.Newf(errors.ErrDirAccess, "%s is not a directory", root).WithDetail("path", root)
		}
		if err := unix.Access(root, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
			return errors.PathError(err, errors.ErrDirAccess, "access directory", root)
		}
		normalized[i] = paths.Normalize(root)
	}

	for i := range normalized {
		for j := range normalized {
			if i == j {
				continue
			}
			if paths.IsWithin(normalized[i], normalized[j]) {
				return errors.Newf(errors.ErrConfigInvalid,
					"directory %s overlaps with %s", roots[i], roots[j]).
					WithDetail("path", roots[i])
			}
		}
	}
	return nil
}
