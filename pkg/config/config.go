package config

import (
	"io/fs"

	"github.com/arthur-debert/cleanfiles/pkg/permissions"
	"github.com/arthur-debert/cleanfiles/pkg/types"
)

// Config is everything a cleanup run needs. It does not change during a run.
type Config struct {
	// MainDir receives the auxiliary files at the end of the run
	MainDir string `koanf:"-" toml:"-"`

	// AuxDirs are merged into MainDir, in this order
	AuxDirs []string `koanf:"-" toml:"-"`

	Files   Files         `koanf:"files" toml:"files"`
	Actions types.Actions `koanf:"actions" toml:"actions"`
}

// Files holds the file classification settings
type Files struct {
	DefaultFileAccessRights string   `koanf:"default_file_access_rights" toml:"default_file_access_rights"`
	ProblematicChars        string   `koanf:"problematic_chars" toml:"problematic_chars"`
	SubstituteChar          string   `koanf:"substitute_char" toml:"substitute_char"`
	TempFileSuffixes        []string `koanf:"temp_file_suffixes" toml:"temp_file_suffixes"`
	Exclude                 []string `koanf:"exclude" toml:"exclude"`
}

// ProblematicRunes returns the problematic characters as a set-like slice
func (c *Config) ProblematicRunes() []rune {
	return []rune(c.Files.ProblematicChars)
}

// Substitute returns the substitute character. Validate guarantees there is
// exactly one.
func (c *Config) Substitute() rune {
	for _, r := range c.Files.SubstituteChar {
		return r
	}
	return '_'
}

// DefaultMode returns the numeric form of DefaultFileAccessRights
func (c *Config) DefaultMode() (fs.FileMode, error) {
	return permissions.Parse(c.Files.DefaultFileAccessRights)
}

// Roots returns the main directory followed by the auxiliary ones
func (c *Config) Roots() []string {
	roots := make([]string, 0, len(c.AuxDirs)+1)
	roots = append(roots, c.MainDir)
	return append(roots, c.AuxDirs...)
}
