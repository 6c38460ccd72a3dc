package paths

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const (
	// AppName names the per-application XDG subdirectories
	AppName = "cleanfiles"

	// ConfigFileName is the default configuration file name
	ConfigFileName = "config.toml"

	// LogFileName is the name of the log file
	LogFileName = "cleanfiles.log"

	// LocksDir is the subdirectory of the state dir holding run locks
	LocksDir = "locks"

	// EnvConfigDir overrides the XDG config directory for cleanfiles
	EnvConfigDir = "CLEANFILES_CONFIG_DIR"

	// EnvStateDir overrides the XDG state directory for cleanfiles
	EnvStateDir = "CLEANFILES_STATE_DIR"
)

// ConfigDir returns the directory holding the default configuration file
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultConfigFile returns the configuration file used when --config is not given
func DefaultConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// StateDir returns the directory for logs and locks
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, AppName)
}

// LogFile returns the path of the append-only log file
func LogFile() string {
	return filepath.Join(StateDir(), LogFileName)
}

// LockFile returns the lock file guarding runs over mainDir. Equivalent
// spellings of the same directory map to the same lock.
func LockFile(mainDir string) string {
	key := Normalize(mainDir)
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(StateDir(), LocksDir, hex.EncodeToString(sum[:8])+".lock")
}

// Normalize returns an absolute, cleaned path with symlinks resolved when
// possible.
func Normalize(path string) string {
	path = ExpandHome(path)
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	return filepath.Clean(path)
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// IsWithin reports whether path equals dir or lies below it. Both must be
// normalized.
func IsWithin(path, dir string) bool {
	if path == dir {
		return true
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
