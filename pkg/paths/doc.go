// Package paths provides centralized path handling for cleanfiles.
//
// Configuration, log and lock locations follow the XDG Base Directory
// specification (via github.com/adrg/xdg) and can be overridden with the
// CLEANFILES_CONFIG_DIR and CLEANFILES_STATE_DIR environment variables.
// The package also holds the small path helpers used to validate roots.
package paths
