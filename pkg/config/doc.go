// Package config loads and validates the cleanfiles configuration.
//
// Values are layered with koanf, later layers winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user's config file, TOML or YAML by extension
//  3. CLEANFILES_<SECTION>__<KEY> environment variables
//  4. command line overrides
//
// Policies are written "True", "False" or "None"; native booleans are
// accepted as well.
package config
