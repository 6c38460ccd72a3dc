// Package testutil provides utilities for testing cleanfiles components.
//
// Key components:
//   - Tree: declarative builder for directory trees on an afero.Fs, with
//     explicit contents, modes and modification times
//   - MockProvider: testify mock of the decision provider
//
// Usage guidelines:
//   - Most tests should build their trees on an in-memory filesystem
//   - Only tests exercising OS behaviour (chmod bits, access checks, locks)
//     should touch the real filesystem through t.TempDir()
//   - All test data should be defined inline, not in external files
package testutil
