// Package filesystem provides the filesystem access used by cleanfiles.
//
// Everything goes through afero.Fs so the scanner and the pipeline run the
// same way against the real disk (NewOS) and against an in-memory tree in
// tests (NewMemory). Mutator wraps the handful of mutations the pipeline
// performs and turns failures into structured errors carrying the path.
package filesystem
