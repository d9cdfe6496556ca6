// Package filesystem holds the afero helpers shared by the loaders and the
// variant writers.
//
// Every component that touches files takes an afero.Fs so tests can run on
// afero.NewMemMapFs. NewOS returns the real filesystem.
package filesystem
