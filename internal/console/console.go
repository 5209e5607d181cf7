//go:build !windows

// Package console detects how the program was started.
package console

// StartedFromExplorer reports whether the program was launched by
// double-clicking it. Only Windows can tell.
func StartedFromExplorer() bool {
	return false
}
