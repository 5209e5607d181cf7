//go:build windows

package main

import (
	"log/slog"
	"os"

	"github.com/omnishock/omnishock/internal/console"
)

// Without arguments a double-clicked binary would print usage and close its
// window at once, so show the controller test instead.
func init() {
	if len(os.Args) < 2 && console.StartedFromExplorer() {
		slog.Info("Started from Explorer, running the controller test")
		slog.Warn("Run from a terminal to drive an emulator!")
		os.Args = append(os.Args, "test")
	}
}
