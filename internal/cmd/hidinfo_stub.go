//go:build !linux

package cmd

import (
	"log/slog"
	"os"
)

func logHIDInfo(f *os.File, logger *slog.Logger) {
	// hidraw ioctls are linux-only.
}
