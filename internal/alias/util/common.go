package util

import (
	"log/slog"
	"os"
)

// CloseFileFunc closes f and logs a failure instead of returning it, for use in defers.
func CloseFileFunc(f *os.File) {
	if err := f.Close(); err != nil {
		slog.Warn("close file failed", "file", f.Name(), "err", err)
	}
}
