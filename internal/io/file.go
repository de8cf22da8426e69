package ioutils

import (
	"context"
	"os"
)

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755. If the directory
// already exists, no error is returned.
//
// Example:
//
//	err := EnsureDir("downloaded-mp3/Road Trip Mix")
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation (currently unused but reserved for future use)
//   - path: File path to write to
//   - data: Bytes to write
func WriteFile(ctx context.Context, path string, data []byte) error {
	return os.WriteFile(path, data, 0644)
}
