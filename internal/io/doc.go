// Package ioutils provides file system and image utilities for the
// downloader.
//
// This package contains functions for:
//   - Directory creation
//   - File writing (playlist files)
//   - Cover-art resizing and JPEG conversion
//
// All functions that accept a context.Context respect cancellation,
// though file operations themselves may not be interruptible.
package ioutils
