// Package model defines the core data types shared across the downloader.
//
// # Types
//
//   - Metadata: the tag record written into a finished MP3 file
//     (title, artist, album, year, genre, comment, cover art URL)
//   - DownloadTarget: a source URL paired with a destination directory
//   - PlaylistEntry: one entry of a flat playlist listing
//
// A Metadata record is built from provider metadata (preferred) or inferred
// from a file name (fallback), never both for the same file in one run.
// It is applied exactly once, after the audio file is fully written.
package model
