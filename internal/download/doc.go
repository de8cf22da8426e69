// Package download provides the orchestration logic for turning URLs
// into tagged MP3 files.
//
// # Manager
//
// The Manager coordinates the per-item pipeline and the playlist loop:
//
//  1. Classify the input URL (single video vs playlist)
//  2. Probe metadata through the extraction engine (no transfer)
//  3. Derive the output file name from title and artist
//  4. Download and transcode through the extraction engine
//  5. Stamp ID3 metadata and cover art onto the finished file
//
// For playlists the entries are enumerated flat, resolved to watch URLs
// and fed through the same pipeline one by one. A single entry's
// failure never aborts the rest; each entry yields an ItemResult and
// the run counts as a success when at least one entry succeeded.
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Run(ctx, url); err != nil {
//	    log.Fatal(err)
//	}
//
// # Concurrency
//
// Items download sequentially by default. Setting
// MaxConcurrentDownloads above 1 runs playlist entries through a
// bounded worker pool; each item's own pipeline (probe, transcode, tag
// write) stays strictly ordered, and a file is only ever tagged after
// the engine has fully materialized it.
//
// # Progress
//
// Log-style events flow through the ProgressEvent callback. Byte-level
// transfer progress for the item currently downloading is mapped to a
// 0-100 percentage and delivered to an optional TransferFunc; the
// percentage is forced to 100 when the engine reports the transfer
// finished, regardless of rounding drift.
package download
