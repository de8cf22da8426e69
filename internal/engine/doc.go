// Package engine wraps the yt-dlp program, which does all of the actual
// URL resolution, stream selection, downloading, and audio transcoding.
//
// The wrapper exposes three operations:
//
//   - Probe: metadata-only extraction for a single video (no transfer)
//   - ProbeFlat: flat playlist enumeration, entries left unresolved
//   - Download: best-audio download transcoded to the target format,
//     with machine-readable progress forwarded to a callback
//
// # Requirements
//
// The yt-dlp binary (and ffmpeg, for transcoding) must be on PATH or
// configured explicitly. The wrapper never retries; yt-dlp handles
// retry, resume, and throttling internally.
//
// # Basic Usage
//
//	eng := engine.New("yt-dlp", "mp3", "192")
//
//	info, err := eng.Probe(ctx, url)
//	if err != nil {
//	    return err
//	}
//
//	err = eng.Download(ctx, url, "/music/Artist - Title.%(ext)s", func(u engine.ProgressUpdate) {
//	    fmt.Printf("%s %d/%d\n", u.Status, u.DownloadedBytes, u.TotalBytesEstimate)
//	})
package engine
