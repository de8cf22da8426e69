// Package http provides the HTTP client used for cover-art fetches.
//
// Audio transfers never go through this package; those are delegated to
// the extraction engine. The Client here handles:
//   - A bounded request timeout
//   - A stable User-Agent header
//   - Status-code checking (anything but 200 OK is an error)
//
// # Basic Usage
//
//	client := http.NewClient()
//	art, err := client.DownloadBytes(ctx, thumbnailURL)
package http
