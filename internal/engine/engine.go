package engine

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is the yt-dlp executable looked up on PATH when no
// explicit path is configured.
const DefaultBinary = "yt-dlp"

// progressTemplate makes yt-dlp print one parseable line per progress
// event instead of its own progress bar.
const progressTemplate = "download:%(progress.status)s|%(progress.downloaded_bytes)s|%(progress.total_bytes_estimate)s|%(progress._speed_str)s"

// ProgressUpdate is one progress event reported by yt-dlp during a
// download. Status is "downloading" while bytes move and "finished"
// once the transfer (not the transcode) completes. Byte counts are zero
// when yt-dlp does not know them yet.
type ProgressUpdate struct {
	Status             string
	DownloadedBytes    int64
	TotalBytesEstimate int64
	Speed              string
}

// ProgressFunc receives progress events during Download.
type ProgressFunc func(ProgressUpdate)

// Engine invokes the yt-dlp program.
//
// Example:
//
//	eng := engine.New("yt-dlp", "mp3", "192")
//	info, err := eng.Probe(ctx, "https://www.youtube.com/watch?v=...")
type Engine struct {
	binPath string
	format  string
	quality string
}

// New creates an Engine. Empty arguments fall back to the yt-dlp binary
// on PATH, mp3 output, and 192 kbps quality.
func New(binPath, format, quality string) *Engine {
	if binPath == "" {
		binPath = DefaultBinary
	}
	if format == "" {
		format = "mp3"
	}
	if quality == "" {
		quality = "192"
	}
	return &Engine{binPath: binPath, format: format, quality: quality}
}

// IsPlaylistURL reports whether the URL names a playlist by pattern
// alone, without touching the network. URLs this misses are classified
// by a flat probe instead.
func IsPlaylistURL(rawURL string) bool {
	return strings.Contains(strings.ToLower(rawURL), "playlist") ||
		strings.Contains(rawURL, "&list=") ||
		strings.Contains(rawURL, "?list=")
}

// Probe extracts metadata for a single video without downloading it.
func (e *Engine) Probe(ctx context.Context, url string) (*Info, error) {
	args := []string{
		"--quiet",
		"--no-warnings",
		"--dump-json",
		"--no-playlist",
		url,
	}
	return e.runProbe(ctx, args)
}

// ProbeFlat extracts playlist metadata in flat listing mode: the
// playlist's own metadata plus its entries, without resolving each
// entry's metadata. Probing a plain video URL this way returns the
// video's info with a non-playlist type, which is how ambiguous URLs
// get classified.
func (e *Engine) ProbeFlat(ctx context.Context, url string) (*Info, error) {
	args := []string{
		"--quiet",
		"--no-warnings",
		"--dump-single-json",
		"--flat-playlist",
		url,
	}
	return e.runProbe(ctx, args)
}

func (e *Engine) runProbe(ctx context.Context, args []string) (*Info, error) {
	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, &ProbeError{
			Message:  fmt.Sprintf("yt-dlp extraction failed: %s", excerpt(stderr.String())),
			Original: err,
		}
	}

	info, err := parseInfo(output)
	if err != nil {
		return nil, &ProbeError{Message: "failed to parse yt-dlp output", Original: err}
	}
	return info, nil
}

// parseInfo decodes a yt-dlp JSON info dictionary.
func parseInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(bytes.TrimSpace(data), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Download fetches the best available audio stream for the URL and
// transcodes it to the configured format and quality. outputTemplate is
// a yt-dlp output template, typically "<dir>/<base>.%(ext)s"; the final
// extension is the configured audio format.
//
// Progress events from yt-dlp's own transfer are parsed off stdout and
// forwarded to onProgress, which may be nil. Cancelling the context
// kills the yt-dlp process.
func (e *Engine) Download(ctx context.Context, url, outputTemplate string, onProgress ProgressFunc) error {
	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", e.format,
		"--audio-quality", e.quality,
		"--output", outputTemplate,
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--newline",
		"--progress",
		"--progress-template", progressTemplate,
		url,
	}

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &DownloadError{Message: "failed to pipe yt-dlp output", Original: err}
	}

	if err := cmd.Start(); err != nil {
		return &DownloadError{Message: "failed to start yt-dlp", Original: err}
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		update, ok := parseProgressLine(scanner.Text())
		if ok && onProgress != nil {
			onProgress(update)
		}
	}

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return &DownloadError{Message: "download cancelled", Original: ctx.Err()}
		}
		return &DownloadError{
			Message:  fmt.Sprintf("yt-dlp download failed: %s", excerpt(stderr.String())),
			Original: err,
		}
	}

	return nil
}

// parseProgressLine parses one line rendered by progressTemplate.
// Returns false for anything else yt-dlp happens to print.
func parseProgressLine(line string) (ProgressUpdate, bool) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) != 4 {
		return ProgressUpdate{}, false
	}

	update := ProgressUpdate{
		Status: strings.TrimSpace(parts[0]),
		Speed:  strings.TrimSpace(parts[3]),
	}
	if update.Status != "downloading" && update.Status != "finished" {
		return ProgressUpdate{}, false
	}

	update.DownloadedBytes = parseByteCount(parts[1])
	update.TotalBytesEstimate = parseByteCount(parts[2])
	if update.Speed == "NA" {
		update.Speed = ""
	}

	return update, true
}

// parseByteCount parses a byte count that yt-dlp may render as an
// integer, a float, or "NA".
func parseByteCount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" || s == "NA" || s == "None" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

// excerpt bounds a stderr dump to a reasonable length for error messages.
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	if s == "" {
		s = "(no output)"
	}
	return s
}
