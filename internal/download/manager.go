package download

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	audiotag "github.com/dhowden/tag"
	"github.com/handiism/ytmp3-downloader/internal/audio"
	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/engine"
	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
	"github.com/handiism/ytmp3-downloader/internal/model"
	"github.com/handiism/ytmp3-downloader/internal/naming"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// TransferProgress is byte-level progress for one item's transfer,
// mapped to a 0-100 percentage.
type TransferProgress struct {
	URL     string
	Percent float64
	Speed   string
}

// TransferFunc receives transfer progress updates.
type TransferFunc func(TransferProgress)

// ItemResult is the outcome of one item's download pipeline.
//
// Err is nil on success. Path names the output file; on a tag-write
// failure the file exists untagged and Err carries the reason.
type ItemResult struct {
	URL      string
	Title    string
	Path     string
	Duration float64
	Err      error
}

// Succeeded reports whether the item completed without error.
func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

// PlaylistReport aggregates the outcome of a playlist run.
type PlaylistReport struct {
	// Title is the playlist title as reported by the listing.
	Title string

	// Total is the number of listed entries, unresolvable ones included.
	Total int

	// Skipped counts entries that never reached the download pipeline:
	// failed extraction (null entries) or no resolvable URL.
	Skipped int

	// Results holds one entry per item that entered the pipeline.
	Results []ItemResult
}

// Succeeded returns the number of items that completed without error.
func (r *PlaylistReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded() {
			n++
		}
	}
	return n
}

// Success reports whether the playlist run counts as successful: at
// least one item made it through. Partial failure is not total failure.
func (r *PlaylistReport) Success() bool {
	return r.Succeeded() > 0
}

// TagReport aggregates the outcome of a tag-existing walk.
type TagReport struct {
	Processed int
	Skipped   int
	Failed    int
}

// Success reports whether at least one file was tagged.
func (r *TagReport) Success() bool {
	return r.Processed > 0
}

// extractor is the extraction engine boundary: resolve a URL to
// metadata, enumerate a playlist, or materialize a transcoded file.
type extractor interface {
	Probe(ctx context.Context, url string) (*engine.Info, error)
	ProbeFlat(ctx context.Context, url string) (*engine.Info, error)
	Download(ctx context.Context, url, outputTemplate string, onProgress engine.ProgressFunc) error
}

// metadataWriter is the tagging boundary.
type metadataWriter interface {
	WriteMetadata(ctx context.Context, filePath string, rec *model.Metadata) error
}

// Manager coordinates downloads and tagging.
type Manager struct {
	settings  *config.Settings
	extractor extractor
	writer    metadataWriter
	playlist  *audio.PlaylistCreator

	onProgress func(ProgressEvent)
	onTransfer TransferFunc

	totalItems  int32
	doneItems   int32
	lastPercent uint64 // float64 bits

	mu     sync.Mutex
	recent []ProgressEvent
}

// recentEventLimit bounds the event buffer kept for polling UIs.
const recentEventLimit = 10

// NewManager creates a new download Manager.
//
// The onProgress callback receives log-style events and may be nil.
// Transfer percentages are delivered separately; see SetTransferFunc.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	m := &Manager{
		settings:   settings,
		onProgress: onProgress,
		playlist:   audio.NewPlaylistCreator(settings.M3UExtended),
	}

	m.extractor = engine.New(settings.YtDlpPath, settings.AudioFormat, settings.AudioQuality)
	m.writer = audio.NewTagger(&audio.TagOptions{
		SaveCoverArt:       settings.SaveCoverArtInTags,
		ResizeCover:        settings.CoverArtInTagsResize,
		CoverMaxSize:       settings.CoverArtInTagsMaxSize,
		ConvertCoverToJPEG: settings.ConvertCoverArtToJPG,
	}, func(msg string) {
		m.progress(ProgressEvent{Message: msg, Level: LevelWarning})
	})

	return m
}

// SetTransferFunc installs the receiver for per-item transfer
// percentages. Pass nil to disable.
func (m *Manager) SetTransferFunc(f TransferFunc) {
	m.onTransfer = f
}

// Run classifies the URL and dispatches to the single-item pipeline or
// the playlist loop, downloading into the configured downloads path.
//
// URLs that look like playlists by pattern skip the classification
// probe; everything else is classified by a flat probe, mirroring how
// ambiguous URLs resolve on the provider side.
func (m *Manager) Run(ctx context.Context, rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return fmt.Errorf("no URL provided")
	}

	if engine.IsPlaylistURL(rawURL) {
		m.progress(ProgressEvent{Message: "Detected playlist URL. Starting playlist download...", Level: LevelInfo})
		return m.runPlaylist(ctx, rawURL)
	}

	info, err := m.extractor.ProbeFlat(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("classifying %s: %w", rawURL, err)
	}

	if info.IsPlaylist() {
		m.progress(ProgressEvent{Message: "Detected playlist URL. Starting playlist download...", Level: LevelInfo})
		return m.runPlaylist(ctx, rawURL)
	}

	m.progress(ProgressEvent{Message: "Detected single video URL. Starting download...", Level: LevelInfo})
	atomic.StoreInt32(&m.totalItems, 1)
	atomic.StoreInt32(&m.doneItems, 0)

	res := m.DownloadOne(ctx, model.DownloadTarget{
		SourceURL:      rawURL,
		DestinationDir: m.settings.DownloadsPath,
	})
	return res.Err
}

func (m *Manager) runPlaylist(ctx context.Context, rawURL string) error {
	report, err := m.DownloadPlaylist(ctx, rawURL, m.settings.DownloadsPath)
	if err != nil {
		return err
	}
	if !report.Success() {
		return fmt.Errorf("no playlist item downloaded successfully")
	}
	return nil
}

// DownloadOne runs the full pipeline for a single item: probe metadata,
// derive the file name, download and transcode, then tag. Every failure
// is captured in the returned ItemResult; this method never panics the
// caller out of a batch.
func (m *Manager) DownloadOne(ctx context.Context, target model.DownloadTarget) ItemResult {
	url := target.SourceURL
	outputDir := target.DestinationDir

	res := ItemResult{URL: url}
	defer atomic.AddInt32(&m.doneItems, 1)

	info, err := m.extractor.Probe(ctx, url)
	if err != nil {
		res.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error probing %s: %v", url, err), Level: LevelError})
		return res
	}

	artist := info.Uploader
	if artist == "" {
		artist = info.Artist
	}

	rec := m.buildMetadata(info, artist)
	base := naming.DeriveBaseName(info.Title, artist)

	res.Title = info.Title
	res.Duration = info.Duration

	if err := ioutils.EnsureDir(outputDir); err != nil {
		res.Err = fmt.Errorf("creating output directory: %w", err)
		m.progress(ProgressEvent{Message: res.Err.Error(), Level: LevelError})
		return res
	}

	outPath := filepath.Join(outputDir, base+"."+m.settings.AudioFormat)
	res.Path = outPath

	if m.settings.SkipExisting {
		if fi, err := os.Stat(outPath); err == nil && fi.Size() > 0 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(outPath)), Level: LevelVerbose})
			return res
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading: %s", info.Title), Level: LevelInfo})
	m.storePercent(0)

	template := filepath.Join(outputDir, base+".%(ext)s")
	err = m.extractor.Download(ctx, url, template, func(u engine.ProgressUpdate) {
		m.reportTransfer(url, u)
	})
	if err != nil {
		res.Err = err
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", url, err), Level: LevelError})
		return res
	}

	if _, err := os.Stat(outPath); err != nil {
		res.Err = fmt.Errorf("output file missing after download: %w", err)
		m.progress(ProgressEvent{Message: res.Err.Error(), Level: LevelError})
		return res
	}

	if m.settings.ModifyTags {
		m.progress(ProgressEvent{Message: "Adding metadata to MP3 file...", Level: LevelVerbose})
		if err := m.writer.WriteMetadata(ctx, outPath, rec); err != nil {
			res.Err = fmt.Errorf("tagging: %w", err)
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error setting metadata for %s: %v (file kept untagged)", filepath.Base(outPath), err), Level: LevelWarning})
			return res
		}
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Success: %s", filepath.Base(outPath)), Level: LevelSuccess})
	return res
}

// buildMetadata assembles the tag record from provider metadata.
//
// Fallback chains follow the provider's conventions: the album falls
// back from an explicit album through the playlist title to a constant,
// the year from an explicit release year to the upload-date prefix, and
// the genre from an explicit genre through the first category.
func (m *Manager) buildMetadata(info *engine.Info, artist string) *model.Metadata {
	album := info.Album
	if album == "" {
		album = info.PlaylistTitle
	}
	if album == "" {
		album = "Unknown Music Collection"
	}

	year := ""
	if info.ReleaseYear > 0 {
		year = fmt.Sprintf("%d", info.ReleaseYear)
	} else if len(info.UploadDate) >= 4 {
		year = info.UploadDate[:4]
	}

	genre := info.Genre
	if genre == "" && len(info.Categories) > 0 {
		genre = info.Categories[0]
	}
	if genre == "" {
		genre = "Music"
	}

	rec := &model.Metadata{
		Title:    info.Title,
		Artist:   artist,
		Album:    album,
		Year:     year,
		Genre:    genre,
		CoverURL: info.ThumbnailURL(),
	}
	rec.SetComment(info.Description)

	return rec
}

// DownloadPlaylist enumerates the playlist flat, creates a sanitized
// sub-folder named after it, and feeds every resolvable entry through
// the single-item pipeline. Entries that failed extraction or carry no
// resolvable URL are skipped and counted, never fatal.
func (m *Manager) DownloadPlaylist(ctx context.Context, url, outputDir string) (*PlaylistReport, error) {
	info, err := m.extractor.ProbeFlat(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("could not enumerate playlist %s: %w", url, err)
	}
	if len(info.Entries) == 0 {
		return nil, fmt.Errorf("could not find videos in the playlist %s", url)
	}

	title := info.Title
	if title == "" {
		title = "YouTube Playlist"
	}

	folder := naming.SanitizeFileName(title)
	playlistPath := filepath.Join(outputDir, folder)
	if err := ioutils.EnsureDir(playlistPath); err != nil {
		return nil, fmt.Errorf("creating playlist directory: %w", err)
	}

	report := &PlaylistReport{Title: title, Total: len(info.Entries)}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %d videos in playlist: %s", report.Total, title), Level: LevelInfo})

	atomic.StoreInt32(&m.totalItems, int32(report.Total))
	atomic.StoreInt32(&m.doneItems, 0)

	limit := m.settings.MaxConcurrentDownloads
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var mu sync.Mutex
	for i, raw := range info.Entries {
		index := i + 1

		if raw == nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping entry %d: extraction failed", index), Level: LevelWarning})
			report.Skipped++
			atomic.AddInt32(&m.doneItems, 1)
			continue
		}

		entry := raw.ToEntry()
		resolved, ok := entry.ResolveURL()
		if !ok {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping entry %d: could not extract video URL", index), Level: LevelWarning})
			report.Skipped++
			atomic.AddInt32(&m.doneItems, 1)
			continue
		}

		entryTitle := entry.Title
		if entryTitle == "" {
			entryTitle = "Untitled"
		}

		g.Go(func() error {
			m.progress(ProgressEvent{Message: fmt.Sprintf("[%d/%d] Processing: %s", index, report.Total, entryTitle), Level: LevelInfo})

			res := m.DownloadOne(gctx, model.DownloadTarget{
				SourceURL:      resolved,
				DestinationDir: playlistPath,
			})

			mu.Lock()
			report.Results = append(report.Results, res)
			mu.Unlock()
			return nil // item failures never abort the batch
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if ctx.Err() != nil {
		return report, ctx.Err()
	}

	if m.settings.CreatePlaylist && report.Success() {
		m.writePlaylistFile(ctx, playlistPath, folder, report)
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Playlist download complete: %d/%d videos were successfully downloaded to '%s'", report.Succeeded(), report.Total, playlistPath),
		Level:   LevelInfo,
	})

	return report, nil
}

// writePlaylistFile renders an M3U for the successful items.
func (m *Manager) writePlaylistFile(ctx context.Context, playlistPath, folder string, report *PlaylistReport) {
	var items []audio.PlaylistItem
	for _, res := range report.Results {
		if !res.Succeeded() {
			continue
		}
		name := filepath.Base(res.Path)
		items = append(items, audio.PlaylistItem{
			Path:        res.Path,
			DisplayName: strings.TrimSuffix(name, filepath.Ext(name)),
			Duration:    res.Duration,
		})
	}

	content := m.playlist.CreateM3U(items)
	target := filepath.Join(playlistPath, folder+".m3u")
	if err := ioutils.WriteFile(ctx, target, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist file: %v", err), Level: LevelWarning})
		return
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("Created playlist: %s", filepath.Base(target)), Level: LevelSuccess})
}

// TagExisting walks a directory tree of already-downloaded MP3 files
// and tags each one from metadata inferred out of its file name and
// parent folder. A single file's failure does not stop the walk.
func (m *Manager) TagExisting(ctx context.Context, dir string) (*TagReport, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Processing existing MP3 files in: %s", dir), Level: LevelInfo})

	report := &TagReport{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error walking %s: %v", path, err), Level: LevelWarning})
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".mp3") {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if m.settings.SkipTagged && isFullyTagged(path) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping already tagged: %s", d.Name()), Level: LevelVerbose})
			report.Skipped++
			return nil
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Processing: %s", d.Name()), Level: LevelVerbose})

		rec := naming.InferFromFileName(d.Name(), filepath.Base(filepath.Dir(path)))
		if err := m.writer.WriteMetadata(ctx, path, rec); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error processing %s: %v", d.Name(), err), Level: LevelError})
			report.Failed++
			return nil
		}

		report.Processed++
		return nil
	})
	if err != nil {
		return report, err
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Metadata processing complete: %d successful, %d failed", report.Processed, report.Failed),
		Level:   LevelInfo,
	})

	return report, nil
}

// isFullyTagged reports whether the file already carries title, artist
// and album tags.
func isFullyTagged(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	meta, err := audiotag.ReadFrom(f)
	if err != nil {
		return false
	}
	return meta.Title() != "" && meta.Artist() != "" && meta.Album() != ""
}

// GetProgress returns item-level progress plus the transfer percentage
// of the item currently downloading, for polling UIs.
func (m *Manager) GetProgress() (done, total int32, percent float64) {
	return atomic.LoadInt32(&m.doneItems),
		atomic.LoadInt32(&m.totalItems),
		m.loadPercent()
}

// RecentEvents returns the most recent progress events, oldest first.
func (m *Manager) RecentEvents() []ProgressEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProgressEvent, len(m.recent))
	copy(out, m.recent)
	return out
}

// reportTransfer maps raw engine byte counts to a 0-100 percentage.
// An unknown total keeps the previous percentage; a finished transfer
// pins it to 100.
func (m *Manager) reportTransfer(url string, u engine.ProgressUpdate) {
	percent := m.loadPercent()

	switch u.Status {
	case "finished":
		percent = 100
	case "downloading":
		if u.TotalBytesEstimate > 0 {
			percent = float64(u.DownloadedBytes) / float64(u.TotalBytesEstimate) * 100
		}
	}
	if percent > 100 {
		percent = 100
	}

	m.storePercent(percent)
	if m.onTransfer != nil {
		m.onTransfer(TransferProgress{URL: url, Percent: percent, Speed: u.Speed})
	}
}

func (m *Manager) storePercent(p float64) {
	atomic.StoreUint64(&m.lastPercent, math.Float64bits(p))
}

func (m *Manager) loadPercent() float64 {
	return math.Float64frombits(atomic.LoadUint64(&m.lastPercent))
}

func (m *Manager) progress(event ProgressEvent) {
	m.mu.Lock()
	m.recent = append(m.recent, event)
	if len(m.recent) > recentEventLimit {
		m.recent = m.recent[len(m.recent)-recentEventLimit:]
	}
	m.mu.Unlock()

	if m.onProgress != nil {
		m.onProgress(event)
	}
}
