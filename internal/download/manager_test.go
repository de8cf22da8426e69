package download

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/ytmp3-downloader/internal/config"
	"github.com/handiism/ytmp3-downloader/internal/engine"
	"github.com/handiism/ytmp3-downloader/internal/model"
)

// fakeExtractor stands in for the yt-dlp engine. Download writes an
// empty file at the resolved output path so the pipeline's existence
// check passes.
type fakeExtractor struct {
	infoByURL map[string]*engine.Info
	flat      *engine.Info
	flatErr   error

	failDownload map[string]bool
	downloads    []string
}

func (f *fakeExtractor) Probe(ctx context.Context, url string) (*engine.Info, error) {
	info, ok := f.infoByURL[url]
	if !ok {
		return nil, fmt.Errorf("no metadata for %s", url)
	}
	return info, nil
}

func (f *fakeExtractor) ProbeFlat(ctx context.Context, url string) (*engine.Info, error) {
	if f.flatErr != nil {
		return nil, f.flatErr
	}
	if f.flat != nil {
		return f.flat, nil
	}
	return f.Probe(ctx, url)
}

func (f *fakeExtractor) Download(ctx context.Context, url, outputTemplate string, onProgress engine.ProgressFunc) error {
	if f.failDownload[url] {
		return errors.New("download failed")
	}
	f.downloads = append(f.downloads, url)

	if onProgress != nil {
		onProgress(engine.ProgressUpdate{Status: "downloading", DownloadedBytes: 50, TotalBytesEstimate: 100})
		onProgress(engine.ProgressUpdate{Status: "finished"})
	}

	path := strings.Replace(outputTemplate, "%(ext)s", "mp3", 1)
	return os.WriteFile(path, []byte{0xFF, 0xFB}, 0644)
}

type fakeWriter struct {
	written []string
	failFor map[string]bool
}

func (f *fakeWriter) WriteMetadata(ctx context.Context, filePath string, rec *model.Metadata) error {
	if f.failFor[filepath.Base(filePath)] {
		return errors.New("tag write failed")
	}
	f.written = append(f.written, filePath)
	return nil
}

func newTestManager(t *testing.T, ext *fakeExtractor, w *fakeWriter) (*Manager, *config.Settings) {
	t.Helper()
	settings := config.DefaultSettings()
	settings.DownloadsPath = t.TempDir()

	m := NewManager(settings, nil)
	m.extractor = ext
	m.writer = w
	return m, settings
}

func videoInfo(title, uploader string) *engine.Info {
	return &engine.Info{
		ID:       "vid123",
		Title:    title,
		Uploader: uploader,
		Duration: 212,
	}
}

func TestDownloadOne(t *testing.T) {
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{
			"https://www.youtube.com/watch?v=abc": videoInfo("Believer", "Imagine Dragons"),
		},
	}
	w := &fakeWriter{}
	m, settings := newTestManager(t, ext, w)

	res := m.DownloadOne(context.Background(), model.DownloadTarget{SourceURL: "https://www.youtube.com/watch?v=abc", DestinationDir: settings.DownloadsPath})
	if res.Err != nil {
		t.Fatalf("DownloadOne() error = %v", res.Err)
	}

	want := filepath.Join(settings.DownloadsPath, "Imagine Dragons - Believer.mp3")
	if res.Path != want {
		t.Errorf("Path = %q, want %q", res.Path, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output file missing: %v", err)
	}
	if len(w.written) != 1 {
		t.Errorf("WriteMetadata calls = %d, want 1", len(w.written))
	}
}

func TestDownloadOneProbeFailure(t *testing.T) {
	ext := &fakeExtractor{infoByURL: map[string]*engine.Info{}}
	m, settings := newTestManager(t, ext, &fakeWriter{})

	res := m.DownloadOne(context.Background(), model.DownloadTarget{SourceURL: "https://www.youtube.com/watch?v=bad", DestinationDir: settings.DownloadsPath})
	if res.Err == nil {
		t.Fatal("DownloadOne() expected error for failing probe")
	}
}

func TestDownloadOneTagFailureCountsAsFailed(t *testing.T) {
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{
			"https://www.youtube.com/watch?v=abc": videoInfo("Believer", "Imagine Dragons"),
		},
	}
	w := &fakeWriter{failFor: map[string]bool{"Imagine Dragons - Believer.mp3": true}}
	m, settings := newTestManager(t, ext, w)

	res := m.DownloadOne(context.Background(), model.DownloadTarget{SourceURL: "https://www.youtube.com/watch?v=abc", DestinationDir: settings.DownloadsPath})
	if res.Err == nil {
		t.Fatal("DownloadOne() expected error when tagging fails")
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("downloaded file should be kept despite tag failure: %v", err)
	}
}

func TestDownloadOneSkipExisting(t *testing.T) {
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{
			"https://www.youtube.com/watch?v=abc": videoInfo("Believer", "Imagine Dragons"),
		},
	}
	m, settings := newTestManager(t, ext, &fakeWriter{})

	existing := filepath.Join(settings.DownloadsPath, "Imagine Dragons - Believer.mp3")
	if err := os.WriteFile(existing, []byte{0xFF, 0xFB}, 0644); err != nil {
		t.Fatal(err)
	}

	res := m.DownloadOne(context.Background(), model.DownloadTarget{SourceURL: "https://www.youtube.com/watch?v=abc", DestinationDir: settings.DownloadsPath})
	if res.Err != nil {
		t.Fatalf("DownloadOne() error = %v", res.Err)
	}
	if len(ext.downloads) != 0 {
		t.Errorf("download was invoked for an existing file")
	}
}

func TestDownloadPlaylistPartialFailure(t *testing.T) {
	// Five listed entries, two of which fail during download. The run
	// still counts as a success with three out of five completed.
	entries := make([]*engine.EntryInfo, 5)
	infoByURL := map[string]*engine.Info{}
	failDownload := map[string]bool{}
	for i := range entries {
		id := fmt.Sprintf("vid%d", i)
		url := "https://www.youtube.com/watch?v=" + id
		entries[i] = &engine.EntryInfo{ID: id, URL: url, Title: fmt.Sprintf("Track %d", i)}
		infoByURL[url] = videoInfo(fmt.Sprintf("Track %d", i), "Some Artist")
	}
	failDownload["https://www.youtube.com/watch?v=vid1"] = true
	failDownload["https://www.youtube.com/watch?v=vid3"] = true

	ext := &fakeExtractor{
		infoByURL:    infoByURL,
		flat:         &engine.Info{Type: "playlist", Title: "My Mix", Entries: entries},
		failDownload: failDownload,
	}
	m, settings := newTestManager(t, ext, &fakeWriter{})

	report, err := m.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL1", settings.DownloadsPath)
	if err != nil {
		t.Fatalf("DownloadPlaylist() error = %v", err)
	}

	if report.Total != 5 {
		t.Errorf("Total = %d, want 5", report.Total)
	}
	if got := report.Succeeded(); got != 3 {
		t.Errorf("Succeeded() = %d, want 3", got)
	}
	if !report.Success() {
		t.Error("Success() = false, want true for a partially failed playlist")
	}
}

func TestDownloadPlaylistSkipsUnresolvableEntries(t *testing.T) {
	url := "https://www.youtube.com/watch?v=good"
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{url: videoInfo("Good Track", "Artist")},
		flat: &engine.Info{
			Type:  "playlist",
			Title: "Mixed Bag",
			Entries: []*engine.EntryInfo{
				nil, // extraction failed upstream
				{Title: "No URL at all"},
				{ID: "good", URL: url, Title: "Good Track"},
			},
		},
	}
	m, settings := newTestManager(t, ext, &fakeWriter{})

	report, err := m.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL2", settings.DownloadsPath)
	if err != nil {
		t.Fatalf("DownloadPlaylist() error = %v", err)
	}

	if report.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", report.Skipped)
	}
	if got := report.Succeeded(); got != 1 {
		t.Errorf("Succeeded() = %d, want 1", got)
	}
}

func TestDownloadPlaylistEmpty(t *testing.T) {
	ext := &fakeExtractor{
		flat: &engine.Info{Type: "playlist", Title: "Empty"},
	}
	m, settings := newTestManager(t, ext, &fakeWriter{})

	if _, err := m.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL3", settings.DownloadsPath); err == nil {
		t.Fatal("DownloadPlaylist() expected error for empty playlist")
	}
}

func TestDownloadPlaylistCreatesFolderAndM3U(t *testing.T) {
	url := "https://www.youtube.com/watch?v=one"
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{url: videoInfo("Song One", "Artist")},
		flat: &engine.Info{
			Type:    "playlist",
			Title:   "Best / Mix: 2024",
			Entries: []*engine.EntryInfo{{ID: "one", URL: url, Title: "Song One"}},
		},
	}
	m, settings := newTestManager(t, ext, &fakeWriter{})
	settings.CreatePlaylist = true

	report, err := m.DownloadPlaylist(context.Background(), "https://www.youtube.com/playlist?list=PL4", settings.DownloadsPath)
	if err != nil {
		t.Fatalf("DownloadPlaylist() error = %v", err)
	}
	if !report.Success() {
		t.Fatal("playlist run failed")
	}

	folder := "Best Mix 2024"
	dir := filepath.Join(settings.DownloadsPath, folder)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("playlist folder %q not created: %v", dir, err)
	}

	m3u := filepath.Join(dir, folder+".m3u")
	data, err := os.ReadFile(m3u)
	if err != nil {
		t.Fatalf("m3u file not created: %v", err)
	}
	if !strings.HasPrefix(string(data), "#EXTM3U") {
		t.Errorf("m3u content missing header: %q", string(data))
	}
}

func TestRunDispatchesByProbe(t *testing.T) {
	url := "https://www.youtube.com/watch?v=abc"
	ext := &fakeExtractor{
		infoByURL: map[string]*engine.Info{url: videoInfo("Believer", "Imagine Dragons")},
	}
	m, _ := newTestManager(t, ext, &fakeWriter{})

	if err := m.Run(context.Background(), url); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(ext.downloads) != 1 {
		t.Errorf("downloads = %d, want 1", len(ext.downloads))
	}
}

func TestRunEmptyURL(t *testing.T) {
	m, _ := newTestManager(t, &fakeExtractor{}, &fakeWriter{})
	if err := m.Run(context.Background(), "   "); err == nil {
		t.Fatal("Run() expected error for empty URL")
	}
}

func TestTagExisting(t *testing.T) {
	ext := &fakeExtractor{}
	w := &fakeWriter{failFor: map[string]bool{"Broken - File.mp3": true}}
	m, _ := newTestManager(t, ext, w)

	dir := t.TempDir()
	albumDir := filepath.Join(dir, "Greatest Hits")
	if err := os.MkdirAll(albumDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"Artist - Song.mp3", "Broken - File.mp3", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(albumDir, name), []byte{0xFF, 0xFB}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	report, err := m.TagExisting(context.Background(), dir)
	if err != nil {
		t.Fatalf("TagExisting() error = %v", err)
	}

	if report.Processed != 1 {
		t.Errorf("Processed = %d, want 1", report.Processed)
	}
	if report.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Failed)
	}
	if !report.Success() {
		t.Error("Success() = false, want true")
	}
}

func TestTagExistingMissingDir(t *testing.T) {
	m, _ := newTestManager(t, &fakeExtractor{}, &fakeWriter{})
	if _, err := m.TagExisting(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("TagExisting() expected error for missing directory")
	}
}

func TestBuildMetadataFallbacks(t *testing.T) {
	m, _ := newTestManager(t, &fakeExtractor{}, &fakeWriter{})

	tests := []struct {
		name      string
		info      *engine.Info
		wantAlbum string
		wantYear  string
		wantGenre string
	}{
		{
			name: "explicit fields win",
			info: &engine.Info{
				Album: "Evolve", ReleaseYear: 2017, Genre: "Rock",
				UploadDate: "20200101", Categories: []string{"Music"},
			},
			wantAlbum: "Evolve",
			wantYear:  "2017",
			wantGenre: "Rock",
		},
		{
			name: "playlist title and upload date fallbacks",
			info: &engine.Info{
				PlaylistTitle: "Road Trip", UploadDate: "20170623",
				Categories: []string{"Entertainment"},
			},
			wantAlbum: "Road Trip",
			wantYear:  "2017",
			wantGenre: "Entertainment",
		},
		{
			name:      "constants when nothing is known",
			info:      &engine.Info{},
			wantAlbum: "Unknown Music Collection",
			wantYear:  "",
			wantGenre: "Music",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := m.buildMetadata(tt.info, "Artist")
			if rec.Album != tt.wantAlbum {
				t.Errorf("Album = %q, want %q", rec.Album, tt.wantAlbum)
			}
			if rec.Year != tt.wantYear {
				t.Errorf("Year = %q, want %q", rec.Year, tt.wantYear)
			}
			if rec.Genre != tt.wantGenre {
				t.Errorf("Genre = %q, want %q", rec.Genre, tt.wantGenre)
			}
		})
	}
}

func TestTransferProgressMapping(t *testing.T) {
	m, _ := newTestManager(t, &fakeExtractor{}, &fakeWriter{})

	var got []float64
	m.SetTransferFunc(func(p TransferProgress) {
		got = append(got, p.Percent)
	})

	m.reportTransfer("u", engine.ProgressUpdate{Status: "downloading", DownloadedBytes: 25, TotalBytesEstimate: 100})
	m.reportTransfer("u", engine.ProgressUpdate{Status: "downloading", DownloadedBytes: 50, TotalBytesEstimate: 0})
	m.reportTransfer("u", engine.ProgressUpdate{Status: "finished"})

	want := []float64{25, 25, 100}
	if len(got) != len(want) {
		t.Fatalf("got %d updates, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("update %d: percent = %v, want %v", i, got[i], want[i])
		}
	}
}
