package engine

import (
	"testing"
)

const videoInfoJSON = `{
	"id": "dQw4w9WgXcQ",
	"title": "Never Gonna Give You Up",
	"description": "Official video",
	"uploader": "Rick Astley",
	"upload_date": "19871027",
	"genre": "Pop",
	"categories": ["Music"],
	"duration": 213.0,
	"thumbnail": "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
	"thumbnails": [{"url": "https://i.ytimg.com/vi/dQw4w9WgXcQ/default.jpg"}],
	"webpage_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
}`

const playlistInfoJSON = `{
	"_type": "playlist",
	"id": "PL123",
	"title": "Road Trip / Mix",
	"entries": [
		{"id": "aaa", "url": "https://www.youtube.com/watch?v=aaa", "title": "First", "duration": 100},
		null,
		{"id": "bbb", "title": "Second"},
		{"title": "Broken"}
	]
}`

func TestParseInfo_Video(t *testing.T) {
	info, err := parseInfo([]byte(videoInfoJSON))
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}

	if info.IsPlaylist() {
		t.Error("IsPlaylist() = true for a plain video")
	}
	if info.Title != "Never Gonna Give You Up" {
		t.Errorf("Title = %q", info.Title)
	}
	if info.Uploader != "Rick Astley" {
		t.Errorf("Uploader = %q", info.Uploader)
	}
	if info.UploadDate != "19871027" {
		t.Errorf("UploadDate = %q", info.UploadDate)
	}
	if len(info.Categories) != 1 || info.Categories[0] != "Music" {
		t.Errorf("Categories = %v", info.Categories)
	}
	if got := info.ThumbnailURL(); got != "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg" {
		t.Errorf("ThumbnailURL() = %q, want direct thumbnail field", got)
	}
}

func TestParseInfo_Playlist(t *testing.T) {
	info, err := parseInfo([]byte(playlistInfoJSON))
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}

	if !info.IsPlaylist() {
		t.Fatal("IsPlaylist() = false for a playlist")
	}
	if len(info.Entries) != 4 {
		t.Fatalf("len(Entries) = %d, want 4 (null entries kept)", len(info.Entries))
	}
	if info.Entries[1] != nil {
		t.Error("failed entry should decode as nil")
	}

	// Entry with full URL resolves to itself.
	if url, ok := info.Entries[0].ToEntry().ResolveURL(); !ok || url != "https://www.youtube.com/watch?v=aaa" {
		t.Errorf("entry 0 resolved to (%q, %v)", url, ok)
	}
	// Entry with only an ID resolves to a watch URL.
	if url, ok := info.Entries[2].ToEntry().ResolveURL(); !ok || url != "https://www.youtube.com/watch?v=bbb" {
		t.Errorf("entry 2 resolved to (%q, %v)", url, ok)
	}
	// Entry with neither is unresolvable.
	if _, ok := info.Entries[3].ToEntry().ResolveURL(); ok {
		t.Error("entry 3 should be unresolvable")
	}
}

func TestInfo_ThumbnailURL_ListFallback(t *testing.T) {
	info, err := parseInfo([]byte(`{"thumbnails": [{"url": "https://img.example/1.jpg"}, {"url": "https://img.example/2.jpg"}]}`))
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}
	if got := info.ThumbnailURL(); got != "https://img.example/1.jpg" {
		t.Errorf("ThumbnailURL() = %q, want first thumbnails entry", got)
	}

	info, err = parseInfo([]byte(`{"title": "no art"}`))
	if err != nil {
		t.Fatalf("parseInfo() error = %v", err)
	}
	if got := info.ThumbnailURL(); got != "" {
		t.Errorf("ThumbnailURL() = %q, want empty", got)
	}
}

func TestIsPlaylistURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/playlist?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc&list=PL123", true},
		{"https://www.youtube.com/watch?list=PL123", true},
		{"https://www.youtube.com/watch?v=abc", false},
		{"https://music.example.com/PLAYLIST/9", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsPlaylistURL(tt.url); got != tt.want {
				t.Errorf("IsPlaylistURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseProgressLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   ProgressUpdate
		wantOK bool
	}{
		{
			name: "downloading",
			line: "downloading|10240|102400|1.25MiB/s",
			want: ProgressUpdate{
				Status:             "downloading",
				DownloadedBytes:    10240,
				TotalBytesEstimate: 102400,
				Speed:              "1.25MiB/s",
			},
			wantOK: true,
		},
		{
			name: "float byte counts",
			line: "downloading|1024.0|2048.5|NA",
			want: ProgressUpdate{
				Status:             "downloading",
				DownloadedBytes:    1024,
				TotalBytesEstimate: 2048,
			},
			wantOK: true,
		},
		{
			name: "finished with unknown totals",
			line: "finished|102400|NA|NA",
			want: ProgressUpdate{
				Status:          "finished",
				DownloadedBytes: 102400,
			},
			wantOK: true,
		},
		{name: "unrelated output", line: "[ExtractAudio] Destination: x.mp3", wantOK: false},
		{name: "unknown status", line: "error|0|0|NA", wantOK: false},
		{name: "empty", line: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseProgressLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("parseProgressLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseProgressLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	eng := New("", "", "")
	if eng.binPath != DefaultBinary {
		t.Errorf("binPath = %q, want %q", eng.binPath, DefaultBinary)
	}
	if eng.format != "mp3" || eng.quality != "192" {
		t.Errorf("format/quality = %q/%q, want mp3/192", eng.format, eng.quality)
	}
}
