package audio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlaylistItem is one playlist line: a file on disk plus the display
// metadata an extended M3U carries.
type PlaylistItem struct {
	// Path is the audio file path. Playlist entries are written
	// relative to the playlist file, so only the base name is used.
	Path string

	// DisplayName is the human-readable entry name, usually
	// "Artist - Title".
	DisplayName string

	// Duration is the track length in seconds; zero when unknown.
	Duration float64
}

// PlaylistCreator renders M3U playlist files for downloaded tracks.
//
// Example:
//
//	creator := NewPlaylistCreator(true)
//	content := creator.CreateM3U(items)
//	os.WriteFile(filepath.Join(dir, "Road Trip Mix.m3u"), []byte(content), 0644)
type PlaylistCreator struct {
	extended bool
}

// NewPlaylistCreator creates a PlaylistCreator. With extended true the
// output starts with #EXTM3U and each entry carries an #EXTINF line.
func NewPlaylistCreator(extended bool) *PlaylistCreator {
	return &PlaylistCreator{extended: extended}
}

// CreateM3U renders the playlist content for the given items.
func (p *PlaylistCreator) CreateM3U(items []PlaylistItem) string {
	var b strings.Builder

	if p.extended {
		b.WriteString("#EXTM3U\n")
	}

	for _, item := range items {
		if p.extended {
			b.WriteString(fmt.Sprintf("#EXTINF:%d,%s\n", int(item.Duration), item.DisplayName))
		}
		b.WriteString(filepath.Base(item.Path))
		b.WriteString("\n")
	}

	return b.String()
}
