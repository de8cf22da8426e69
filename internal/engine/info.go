package engine

import (
	"encoding/json"

	"github.com/handiism/ytmp3-downloader/internal/model"
)

// Info is the metadata dictionary yt-dlp emits for a probed URL.
//
// Only the fields the downloader consumes are mapped; everything else in
// the JSON is ignored. For playlists (flat probe) Entries carries the
// listing; entries yt-dlp could not extract arrive as JSON null and are
// kept as nil so callers can count the skips.
type Info struct {
	Type        string `json:"_type"`
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Uploader    string `json:"uploader"`
	Channel     string `json:"channel"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	UploadDate  string `json:"upload_date"`
	// PlaylistTitle is populated when the item was probed in the
	// context of a playlist.
	PlaylistTitle string  `json:"playlist_title"`
	ReleaseYear   int     `json:"release_year"`
	Genre         string  `json:"genre"`
	Duration      float64 `json:"duration"`
	WebpageURL    string  `json:"webpage_url"`

	Categories []string `json:"categories"`

	// Thumbnail is usually a plain URL string but some extractors emit
	// other shapes, so it is decoded lazily. See ThumbnailURL.
	Thumbnail  json.RawMessage `json:"thumbnail"`
	Thumbnails []Thumbnail     `json:"thumbnails"`

	Entries []*EntryInfo `json:"entries"`
}

// Thumbnail is one entry of a yt-dlp thumbnails list.
type Thumbnail struct {
	URL string `json:"url"`
}

// EntryInfo is one flat playlist entry as emitted by yt-dlp.
type EntryInfo struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// ToEntry converts the raw entry to the shared model type.
func (e *EntryInfo) ToEntry() model.PlaylistEntry {
	return model.PlaylistEntry{
		ID:       e.ID,
		URL:      e.URL,
		Title:    e.Title,
		Duration: e.Duration,
	}
}

// IsPlaylist reports whether the probed URL resolved to a playlist.
func (i *Info) IsPlaylist() bool {
	return i.Type == "playlist"
}

// ThumbnailURL returns the cover image URL for the item: the direct
// thumbnail field when it is a plain string, otherwise the URL of the
// first entry in the thumbnails list. Empty when neither is present.
func (i *Info) ThumbnailURL() string {
	if len(i.Thumbnail) > 0 {
		var s string
		if err := json.Unmarshal(i.Thumbnail, &s); err == nil && s != "" {
			return s
		}
	}
	if len(i.Thumbnails) > 0 {
		return i.Thumbnails[0].URL
	}
	return ""
}
