package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	DownloadsPath          string `json:"downloads_path"`
	YtDlpPath              string `json:"yt_dlp_path"`
	AudioFormat            string `json:"audio_format"`
	AudioQuality           string `json:"audio_quality"`
	MaxConcurrentDownloads int    `json:"max_concurrent_downloads"`
	SkipExisting           bool   `json:"skip_existing"`

	// Tag settings
	ModifyTags bool `json:"modify_tags"`
	SkipTagged bool `json:"skip_tagged"`

	// Cover art settings
	SaveCoverArtInTags    bool `json:"save_cover_art_in_tags"`
	CoverArtInTagsResize  bool `json:"cover_art_in_tags_resize"`
	CoverArtInTagsMaxSize int  `json:"cover_art_in_tags_max_size"`
	ConvertCoverArtToJPG  bool `json:"convert_cover_art_to_jpg"`

	// Playlist settings
	CreatePlaylist bool `json:"create_playlist"`
	M3UExtended    bool `json:"m3u_extended"`
}

// DefaultSettings returns settings with default values.
//
// The defaults reproduce the classic behavior: MP3 at 192 kbps into a
// relative "downloaded-mp3" folder, one download at a time, tags and
// cover art written as fetched.
func DefaultSettings() *Settings {
	return &Settings{
		DownloadsPath:          "downloaded-mp3",
		YtDlpPath:              "yt-dlp",
		AudioFormat:            "mp3",
		AudioQuality:           "192",
		MaxConcurrentDownloads: 1,
		SkipExisting:           true,

		ModifyTags: true,
		SkipTagged: false,

		SaveCoverArtInTags:    true,
		CoverArtInTagsResize:  false,
		CoverArtInTagsMaxSize: 1000,
		ConvertCoverArtToJPG:  false,

		CreatePlaylist: false,
		M3UExtended:    true,
	}
}

// Load reads settings from a JSON file. A missing file is not an error;
// defaults are returned instead.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
