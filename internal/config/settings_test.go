package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.DownloadsPath != "downloaded-mp3" {
		t.Errorf("DownloadsPath = %q, want default", settings.DownloadsPath)
	}
	if settings.MaxConcurrentDownloads != 1 {
		t.Errorf("MaxConcurrentDownloads = %d, want 1", settings.MaxConcurrentDownloads)
	}
}

func TestLoad_PartialFileKeepsOtherDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"audio_quality": "256"}`), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if settings.AudioQuality != "256" {
		t.Errorf("AudioQuality = %q, want 256", settings.AudioQuality)
	}
	if !settings.ModifyTags {
		t.Error("ModifyTags default lost on partial load")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")

	settings := DefaultSettings()
	settings.DownloadsPath = "/music"
	settings.CreatePlaylist = true
	if err := settings.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DownloadsPath != "/music" || !loaded.CreatePlaylist {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
