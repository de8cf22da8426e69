package audio

import (
	"strings"
	"testing"
)

func testItems() []PlaylistItem {
	return []PlaylistItem{
		{Path: "/music/Mix/Artist A - One.mp3", DisplayName: "Artist A - One", Duration: 181.4},
		{Path: "/music/Mix/Artist B - Two.mp3", DisplayName: "Artist B - Two", Duration: 200},
	}
}

func TestPlaylistCreator_Plain(t *testing.T) {
	content := NewPlaylistCreator(false).CreateM3U(testItems())

	if strings.Contains(content, "#EXTM3U") {
		t.Error("plain M3U should not carry the extended header")
	}
	if !strings.Contains(content, "Artist A - One.mp3") {
		t.Error("M3U should contain track filename")
	}
	if strings.Contains(content, "/music/Mix/") {
		t.Error("entries should be relative to the playlist file")
	}
}

func TestPlaylistCreator_Extended(t *testing.T) {
	content := NewPlaylistCreator(true).CreateM3U(testItems())

	if !strings.HasPrefix(content, "#EXTM3U") {
		t.Error("extended M3U should start with #EXTM3U")
	}
	if !strings.Contains(content, "#EXTINF:181,Artist A - One") {
		t.Errorf("missing EXTINF line, got:\n%s", content)
	}
}

func TestPlaylistCreator_Empty(t *testing.T) {
	content := NewPlaylistCreator(true).CreateM3U(nil)
	if content != "#EXTM3U\n" {
		t.Errorf("empty extended playlist = %q", content)
	}
}
