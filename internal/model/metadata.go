package model

import (
	"strings"
	"unicode/utf8"
)

// MaxCommentLength is the maximum length of the comment field.
// Longer descriptions are truncated before tagging.
const MaxCommentLength = 250

// watchURLPrefix is the canonical watch URL that playlist entry IDs
// are resolved against.
const watchURLPrefix = "https://www.youtube.com/watch?v="

// Metadata is the tag record applied to a downloaded MP3 file.
//
// Each non-empty field maps to exactly one ID3 frame. Empty fields are
// skipped entirely so that tags already present on the file are never
// cleared by an absent value.
//
// Example:
//
//	rec := &model.Metadata{
//	    Title:  "Believer",
//	    Artist: "Imagine Dragons",
//	    Album:  "Evolve",
//	    Year:   "2017",
//	    Genre:  "Music",
//	}
//	rec.SetComment(longDescription) // truncated to MaxCommentLength
type Metadata struct {
	// Title is the track title (TIT2).
	Title string

	// Artist is the performing artist (TPE1).
	Artist string

	// Album is the album or collection name (TALB).
	Album string

	// Year is the 4-digit release year, as text (TDRC).
	// Empty when no release date is known.
	Year string

	// Genre is the music genre (TCON).
	Genre string

	// Comment is a free-text comment (COMM, language "eng").
	// Use SetComment to enforce the length bound.
	Comment string

	// CoverURL is the URL of the cover image to fetch and embed.
	// Empty when no artwork is available.
	CoverURL string
}

// SetComment sets the comment field, truncating it to MaxCommentLength
// characters. Truncation counts runes, not bytes, so a multibyte
// character is never split into invalid UTF-8.
func (m *Metadata) SetComment(text string) {
	if utf8.RuneCountInString(text) > MaxCommentLength {
		runes := []rune(text)
		text = string(runes[:MaxCommentLength])
	}
	m.Comment = text
}

// DownloadTarget pairs a source URL with the directory its output
// file should land in. One target exists per item or playlist entry.
type DownloadTarget struct {
	// SourceURL is the URL to download from.
	SourceURL string

	// DestinationDir is the directory the output file is written to.
	DestinationDir string
}

// PlaylistEntry is one entry of a flat playlist listing.
//
// Flat enumeration does not resolve each entry's own metadata, so an
// entry may carry a full URL, a bare video ID, or nothing usable at all.
// Entries that fail extraction upstream arrive as nil and are skipped.
type PlaylistEntry struct {
	// ID is the video identifier, if known.
	ID string

	// URL is the entry URL as reported by the listing. It may be a
	// fully-qualified URL or a bare identifier.
	URL string

	// Title is the entry title, if known.
	Title string

	// Duration is the entry length in seconds, if known.
	Duration float64
}

// ResolveURL returns a playable URL for the entry.
//
// Resolution order:
//  1. A fully-qualified URL is used as-is.
//  2. A non-URL value in the URL field is treated as an ID and expanded
//     to the canonical watch URL.
//  3. A bare ID is expanded to the canonical watch URL.
//
// The second return value is false when the entry carries nothing that
// can be resolved; such entries are skipped and counted as unresolved.
func (e PlaylistEntry) ResolveURL() (string, bool) {
	switch {
	case e.URL != "" && strings.HasPrefix(e.URL, "http"):
		return e.URL, true
	case e.URL != "":
		return watchURLPrefix + e.URL, true
	case e.ID != "":
		return watchURLPrefix + e.ID, true
	}
	return "", false
}
