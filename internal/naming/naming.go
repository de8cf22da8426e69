// Package naming derives human-friendly, filesystem-safe file names for
// downloaded audio and infers tag metadata back out of existing file names.
package naming

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/handiism/ytmp3-downloader/internal/model"
)

// separator is the artist/title separator used in derived names and
// honored when splitting existing file names.
const separator = " - "

var (
	// Restricted character set: anything outside it becomes an underscore.
	restrictedChars = regexp.MustCompile(`[^A-Za-z0-9 ._-]+`)
	whitespaceRuns  = regexp.MustCompile(`\s+`)
	underscoreRuns  = regexp.MustCompile(`_+`)
)

// DeriveBaseName produces the base file name (no extension) for a track
// from its raw title and artist strings.
//
// The artist is prepended as "{artist} - {title}" unless it already
// appears inside the title, in which case the title is used alone to
// avoid names like "Artist - Artist Song". The containment check is a
// deliberately fuzzy heuristic: it lower-cases both strings, strips
// whitespace from them, and matches either the whole artist or any of
// its tokens as a substring of the title. Short artist tokens can match
// inside unrelated words; that behavior is load-bearing for existing
// collections and must not be tightened.
//
// A title that already carries a " - " separator is not trusted to
// contain the artist: if the artist is absent, it is still prepended.
//
// An empty artist trivially matches any title, so the base name becomes
// the bare title.
//
// Example:
//
//	DeriveBaseName("Believer", "Imagine Dragons")
//	// "Imagine Dragons - Believer"
//
//	DeriveBaseName("Imagine Dragons Believer", "Imagine Dragons")
//	// "Imagine Dragons Believer"
func DeriveBaseName(title, artist string) string {
	lowerArtist := strings.ToLower(artist)
	cleanArtist := strings.ReplaceAll(lowerArtist, " ", "")
	cleanTitle := strings.ReplaceAll(strings.ToLower(title), " ", "")

	artistInTitle := strings.Contains(cleanTitle, cleanArtist)
	if !artistInTitle {
		for _, part := range strings.Fields(lowerArtist) {
			if strings.Contains(cleanTitle, part) {
				artistInTitle = true
				break
			}
		}
	}

	var base string
	switch {
	case strings.Contains(title, separator) && !artistInTitle:
		base = artist + separator + title
	case artistInTitle:
		base = title
	default:
		base = artist + separator + title
	}

	return SanitizeFileName(base)
}

// SanitizeFileName reduces a name to a restricted, filesystem-safe
// character set and then trades the resulting underscores back in for
// spaces so the names stay readable.
//
// The following transformations are applied, in order:
//   - Whitespace runs collapse to a single space
//   - Characters outside [A-Za-z0-9 ._-] (non-ASCII included) become
//     a single underscore per run
//   - Underscore runs become a single space
//   - Trailing dots and surrounding whitespace are removed
//
// The function is idempotent: applying it twice yields the same string
// as applying it once.
//
// Example:
//
//	SanitizeFileName("AC/DC: Back In Black?")  // "AC DC Back In Black"
//	SanitizeFileName("snake_case_title")       // "snake case title"
func SanitizeFileName(name string) string {
	name = whitespaceRuns.ReplaceAllString(name, " ")
	name = restrictedChars.ReplaceAllString(name, "_")
	name = underscoreRuns.ReplaceAllString(name, " ")
	name = whitespaceRuns.ReplaceAllString(name, " ")
	// Strip any mix of trailing dots and spaces in one step; stripping
	// dots can expose more trailing spaces and vice versa.
	name = strings.TrimRight(name, ". ")
	return strings.TrimSpace(name)
}

// InferFromFileName builds a metadata record for an existing audio file
// from its file name and the name of the folder containing it. It is the
// fallback path for files that have no provider metadata.
//
// The extension-stripped name is split on the first " - ": the left part
// becomes the artist and the right part the title. Multiple separators
// beyond the first are kept inside the title as-is. When no separator is
// present, the whole name is the title and the parent folder stands in
// as the artist.
//
// The album is always the parent folder name, and the genre defaults to
// "Music".
//
// Example:
//
//	InferFromFileName("The Weeknd - Blinding Lights.mp3", "After Hours")
//	// Artist "The Weeknd", Title "Blinding Lights", Album "After Hours"
//
//	InferFromFileName("Track07.mp3", "MyMix")
//	// Artist "MyMix", Title "Track07", Album "MyMix"
func InferFromFileName(fileName, parentDir string) *model.Metadata {
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	var artist, title string
	if before, after, found := strings.Cut(base, separator); found {
		artist = strings.TrimSpace(before)
		title = strings.TrimSpace(after)
	} else {
		title = strings.TrimSpace(base)
		artist = parentDir
	}

	return &model.Metadata{
		Title:  title,
		Artist: artist,
		Album:  parentDir,
		Genre:  "Music",
	}
}
