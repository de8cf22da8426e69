// Package audio handles the finished audio files: writing ID3 metadata
// (including cover art) and generating playlist files.
//
// # Tagger
//
// The Tagger stamps a model.Metadata record onto an MP3 file. Only
// non-empty fields are written, so tags already on the file are never
// cleared by an absent value. Cover art is fetched over HTTP and
// embedded as a front-cover picture frame; a failed fetch downgrades to
// a warning and the rest of the tags are still written.
//
//	tagger := audio.NewTagger(audio.DefaultTagOptions(), nil)
//	err := tagger.WriteMetadata(ctx, "/music/Artist - Song.mp3", rec)
//
// # PlaylistCreator
//
// The PlaylistCreator renders an M3U (optionally extended) playlist for
// the files a playlist download produced.
package audio
