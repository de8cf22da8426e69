package audio

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bogem/id3v2"
	"github.com/handiism/ytmp3-downloader/internal/http"
	ioutils "github.com/handiism/ytmp3-downloader/internal/io"
	"github.com/handiism/ytmp3-downloader/internal/model"
)

// TagOptions controls how the Tagger embeds cover art.
type TagOptions struct {
	// SaveCoverArt embeds fetched artwork as a front-cover frame.
	SaveCoverArt bool

	// ResizeCover scales artwork down to CoverMaxSize before embedding.
	ResizeCover bool

	// CoverMaxSize is the maximum width/height in pixels when resizing.
	CoverMaxSize int

	// ConvertCoverToJPEG re-encodes non-JPEG artwork before embedding.
	// When false the fetched bytes are embedded untouched; the frame is
	// declared image/jpeg either way, which some players tolerate and
	// some render without artwork. Kept for compatibility with files
	// tagged by earlier versions.
	ConvertCoverToJPEG bool
}

// DefaultTagOptions returns the default tagging options: embed cover
// art as fetched, no resizing, no re-encoding.
func DefaultTagOptions() *TagOptions {
	return &TagOptions{
		SaveCoverArt: true,
		CoverMaxSize: 1000,
	}
}

// Tagger writes ID3 tags to MP3 files.
//
// Each non-empty field of a model.Metadata record maps to exactly one
// frame:
//   - Title   -> TIT2
//   - Artist  -> TPE1
//   - Album   -> TALB
//   - Year    -> TDRC (as text)
//   - Genre   -> TCON
//   - Comment -> COMM (language "eng", empty description)
//   - CoverURL -> APIC front cover, fetched over HTTP
//
// Example:
//
//	tagger := NewTagger(DefaultTagOptions(), func(msg string) {
//	    log.Println("WARN:", msg)
//	})
//	if err := tagger.WriteMetadata(ctx, path, rec); err != nil {
//	    log.Printf("tagging %s failed: %v", path, err)
//	}
type Tagger struct {
	options   *TagOptions
	client    *http.Client
	images    *ioutils.ImageService
	onWarning func(string)
}

// NewTagger creates a new Tagger.
//
// If options is nil, DefaultTagOptions() is used. onWarning receives
// non-fatal problems (today: cover-art fetch failures) and may be nil.
func NewTagger(options *TagOptions, onWarning func(string)) *Tagger {
	if options == nil {
		options = DefaultTagOptions()
	}
	return &Tagger{
		options:   options,
		client:    http.NewClient(),
		images:    ioutils.NewImageService(),
		onWarning: onWarning,
	}
}

// WriteMetadata stamps the record onto the MP3 file at filePath.
//
// The file's existing tag container is opened and updated in place; a
// file without one gets a fresh container. The audio payload is never
// touched: a failure anywhere in the tag write leaves the file on disk
// exactly as the transcode produced it.
//
// Cover-art fetch failures are reported through the warning callback
// and do not abort the rest of the tagging.
func (t *Tagger) WriteMetadata(ctx context.Context, filePath string, rec *model.Metadata) error {
	tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err != nil {
		// Unparseable existing tag: fall back to writing a fresh one.
		tag, err = id3v2.Open(filePath, id3v2.Options{Parse: false})
		if err != nil {
			return fmt.Errorf("open tag container for %s: %w", filepath.Base(filePath), err)
		}
	}
	defer tag.Close()

	if rec.Title != "" {
		tag.SetTitle(rec.Title)
	}
	if rec.Artist != "" {
		tag.SetArtist(rec.Artist)
	}
	if rec.Album != "" {
		tag.SetAlbum(rec.Album)
	}
	if rec.Year != "" {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, rec.Year)
	}
	if rec.Genre != "" {
		tag.SetGenre(rec.Genre)
	}
	if rec.Comment != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    "eng",
			Description: "",
			Text:        rec.Comment,
		})
	}

	if t.options.SaveCoverArt && rec.CoverURL != "" {
		if err := t.embedCover(ctx, tag, rec.CoverURL); err != nil {
			t.warn(fmt.Sprintf("Failed to add album art: %v", err))
		}
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("save tags to %s: %w", filepath.Base(filePath), err)
	}

	return nil
}

// embedCover fetches the cover image and attaches it as a front cover.
func (t *Tagger) embedCover(ctx context.Context, tag *id3v2.Tag, coverURL string) error {
	data, err := t.client.DownloadBytes(ctx, coverURL)
	if err != nil {
		return err
	}

	if t.options.ResizeCover {
		if resized, err := t.images.ResizeImage(ctx, data, t.options.CoverMaxSize, t.options.CoverMaxSize); err == nil {
			data = resized
		}
	}
	if t.options.ConvertCoverToJPEG {
		if converted, err := t.images.ConvertToJPEG(ctx, data); err == nil {
			data = converted
		}
	}

	tag.DeleteFrames(tag.CommonID("Attached picture"))

	// The frame is always declared JPEG, whatever the source encoding.
	pic := id3v2.PictureFrame{
		Encoding:    id3v2.EncodingUTF8,
		MimeType:    "image/jpeg",
		PictureType: id3v2.PTFrontCover,
		Description: "Cover",
		Picture:     data,
	}
	tag.AddAttachedPicture(pic)

	return nil
}

func (t *Tagger) warn(message string) {
	if t.onWarning != nil {
		t.onWarning(message)
	}
}
