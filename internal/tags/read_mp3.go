package tags

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bogem/id3v2/v2"
)

// ErrNoID3 is returned by FromID3 when data does not start with an ID3v2 tag.
var ErrNoID3 = errors.New("no ID3v2 tag")

// FromID3 parses an ID3v2 tag held in data, typically the first ID3Size
// bytes of a stream.
func FromID3(data []byte) (*Tag, error) {
	if ID3Size(data) == 0 {
		return nil, ErrNoID3
	}

	id3tag, err := id3v2.ParseReader(bytes.NewReader(data), id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("parse id3v2: %w", err)
	}

	t := &Tag{
		Title:  id3tag.Title(),
		Artist: id3tag.Artist(),
		Album:  id3tag.Album(),
	}
	if t.Artist == "" {
		t.Artist = getID3TextFrame(id3tag, "TPE2")
	}
	t.Cover, t.CoverMIME = frontCover(id3tag)
	return t, nil
}

// frontCover returns the front cover picture, or the first picture when no
// frame is marked as front cover.
func frontCover(id3tag *id3v2.Tag) ([]byte, string) {
	frames := id3tag.GetFrames(id3tag.CommonID("Attached picture"))
	var fallback *id3v2.PictureFrame
	for _, f := range frames {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == id3v2.PTFrontCover {
			return pic.Picture, pic.MimeType
		}
		if fallback == nil {
			fallback = &pic
		}
	}
	if fallback != nil {
		return fallback.Picture, fallback.MimeType
	}
	return nil, ""
}

// getID3TextFrame reads a text frame value from an ID3v2 tag.
func getID3TextFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
