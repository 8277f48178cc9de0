// Package tags reads the descriptive metadata of a stream: title, artist,
// album and embedded cover art. Remote streams are read from the ID3v2 tag
// at the start of the download; local files go through dhowden/tag.
package tags

import (
	"path/filepath"
	"strings"
)

// File extensions recognised for local files.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtWAV  = ".wav"
	ExtOGG  = ".ogg"
	ExtOGA  = ".oga"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// id3HeaderSize is the size of the fixed ID3v2 header.
const id3HeaderSize = 10

// Tag holds the metadata shown for the current stream.
type Tag struct {
	Title  string
	Artist string
	Album  string

	// Cover is the raw embedded picture, if any.
	Cover     []byte
	CoverMIME string
}

// Empty reports whether no descriptive field was found.
func (t *Tag) Empty() bool {
	return t.Title == "" && t.Artist == "" && t.Album == "" && len(t.Cover) == 0
}

// ID3Size returns the total size of the ID3v2 tag at the start of header
// (including its 10-byte header), or 0 if header does not start with one.
func ID3Size(header []byte) int {
	if len(header) < id3HeaderSize || string(header[0:3]) != id3Magic {
		return 0
	}
	// Syncsafe integer: 7 bits per byte.
	size := int(header[6])<<21 | int(header[7])<<14 | int(header[8])<<7 | int(header[9])
	if header[5]&0x10 != 0 {
		// Footer present
		size += id3HeaderSize
	}
	return id3HeaderSize + size
}

// TitleFromName derives a display title from a file or URL path element.
func TitleFromName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
