package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Read reads tag metadata from a local audio file. When the file carries no
// embedded picture, cover art is looked up in its folder.
func Read(path string) (*Tag, error) {
	t, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if t.Title == "" {
		t.Title = TitleFromName(path)
	}
	if len(t.Cover) == 0 {
		t.Cover, t.CoverMIME, _ = findFolderArt(filepath.Dir(path))
	}
	return t, nil
}

func readFile(path string) (*Tag, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if strings.EqualFold(filepath.Ext(path), ExtMP3) {
			// dhowden/tag has issues with some UTF-16 encoded ID3 tags
			return readMP3WithID3v2Fallback(f)
		}
		if strings.EqualFold(filepath.Ext(path), ExtWAV) {
			// No tag support for RIFF files; the name is all we have.
			return &Tag{}, nil
		}
		return nil, err
	}

	t := &Tag{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
	}
	if t.Artist == "" {
		t.Artist = m.AlbumArtist()
	}
	if pic := m.Picture(); pic != nil {
		t.Cover = pic.Data
		t.CoverMIME = pic.MIMEType
	}
	return t, nil
}

// readMP3WithID3v2Fallback re-reads the head of f and parses it with the
// id3v2 library.
func readMP3WithID3v2Fallback(f *os.File) (*Tag, error) {
	header := make([]byte, id3HeaderSize)
	if _, err := f.ReadAt(header, 0); err != nil {
		return nil, err
	}
	size := ID3Size(header)
	if size == 0 {
		return &Tag{}, nil
	}
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return FromID3(data)
}
