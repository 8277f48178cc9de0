package tags

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // content addressing, not security
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder for cover art
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/nfnt/resize"
)

// CoverSize is the bounding box of cached cover thumbnails, in pixels.
const CoverSize = 512

// Common cover art filenames to look for next to local files.
var coverArtFilenames = []string{
	"cover.jpg", "cover.jpeg", "cover.png",
	"folder.jpg", "folder.jpeg", "folder.png",
	"album.jpg", "album.jpeg", "album.png",
	"front.jpg", "front.jpeg", "front.png",
}

// CoverCache writes cover thumbnails as PNG files under a directory.
type CoverCache struct {
	dir string
}

// NewCoverCache returns a cache rooted at dir. An empty dir selects
// $XDG_CACHE_HOME/onair/covers.
func NewCoverCache(dir string) (*CoverCache, error) {
	if dir == "" {
		keep, err := xdg.CacheFile(filepath.Join("onair", "covers", ".keep"))
		if err != nil {
			return nil, fmt.Errorf("cover cache dir: %w", err)
		}
		dir = filepath.Dir(keep)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cover cache: %w", err)
	}
	return &CoverCache{dir: dir}, nil
}

// Save decodes data, shrinks it to fit CoverSize and stores it. Identical
// pictures map to the same file. Returns the absolute path of the PNG.
func (c *CoverCache) Save(data []byte) (string, error) {
	sum := sha1.Sum(data) //nolint:gosec // content addressing
	path := filepath.Join(c.dir, hex.EncodeToString(sum[:])+".png")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode cover: %w", err)
	}
	thumb := resize.Thumbnail(CoverSize, CoverSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		return "", fmt.Errorf("encode cover: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write cover: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write cover: %w", err)
	}
	return path, nil
}

// findFolderArt looks for common cover art files in the given directory.
func findFolderArt(dir string) (data []byte, mimeType string, err error) {
	for _, filename := range coverArtFilenames {
		imgPath := filepath.Join(dir, filename)
		data, err := os.ReadFile(imgPath)
		if err != nil {
			// Try case-insensitive match
			imgPath = filepath.Join(dir, strings.ToUpper(filename))
			data, err = os.ReadFile(imgPath)
			if err != nil {
				continue
			}
		}

		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			mimeType = "image/jpeg"
		case ".png":
			mimeType = "image/png"
		default:
			mimeType = "application/octet-stream"
		}
		return data, mimeType, nil
	}

	return nil, "", nil
}
