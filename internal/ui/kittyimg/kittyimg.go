// Package kittyimg draws cover art with the Kitty terminal graphics protocol.
//
// An image is transmitted once into terminal memory under an ID and then
// placed by reference on every frame, so redraws stay cheap.
package kittyimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG covers are re-encoded to PNG
	"image/png"
	"os"
	"strings"
)

const (
	escStart  = "\x1b_G"
	escEnd    = "\x1b\\"
	chunkSize = 4096 // Max payload bytes per escape sequence
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// IsSupported reports whether the terminal understands the Kitty graphics
// protocol. ONAIR_IMAGE_PROTOCOL=kitty or =none overrides detection.
func IsSupported() bool {
	switch os.Getenv("ONAIR_IMAGE_PROTOCOL") {
	case "kitty":
		return true
	case "none":
		return false
	}

	// Contour advertises itself but does not implement the protocol, and may
	// inherit variables from a parent terminal that does.
	if os.Getenv("CONTOUR_PROFILE") != "" {
		return false
	}
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return true
	}
	if os.Getenv("TERM_PROGRAM") == "WezTerm" {
		return true
	}
	if v := os.Getenv("KONSOLE_VERSION"); len(v) >= 4 && v[:4] >= "2204" {
		return true
	}
	return strings.Contains(os.Getenv("TERM"), "kitty")
}

// Transmit returns the escape sequences that store data under id without
// displaying it. PNG data is sent as is; other formats are decoded and
// re-encoded. Returns "" when data is empty or not an image.
func Transmit(data []byte, id uint32) string {
	if len(data) == 0 {
		return ""
	}
	if !bytes.HasPrefix(data, pngMagic) {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return ""
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return ""
		}
		data = buf.Bytes()
	}

	b64 := base64.StdEncoding.EncodeToString(data)

	// a=t transmit only, f=100 PNG, q=2 no replies, m=1 more chunks follow
	var sb strings.Builder
	for i := 0; i < len(b64); i += chunkSize {
		end := min(i+chunkSize, len(b64))
		more := 0
		if end < len(b64) {
			more = 1
		}
		sb.WriteString(escStart)
		if i == 0 {
			fmt.Fprintf(&sb, "a=t,f=100,i=%d,q=2,m=%d;", id, more)
		} else {
			fmt.Fprintf(&sb, "m=%d;", more)
		}
		sb.WriteString(b64[i:end])
		sb.WriteString(escEnd)
	}
	return sb.String()
}

// Place returns the sequence that displays image id at the 1-based
// terminal cell (row, col), scaled to cols x rows cells. The cursor is
// saved and restored around it. A fixed placement ID makes each call
// replace the previous placement.
func Place(id uint32, row, col, cols, rows int) string {
	return fmt.Sprintf("\x1b[s\x1b[%d;%dH%sa=p,i=%d,p=1,c=%d,r=%d,C=1,q=2;%s\x1b[u",
		row, col, escStart, id, cols, rows, escEnd)
}

// Delete returns the sequence that frees image id and its placements.
func Delete(id uint32) string {
	return fmt.Sprintf("%sa=d,d=I,i=%d,q=2;%s", escStart, id, escEnd)
}

// Hide returns the sequence that removes the placements of image id and
// keeps its data for a later Place.
func Hide(id uint32) string {
	return fmt.Sprintf("%sa=d,d=i,i=%d,q=2;%s", escStart, id, escEnd)
}

// Blank returns cols x rows spaces, reserving the area an image is placed on.
func Blank(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	line := strings.Repeat(" ", cols)
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Placeholder returns a boxed note of cols x rows cells shown when there is
// no cover art.
func Placeholder(cols, rows int) string {
	if cols < 4 || rows < 2 {
		return ""
	}

	lines := make([]string, 0, rows)
	lines = append(lines, "┌"+strings.Repeat("─", cols-2)+"┐")
	for i := 1; i < rows-1; i++ {
		inner := strings.Repeat(" ", cols-2)
		if i == rows/2 && cols >= 5 {
			pad := (cols - 3) / 2
			inner = strings.Repeat(" ", pad) + "♪" + strings.Repeat(" ", cols-3-pad)
		}
		lines = append(lines, "│"+inner+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", cols-2)+"┘")
	return strings.Join(lines, "\n")
}
