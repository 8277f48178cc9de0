package kittyimg

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	return img
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTransmit(t *testing.T) {
	seq := Transmit(testPNG(t), 7)

	if !strings.HasPrefix(seq, "\x1b_Ga=t,f=100,i=7,q=2,m=0;") {
		t.Errorf("unexpected header: %q", seq[:min(len(seq), 40)])
	}
	if !strings.HasSuffix(seq, "\x1b\\") {
		t.Error("sequence should end with ST")
	}
}

func TestTransmit_JPEGIsReencoded(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(), nil); err != nil {
		t.Fatal(err)
	}

	seq := Transmit(buf.Bytes(), 1)

	if !strings.Contains(seq, "f=100") {
		t.Errorf("JPEG should be sent as PNG: %q", seq[:min(len(seq), 40)])
	}
}

func TestTransmit_Chunks(t *testing.T) {
	// Noise does not compress, so the payload needs several chunks.
	rng := rand.New(rand.NewPCG(1, 2))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = byte(rng.Uint32())
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	seq := Transmit(buf.Bytes(), 1)

	chunks := strings.Count(seq, "\x1b_G")
	if chunks < 2 {
		t.Fatalf("chunks = %d, want several", chunks)
	}
	if strings.Count(seq, "m=1;") != chunks-1 {
		t.Errorf("all but the last chunk should set m=1")
	}
	if !strings.Contains(seq, "\x1b_Gm=0;") {
		t.Error("last chunk should set m=0")
	}
}

func TestTransmit_Invalid(t *testing.T) {
	if Transmit(nil, 1) != "" {
		t.Error("nil data should transmit nothing")
	}
	if Transmit([]byte("not an image"), 1) != "" {
		t.Error("invalid data should transmit nothing")
	}
}

func TestPlaceAndDelete(t *testing.T) {
	got := Place(3, 5, 2, 20, 10)
	want := "\x1b[s\x1b[5;2H\x1b_Ga=p,i=3,p=1,c=20,r=10,C=1,q=2;\x1b\\\x1b[u"
	if got != want {
		t.Errorf("Place() = %q, want %q", got, want)
	}
	if got := Delete(3); got != "\x1b_Ga=d,d=I,i=3,q=2;\x1b\\" {
		t.Errorf("Delete() = %q", got)
	}
	if got := Hide(3); got != "\x1b_Ga=d,d=i,i=3,q=2;\x1b\\" {
		t.Errorf("Hide() = %q", got)
	}
}

func TestIsSupported(t *testing.T) {
	for _, env := range []string{
		"ONAIR_IMAGE_PROTOCOL", "CONTOUR_PROFILE", "KITTY_WINDOW_ID",
		"GHOSTTY_RESOURCES_DIR", "TERM_PROGRAM", "KONSOLE_VERSION", "TERM",
	} {
		t.Setenv(env, "")
	}

	tests := []struct {
		name  string
		key   string
		value string
		want  bool
	}{
		{"plain xterm", "TERM", "xterm-256color", false},
		{"kitty window", "KITTY_WINDOW_ID", "1", true},
		{"kitty term", "TERM", "xterm-kitty", true},
		{"wezterm", "TERM_PROGRAM", "WezTerm", true},
		{"ghostty", "GHOSTTY_RESOURCES_DIR", "/usr/share/ghostty", true},
		{"new konsole", "KONSOLE_VERSION", "230401", true},
		{"old konsole", "KONSOLE_VERSION", "210801", false},
		{"forced", "ONAIR_IMAGE_PROTOCOL", "kitty", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if got := IsSupported(); got != tt.want {
				t.Errorf("IsSupported() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("disabled wins", func(t *testing.T) {
		t.Setenv("KITTY_WINDOW_ID", "1")
		t.Setenv("ONAIR_IMAGE_PROTOCOL", "none")
		if IsSupported() {
			t.Error("ONAIR_IMAGE_PROTOCOL=none should disable images")
		}
	})

	t.Run("contour", func(t *testing.T) {
		t.Setenv("GHOSTTY_RESOURCES_DIR", "/leaked")
		t.Setenv("CONTOUR_PROFILE", "main")
		if IsSupported() {
			t.Error("Contour should not be detected as supported")
		}
	})
}

func TestBlank(t *testing.T) {
	if got := Blank(3, 2); got != "   \n   " {
		t.Errorf("Blank(3, 2) = %q", got)
	}
	if Blank(0, 2) != "" {
		t.Error("zero width should be empty")
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder(8, 5)
	lines := strings.Split(p, "\n")

	if len(lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(lines))
	}
	for i, l := range lines {
		if w := runewidth.StringWidth(l); w != 8 {
			t.Errorf("line %d width = %d, want 8", i, w)
		}
	}
	if !strings.Contains(lines[2], "♪") {
		t.Errorf("middle line should hold the note: %q", lines[2])
	}
	if Placeholder(3, 5) != "" || Placeholder(8, 1) != "" {
		t.Error("too small placeholder should be empty")
	}
}
