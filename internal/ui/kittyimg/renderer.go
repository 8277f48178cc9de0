package kittyimg

import (
	"os"
	"sync"
)

// Renderer tracks the cover currently held in terminal memory.
type Renderer struct {
	mu     sync.Mutex
	path   string
	id     uint32
	nextID uint32
	cols   int
	rows   int
}

// NewRenderer creates a renderer that places covers at cols x rows cells.
func NewRenderer(cols, rows int) *Renderer {
	return &Renderer{cols: cols, rows: rows}
}

// Size returns the placement size in cells.
func (r *Renderer) Size() (cols, rows int) {
	return r.cols, r.rows
}

// Prepare makes path the current cover. It returns the sequences to write
// once: deletion of the previous image and transmission of the new one.
// Calling it again with the same path returns "". An empty or unreadable
// path clears the current image.
func (r *Renderer) Prepare(path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if path == r.path {
		return ""
	}
	r.path = path

	var out string
	if r.id != 0 {
		out = Delete(r.id)
		r.id = 0
	}
	if path == "" {
		return out
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	r.nextID++
	seq := Transmit(data, r.nextID)
	if seq == "" {
		return out
	}
	r.id = r.nextID
	return out + seq
}

// HasImage reports whether a cover is transmitted.
func (r *Renderer) HasImage() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id != 0
}

// Placement returns the sequence that shows the current cover at the
// 1-based cell (row, col), or "" when there is none.
func (r *Renderer) Placement(row, col int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.id == 0 {
		return ""
	}
	return Place(r.id, row, col, r.cols, r.rows)
}

// Hidden returns the sequence that takes the current cover off screen, or
// "" when there is none.
func (r *Renderer) Hidden() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.id == 0 {
		return ""
	}
	return Hide(r.id)
}

// Clear frees the current cover.
func (r *Renderer) Clear() string {
	return r.Prepare("")
}
