// Package ui holds what the player bar and the popups share: layout
// thresholds and the size bookkeeping popups embed.
package ui

const (
	// BorderHeight is what a rounded border adds to a box's height.
	BorderHeight = 2

	// MinProgressBarWidth is the narrowest progress bar still drawn.
	MinProgressBarWidth = 5

	// MinExpandedWidth is the narrowest terminal that gets the expanded
	// player bar; below it the compact bar is used.
	MinExpandedWidth = 50
)

// Base stores the size handed to a popup. Embedding it provides SetSize.
type Base struct {
	w, h int
}

// SetSize records the space available to the popup.
func (b *Base) SetSize(width, height int) { b.w, b.h = width, height }

// Width is the last width set, zero before the first SetSize.
func (b Base) Width() int { return b.w }

// Height is the last height set.
func (b Base) Height() int { return b.h }
