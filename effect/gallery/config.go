// Package gallery renders an endlessly scrolling row of image cards laid
// along an arc. Cards can be dragged and clicked to select them.
package gallery

import (
	"errors"
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/gogpu/ggfx"
)

// Name is the effect identifier.
const Name = "gallery"

// ErrNoItems is returned by Compile for a gallery without items.
var ErrNoItems = errors.New("gallery: no items")

// Valid ranges of the numeric parameters.
var (
	BendRange         = ggfx.Range{Min: -10, Max: 10, Default: 3}
	BorderRadiusRange = ggfx.Range{Min: 0, Max: 0.5, Default: 0.05}
	ScrollEaseRange   = ggfx.Range{Min: 0.01, Max: 1, Default: 0.05}
	AutoScrollRange   = ggfx.Range{Min: 0, Max: 1, Default: 0.01}
)

// DefaultTextColor is the caption colour when TextColor is empty or
// malformed.
const DefaultTextColor = "#ffffff"

// Item is one card.
type Item struct {
	// Image is the card face. A nil image draws a tinted placeholder.
	Image image.Image

	// Text is the caption.
	Text string
}

// Config is the gallery configuration.
type Config struct {
	Items []Item

	// Bend is the arc strength. Positive values curve the row downward at
	// the edges, negative values upward, zero keeps it flat.
	Bend float64

	// BorderRadius is the card corner radius as a fraction of card width.
	BorderRadius float64

	// ScrollEase is the per-tick fraction of the remaining scroll distance
	// covered.
	ScrollEase float64

	// AutoScroll is the scroll speed in world units per tick while idle.
	AutoScroll float64

	TextColor string

	// Font draws captions under the cards when set.
	Font text.Face

	// OnSelect is called when a card is clicked.
	OnSelect func(index int, item Item)

	ClassName string
}

// Defaults returns the default configuration without items.
func Defaults() Config {
	return Config{
		Bend:         BendRange.Default,
		BorderRadius: BorderRadiusRange.Default,
		ScrollEase:   ScrollEaseRange.Default,
		AutoScroll:   AutoScrollRange.Default,
		TextColor:    DefaultTextColor,
	}
}

// Name implements ggfx.Effect.
func (Config) Name() string { return Name }

// Class implements ggfx.Classer.
func (c Config) Class() string { return c.ClassName }

// Normalized clamps every numeric parameter.
func (c Config) Normalized() Config {
	c.Bend = BendRange.Clamp(c.Bend)
	c.BorderRadius = BorderRadiusRange.Clamp(c.BorderRadius)
	c.ScrollEase = ScrollEaseRange.Clamp(c.ScrollEase)
	c.AutoScroll = AutoScrollRange.Clamp(c.AutoScroll)
	return c
}

// TextRGB returns the caption colour, white when malformed.
func (c Config) TextRGB() gg.RGBA {
	return ggfx.HexOr(c.TextColor, gg.White)
}

// Compile implements ggfx.Effect.
func (c Config) Compile(ggfx.Backend) (ggfx.Program, error) {
	if len(c.Items) == 0 {
		return nil, ErrNoItems
	}
	return newProgram(c.Normalized()), nil
}
