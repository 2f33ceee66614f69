package ggfx

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in pixel or normalized coordinates.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Mul returns v scaled by s.
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec2{v.X / l, v.Y / l}
}

// Lerp interpolates between v and o by t.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Rect is an axis-aligned rectangle in window coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return !(r.W > 0 && r.H > 0)
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Vec2) bool {
	return !r.Empty() && p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Normalize maps p into r's coordinate space, so that r's top-left corner is
// (0,0) and its bottom-right corner is (1,1). The result is clamped to the
// unit square.
func (r Rect) Normalize(p Vec2) Vec2 {
	if r.Empty() {
		return Vec2{0.5, 0.5}
	}
	return Vec2{
		X: clamp01((p.X - r.X) / r.W),
		Y: clamp01((p.Y - r.Y) / r.H),
	}
}

// Origin names the edge anchor that edge-anchored effects radiate from.
type Origin uint8

// Origins. OriginNone falls back to OriginTopCenter when geometry is derived.
const (
	OriginNone Origin = iota
	OriginTopLeft
	OriginTopCenter
	OriginTopRight
	OriginLeft
	OriginRight
	OriginBottomLeft
	OriginBottomCenter
	OriginBottomRight
)

var originNames = [...]string{
	OriginNone:         "none",
	OriginTopLeft:      "top-left",
	OriginTopCenter:    "top-center",
	OriginTopRight:     "top-right",
	OriginLeft:         "left",
	OriginRight:        "right",
	OriginBottomLeft:   "bottom-left",
	OriginBottomCenter: "bottom-center",
	OriginBottomRight:  "bottom-right",
}

// String returns the hyphenated name of the origin.
func (o Origin) String() string {
	if int(o) < len(originNames) {
		return originNames[o]
	}
	return fmt.Sprintf("Origin(%d)", uint8(o))
}

// ParseOrigin parses a hyphenated origin name. The empty string parses as
// OriginNone.
func ParseOrigin(s string) (Origin, error) {
	if s == "" {
		return OriginNone, nil
	}
	for i, name := range originNames {
		if name == s {
			return Origin(i), nil
		}
	}
	return OriginNone, fmt.Errorf("ggfx: unknown origin %q", s)
}

// OriginNames lists every accepted origin name, OriginNone first.
func OriginNames() []string {
	return append([]string(nil), originNames[:]...)
}

// anchorOutside is how far outside the viewport edge the anchor sits,
// as a fraction of the relevant dimension.
const anchorOutside = 0.2

// AnchorAndDir derives the anchor point and unit direction of an
// edge-anchored effect for a surface of width w and height h (pixels).
// It depends on nothing but its arguments.
func AnchorAndDir(o Origin, w, h float64) (anchor, dir Vec2) {
	switch o {
	case OriginTopLeft:
		return Vec2{0, -anchorOutside * h}, Vec2{0, 1}
	case OriginTopRight:
		return Vec2{w, -anchorOutside * h}, Vec2{0, 1}
	case OriginLeft:
		return Vec2{-anchorOutside * w, 0.5 * h}, Vec2{1, 0}
	case OriginRight:
		return Vec2{(1 + anchorOutside) * w, 0.5 * h}, Vec2{-1, 0}
	case OriginBottomLeft:
		return Vec2{0, (1 + anchorOutside) * h}, Vec2{0, -1}
	case OriginBottomCenter:
		return Vec2{0.5 * w, (1 + anchorOutside) * h}, Vec2{0, -1}
	case OriginBottomRight:
		return Vec2{w, (1 + anchorOutside) * h}, Vec2{0, -1}
	default:
		return Vec2{0.5 * w, -anchorOutside * h}, Vec2{0, 1}
	}
}

// DefaultMaxPixelRatio caps the device pixel ratio used for surface sizing.
const DefaultMaxPixelRatio = 2.0

// ClampPixelRatio returns dpr limited to (0, max]. Non-positive or
// non-finite ratios are treated as 1.
func ClampPixelRatio(dpr, max float64) float64 {
	if !(dpr > 0) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	if max > 0 && dpr > max {
		dpr = max
	}
	return dpr
}

// PixelSize converts a layout box in CSS units to surface pixels:
// floor(w*dpr) x floor(h*dpr). Negative or non-finite input yields zero.
func PixelSize(w, h, dpr float64) (width, height int) {
	return floorPixels(w * dpr), floorPixels(h * dpr)
}

func floorPixels(v float64) int {
	if !(v > 0) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Floor(v))
}

// DefaultSmoothing is the per-tick blend factor pulling the smoothed pointer
// toward the raw pointer.
const DefaultSmoothing = 0.08

// Smooth moves current toward target by factor k (exponential smoothing).
// For 0 < k <= 1 the remaining distance shrinks by (1-k) every call.
func Smooth(current, target Vec2, k float64) Vec2 {
	return current.Lerp(target, k)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
