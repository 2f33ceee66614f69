package gallery

import (
	"image"
	"math"
	"reflect"

	"github.com/gogpu/gg"
	"github.com/gogpu/ggfx"
)

// Card layout in world units, seen by a camera at distance cameraZ with a
// vertical field of view of cameraFOV degrees.
const (
	cardWidth  = 6.0
	cardHeight = 8.0
	cardGap    = 7.0
	cameraZ    = 20.0
	cameraFOV  = 45.0
)

// Pointer interaction constants. Distances are in surface pixels.
const (
	dragThreshold = 5.0
	dragScale     = 0.01
	clickRadius   = 0.5 // in normalized device coordinates
)

// Card is the on-screen placement of one item.
type Card struct {
	Index  int
	X, Y   float64 // centre in surface pixels
	W, H   float64
	WorldX float64
}

// Program draws the gallery and tracks scrolling and selection.
type Program struct {
	cfg  Config
	bufs []*gg.ImageBuf

	width, height int

	scroll, target float64
	down, dragging bool
	startX, lastX  float64
	selected       int
}

func newProgram(cfg Config) *Program {
	p := &Program{cfg: cfg, selected: -1}
	p.load()
	return p
}

func (p *Program) load() {
	p.bufs = make([]*gg.ImageBuf, len(p.cfg.Items))
	for i, it := range p.cfg.Items {
		if it.Image != nil {
			p.bufs[i] = gg.ImageBufFromImage(it.Image)
		}
	}
}

// Requires implements ggfx.Program.
func (*Program) Requires() ggfx.Feature {
	return ggfx.FeaturePaths | ggfx.FeatureImages | ggfx.FeatureAlpha
}

// Resize implements ggfx.Program.
func (p *Program) Resize(width, height int) {
	p.width, p.height = width, height
}

// Update advances auto-scroll while idle and eases toward the target.
func (p *Program) Update(ggfx.Frame) {
	if !p.down && !p.dragging {
		p.target -= p.cfg.AutoScroll
	}
	p.scroll += (p.target - p.scroll) * p.cfg.ScrollEase
}

// Scroll returns the current and target scroll offsets in world units.
func (p *Program) Scroll() (current, target float64) { return p.scroll, p.target }

// scale returns surface pixels per world unit at the card plane.
func (p *Program) scale() float64 {
	return float64(p.height) / 2 / math.Tan(cameraFOV*math.Pi/360) / cameraZ
}

// Cards returns the placement of every card for the current scroll offset.
func (p *Program) Cards() []Card {
	n := len(p.cfg.Items)
	if n == 0 || p.width == 0 || p.height == 0 {
		return nil
	}
	s := p.scale()
	total := float64(n) * cardGap
	halfView := float64(p.width) / s / 2

	cards := make([]Card, n)
	for i := range cards {
		x := math.Mod(float64(i)*cardGap+p.scroll, total)
		if x < 0 {
			x += total
		}
		x -= total / 2
		y := arcOffset(x, halfView, p.cfg.Bend)
		cards[i] = Card{
			Index:  i,
			X:      float64(p.width)/2 + x*s,
			Y:      float64(p.height)/2 - y*s,
			W:      cardWidth * s,
			H:      cardHeight * s,
			WorldX: x,
		}
	}
	return cards
}

// arcOffset returns the vertical world offset of a card centred at x on a
// circle through the viewport edges (+-half) whose sagitta is bend.
func arcOffset(x, half, bend float64) float64 {
	if bend == 0 {
		return 0
	}
	b := math.Abs(bend)
	r := (half*half + b*b) / (2 * b)
	ex := math.Min(math.Abs(x), half)
	arc := r - math.Sqrt(r*r-ex*ex)
	if bend > 0 {
		return -arc
	}
	return arc
}

// Draw clears the surface and draws every card with rounded corners.
func (p *Program) Draw(s ggfx.Surface) error {
	dc := s.Context()
	if dc == nil {
		return ggfx.ErrClosed
	}
	dc.Clear()

	n := len(p.cfg.Items)
	for _, c := range p.Cards() {
		x, y := c.X-c.W/2, c.Y-c.H/2
		if x > float64(p.width) || x+c.W < 0 {
			continue
		}
		r := p.cfg.BorderRadius * c.W

		dc.Push()
		dc.DrawRoundedRectangle(x, y, c.W, c.H, r)
		if buf := p.bufs[c.Index]; buf != nil {
			dc.Clip()
			dc.DrawImageEx(buf, gg.DrawImageOptions{X: x, Y: y, DstWidth: c.W, DstHeight: c.H})
		} else {
			dc.SetColor(gg.HSL(float64(c.Index)*360/float64(n), 0.5, 0.5))
			if err := dc.Fill(); err != nil {
				dc.Pop()
				return err
			}
		}
		dc.Pop()

		if p.cfg.Font != nil && p.cfg.Items[c.Index].Text != "" {
			dc.SetFont(p.cfg.Font)
			dc.SetColor(p.cfg.TextRGB())
			dc.DrawStringAnchored(p.cfg.Items[c.Index].Text, c.X, c.Y+c.H/2+p.cfg.Font.Size(), 0.5, 0)
		}
	}
	return nil
}

// PointerDown starts a potential drag or click.
func (p *Program) PointerDown(pt ggfx.Vec2) {
	p.down = true
	p.dragging = false
	p.startX, p.lastX = pt.X, pt.X
}

// PointerMove scrolls the row once the pointer moved past the drag
// threshold while pressed.
func (p *Program) PointerMove(pt ggfx.Vec2) {
	if !p.down {
		return
	}
	if !p.dragging && math.Abs(pt.X-p.startX) > dragThreshold {
		p.dragging = true
	}
	if p.dragging {
		p.target += (pt.X - p.lastX) * dragScale
		p.lastX = pt.X
	}
}

// PointerUp ends a drag, or selects the card under the pointer when the
// pointer did not travel past the drag threshold.
func (p *Program) PointerUp(pt ggfx.Vec2) {
	wasDown := p.down
	p.down = false
	if wasDown && !p.dragging {
		p.click(pt)
	}
	p.dragging = false
}

// Dragging reports whether a drag is in progress.
func (p *Program) Dragging() bool { return p.dragging }

func (p *Program) click(pt ggfx.Vec2) {
	if p.width == 0 || p.height == 0 {
		return
	}
	mx := pt.X/float64(p.width)*2 - 1
	my := 1 - pt.Y/float64(p.height)*2

	best, bestDist := -1, math.Inf(1)
	for _, c := range p.Cards() {
		cx := c.X/float64(p.width)*2 - 1
		cy := 1 - c.Y/float64(p.height)*2
		d := math.Hypot(cx-mx, cy-my)
		if d < clickRadius && d < bestDist {
			best, bestDist = c.Index, d
		}
	}
	if best < 0 {
		return
	}
	p.selected = best
	ggfx.Logger().Debug("gallery: item selected", "index", best, "text", p.cfg.Items[best].Text)
	if p.cfg.OnSelect != nil {
		p.cfg.OnSelect(best, p.cfg.Items[best])
	}
}

// Selected returns the selected item, if any.
func (p *Program) Selected() (index int, item Item, ok bool) {
	if p.selected < 0 || p.selected >= len(p.cfg.Items) {
		return -1, Item{}, false
	}
	return p.selected, p.cfg.Items[p.selected], true
}

// ClearSelection dismisses the selected item.
func (p *Program) ClearSelection() { p.selected = -1 }

// Tune applies bend, radius, scrolling, caption and selection changes in
// place, keeping the scroll position. A different item list or class
// needs a rebuild.
func (p *Program) Tune(e ggfx.Effect) bool {
	next, ok := e.(Config)
	if !ok || next.ClassName != p.cfg.ClassName || !sameItems(next.Items, p.cfg.Items) {
		return false
	}
	p.cfg = next.Normalized()
	return true
}

// sameItems reports whether a and b hold the same captions and the same
// image values in the same order.
func sameItems(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text || !sameImage(a[i].Image, b[i].Image) {
			return false
		}
	}
	return true
}

func sameImage(a, b image.Image) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
