package preset

import (
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"os"

	"github.com/gogpu/gg/text"
	"github.com/gogpu/ggfx"
	"github.com/gogpu/ggfx/effect/galaxy"
	"github.com/gogpu/ggfx/effect/gallery"
	"github.com/gogpu/ggfx/effect/lightrays"
	"github.com/gogpu/ggfx/effect/threads"
	_ "golang.org/x/image/webp" // register WebP decoder
)

func init() {
	Register(lightrays.Name, buildLightRays)
	Register(galaxy.Name, buildGalaxy)
	Register(gallery.Name, buildGallery)
	Register(threads.Name, buildThreads)
}

type lightRaysParams struct {
	Origin           string  `toml:"origin" validate:"omitempty,origin"`
	Color            string  `toml:"color" validate:"omitempty,color"`
	Speed            float64 `toml:"speed" validate:"gte=0.01,lte=10"`
	Spread           float64 `toml:"spread" validate:"gte=0.001,lte=10"`
	RayLength        float64 `toml:"ray_length" validate:"gte=0.1,lte=10"`
	FadeDistance     float64 `toml:"fade_distance" validate:"gte=0.01,lte=10"`
	Saturation       float64 `toml:"saturation" validate:"gte=0,lte=2"`
	PointerInfluence float64 `toml:"pointer_influence" validate:"gte=0,lte=1"`
	Noise            float64 `toml:"noise" validate:"gte=0,lte=1"`
	Distortion       float64 `toml:"distortion" validate:"gte=0,lte=1"`
	Pulsating        bool    `toml:"pulsating"`
	FollowPointer    bool    `toml:"follow_pointer"`
	Class            string  `toml:"class"`
}

func buildLightRays(s Section) (ggfx.Effect, error) {
	d := lightrays.Defaults()
	p := lightRaysParams{
		Origin:           d.Origin.String(),
		Color:            d.Color,
		Speed:            d.Speed,
		Spread:           d.Spread,
		RayLength:        d.RayLength,
		FadeDistance:     d.FadeDistance,
		Saturation:       d.Saturation,
		PointerInfluence: d.PointerInfluence,
		Noise:            d.Noise,
		Distortion:       d.Distortion,
		Pulsating:        d.Pulsating,
		FollowPointer:    d.FollowPointer,
		Class:            d.ClassName,
	}
	if err := s.Decode(&p); err != nil {
		return nil, err
	}
	origin, err := ggfx.ParseOrigin(p.Origin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return lightrays.Config{
		Origin:           origin,
		Color:            p.Color,
		Speed:            p.Speed,
		Spread:           p.Spread,
		RayLength:        p.RayLength,
		FadeDistance:     p.FadeDistance,
		Saturation:       p.Saturation,
		PointerInfluence: p.PointerInfluence,
		Noise:            p.Noise,
		Distortion:       p.Distortion,
		Pulsating:        p.Pulsating,
		FollowPointer:    p.FollowPointer,
		ClassName:        p.Class,
	}, nil
}

type galaxyParams struct {
	Density            float64 `toml:"density" validate:"gte=0.1,lte=4"`
	Glow               float64 `toml:"glow" validate:"gte=0,lte=4"`
	Saturation         float64 `toml:"saturation" validate:"gte=0,lte=1"`
	HueShift           float64 `toml:"hue_shift" validate:"gte=0,lte=360"`
	StarSpeed          float64 `toml:"star_speed" validate:"gte=0,lte=10"`
	RotationSpeed      float64 `toml:"rotation_speed" validate:"gte=-5,lte=5"`
	PointerInteraction bool    `toml:"pointer_interaction"`
	Transparent        bool    `toml:"transparent"`
	Seed               uint64  `toml:"seed"`
	Class              string  `toml:"class"`
}

func buildGalaxy(s Section) (ggfx.Effect, error) {
	d := galaxy.Defaults()
	p := galaxyParams{
		Density:            d.Density,
		Glow:               d.Glow,
		Saturation:         d.Saturation,
		HueShift:           d.HueShift,
		StarSpeed:          d.StarSpeed,
		RotationSpeed:      d.RotationSpeed,
		PointerInteraction: d.PointerInteraction,
		Transparent:        d.Transparent,
		Seed:               d.Seed,
		Class:              d.ClassName,
	}
	if err := s.Decode(&p); err != nil {
		return nil, err
	}
	return galaxy.Config{
		Density:            p.Density,
		Glow:               p.Glow,
		Saturation:         p.Saturation,
		HueShift:           p.HueShift,
		StarSpeed:          p.StarSpeed,
		RotationSpeed:      p.RotationSpeed,
		PointerInteraction: p.PointerInteraction,
		Transparent:        p.Transparent,
		Seed:               p.Seed,
		ClassName:          p.Class,
	}, nil
}

type galleryItem struct {
	Image string `toml:"image"`
	Text  string `toml:"text"`
}

type galleryParams struct {
	Items        []galleryItem `toml:"items" validate:"required,min=1,dive"`
	Bend         float64       `toml:"bend" validate:"gte=-10,lte=10"`
	BorderRadius float64       `toml:"border_radius" validate:"gte=0,lte=0.5"`
	ScrollEase   float64       `toml:"scroll_ease" validate:"gte=0.01,lte=1"`
	AutoScroll   float64       `toml:"auto_scroll" validate:"gte=0,lte=1"`
	TextColor    string        `toml:"text_color" validate:"omitempty,color"`
	Font         string        `toml:"font"`
	FontSize     float64       `toml:"font_size" validate:"gt=0,lte=512"`
	Class        string        `toml:"class"`
}

// DefaultFontSize is the caption size when a gallery preset names a font
// without a size.
const DefaultFontSize = 14

func buildGallery(s Section) (ggfx.Effect, error) {
	d := gallery.Defaults()
	p := galleryParams{
		Bend:         d.Bend,
		BorderRadius: d.BorderRadius,
		ScrollEase:   d.ScrollEase,
		AutoScroll:   d.AutoScroll,
		TextColor:    d.TextColor,
		FontSize:     DefaultFontSize,
		Class:        d.ClassName,
	}
	if err := s.Decode(&p); err != nil {
		return nil, err
	}

	cfg := gallery.Config{
		Bend:         p.Bend,
		BorderRadius: p.BorderRadius,
		ScrollEase:   p.ScrollEase,
		AutoScroll:   p.AutoScroll,
		TextColor:    p.TextColor,
		ClassName:    p.Class,
	}
	for _, it := range p.Items {
		item := gallery.Item{Text: it.Text}
		if it.Image != "" {
			img, err := LoadImage(s.Resolve(it.Image))
			if err != nil {
				return nil, err
			}
			item.Image = img
		}
		cfg.Items = append(cfg.Items, item)
	}
	if p.Font != "" {
		src, err := text.NewFontSourceFromFile(s.Resolve(p.Font))
		if err != nil {
			return nil, fmt.Errorf("preset: load font %s: %w", p.Font, err)
		}
		cfg.Font = src.Face(p.FontSize)
	}
	return cfg, nil
}

type threadsParams struct {
	Color         string  `toml:"color" validate:"omitempty,color"`
	Amplitude     float64 `toml:"amplitude" validate:"gte=0,lte=4"`
	Distance      float64 `toml:"distance" validate:"gte=0,lte=1"`
	LineCount     int     `toml:"line_count" validate:"gte=1,lte=128"`
	FollowPointer bool    `toml:"follow_pointer"`
	Class         string  `toml:"class"`
}

func buildThreads(s Section) (ggfx.Effect, error) {
	d := threads.Defaults()
	p := threadsParams{
		Color:         d.Color,
		Amplitude:     d.Amplitude,
		Distance:      d.Distance,
		LineCount:     d.LineCount,
		FollowPointer: d.FollowPointer,
		Class:         d.ClassName,
	}
	if err := s.Decode(&p); err != nil {
		return nil, err
	}
	return threads.Config{
		Color:         p.Color,
		Amplitude:     p.Amplitude,
		Distance:      p.Distance,
		LineCount:     p.LineCount,
		FollowPointer: p.FollowPointer,
		ClassName:     p.Class,
	}, nil
}

// LoadImage decodes a PNG, JPEG or WebP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("preset: open image: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("preset: decode image %s: %w", path, err)
	}
	ggfx.Logger().Debug("preset: image loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}
