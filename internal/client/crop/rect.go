package crop

import (
	"errors"
	"fmt"
	"image"
	"math"
)

type Unit string

const (
	Percent Unit = "%"
	Pixel   Unit = "px"
)

// Aspect is the fixed width/height ratio of a profile picture crop.
const Aspect = 1.0

var ErrEmptySelection = errors.New("crop selection is empty")

// Rect is a crop region as the user adjusts it, in either unit.
type Rect struct {
	Unit   Unit    `json:"unit"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// DefaultRect covers the whole image.
func DefaultRect() Rect {
	return Rect{Unit: Percent, Width: 100, Height: 100, X: 0, Y: 0}
}

// Normalize converts r into a pixel rectangle inside a w×h image. The
// region is clamped to the image and its longer side is shrunk to keep the
// fixed aspect ratio. A region with no area yields ErrEmptySelection.
func Normalize(r Rect, w, h int) (image.Rectangle, error) {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, fmt.Errorf("%w: image is %dx%d", ErrEmptySelection, w, h)
	}

	x, y, cw, ch := r.X, r.Y, r.Width, r.Height
	switch r.Unit {
	case Percent, "":
		x = x / 100 * float64(w)
		y = y / 100 * float64(h)
		cw = cw / 100 * float64(w)
		ch = ch / 100 * float64(h)
	case Pixel:
	default:
		return image.Rectangle{}, fmt.Errorf("unknown crop unit %q", r.Unit)
	}

	if anyNaN(x, y, cw, ch) {
		return image.Rectangle{}, ErrEmptySelection
	}

	x = clamp(x, 0, float64(w))
	y = clamp(y, 0, float64(h))
	cw = clamp(cw, 0, float64(w)-x)
	ch = clamp(ch, 0, float64(h)-y)

	side := math.Min(cw, ch*Aspect)
	x0, y0 := int(math.Round(x)), int(math.Round(y))
	sw := int(math.Floor(side))
	sh := int(math.Floor(side / Aspect))
	if sw <= 0 || sh <= 0 {
		return image.Rectangle{}, ErrEmptySelection
	}

	out := image.Rect(x0, y0, x0+sw, y0+sh).Intersect(image.Rect(0, 0, w, h))
	if out.Empty() {
		return image.Rectangle{}, ErrEmptySelection
	}
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
