package crop

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	DefaultQuality   = 100
	DefaultMaxSide   = 1024
	DefaultMaxPixels = 40_000_000
)

// Rasterize cuts r out of the encoded image src and returns it as JPEG.
// Results larger than maxSide on a side are scaled down; maxSide <= 0
// disables scaling.
func Rasterize(src []byte, r Rect, maxSide, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	region, err := Normalize(r, b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	region = region.Add(b.Min)

	dw, dh := region.Dx(), region.Dy()
	if maxSide > 0 && (dw > maxSide || dh > maxSide) {
		if dw >= dh {
			dh = max(1, dh*maxSide/dw)
			dw = maxSide
		} else {
			dw = max(1, dw*maxSide/dh)
			dh = maxSide
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if dw == region.Dx() && dh == region.Dy() {
		draw.Draw(dst, dst.Bounds(), img, region.Min, draw.Over)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, region, xdraw.Over, nil)
	}

	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// Dimensions reads the pixel size of an encoded image without decoding it.
func Dimensions(src []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
