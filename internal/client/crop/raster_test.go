package crop

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

// halves draws a w×h image whose left half is red and right half blue.
func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{R: 255, A: 255}
			if x >= w/2 {
				c = color.RGBA{B: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestRasterize_CropsRegion(t *testing.T) {
	src := encodePNG(t, halves(200, 100))

	out, err := Rasterize(src, Rect{Unit: Pixel, X: 100, Y: 0, Width: 100, Height: 100}, 0, 100)
	require.NoError(t, err)

	img := decodeJPEG(t, out)
	require.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	r, g, b, _ := img.At(50, 50).RGBA()
	require.Less(t, r>>8, uint32(40))
	require.Less(t, g>>8, uint32(40))
	require.Greater(t, b>>8, uint32(200))
}

func TestRasterize_ScalesDown(t *testing.T) {
	src := encodePNG(t, halves(400, 400))

	out, err := Rasterize(src, DefaultRect(), 64, 90)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 64, 64), decodeJPEG(t, out).Bounds())
}

func TestRasterize_DecodesGIF(t *testing.T) {
	pal := image.NewPaletted(image.Rect(0, 0, 20, 20), []color.Color{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, pal, nil))

	out, err := Rasterize(buf.Bytes(), DefaultRect(), 0, 0)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 20, 20), decodeJPEG(t, out).Bounds())
}

func TestRasterize_Errors(t *testing.T) {
	_, err := Rasterize([]byte("not an image"), DefaultRect(), 0, 100)
	require.ErrorContains(t, err, "decode image")

	_, err = Rasterize(encodePNG(t, halves(10, 10)), Rect{Unit: Pixel}, 0, 100)
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestDimensions(t *testing.T) {
	w, h, err := Dimensions(encodePNG(t, halves(31, 17)))
	require.NoError(t, err)
	require.Equal(t, 31, w)
	require.Equal(t, 17, h)

	_, _, err = Dimensions([]byte("nope"))
	require.Error(t, err)
}
