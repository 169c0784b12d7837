package crop

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		w, h int
		want image.Rectangle
	}{
		{name: "default on square", r: DefaultRect(), w: 200, h: 200, want: image.Rect(0, 0, 200, 200)},
		{name: "default on landscape shrinks width", r: DefaultRect(), w: 300, h: 200, want: image.Rect(0, 0, 200, 200)},
		{name: "default on portrait shrinks height", r: DefaultRect(), w: 100, h: 400, want: image.Rect(0, 0, 100, 100)},
		{name: "percent offset", r: Rect{Unit: Percent, X: 50, Y: 50, Width: 50, Height: 50}, w: 200, h: 200, want: image.Rect(100, 100, 200, 200)},
		{name: "empty unit means percent", r: Rect{Width: 50, Height: 50}, w: 100, h: 100, want: image.Rect(0, 0, 50, 50)},
		{name: "pixels", r: Rect{Unit: Pixel, X: 10, Y: 20, Width: 30, Height: 40}, w: 100, h: 100, want: image.Rect(10, 20, 40, 50)},
		{name: "clamped to image", r: Rect{Unit: Pixel, X: 80, Y: 90, Width: 50, Height: 50}, w: 100, h: 100, want: image.Rect(80, 90, 90, 100)},
		{name: "negative origin clamped", r: Rect{Unit: Pixel, X: -10, Y: -10, Width: 20, Height: 30}, w: 100, h: 100, want: image.Rect(0, 0, 20, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.r, tt.w, tt.h)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, got.Dx(), got.Dy(), "aspect must be 1")
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	for _, r := range []Rect{
		{Unit: Percent, Width: 0, Height: 50},
		{Unit: Pixel, Width: 50, Height: 0},
		{Unit: Pixel, X: 100, Y: 0, Width: 10, Height: 10},
		{Unit: Pixel, Width: 0.5, Height: 0.5},
		{Unit: Pixel, Width: math.NaN(), Height: 10},
	} {
		_, err := Normalize(r, 100, 100)
		require.ErrorIs(t, err, ErrEmptySelection, "%+v", r)
	}

	_, err := Normalize(DefaultRect(), 0, 10)
	require.ErrorIs(t, err, ErrEmptySelection)
}

func TestNormalize_UnknownUnit(t *testing.T) {
	_, err := Normalize(Rect{Unit: "em", Width: 1, Height: 1}, 10, 10)
	require.ErrorContains(t, err, "unknown crop unit")
}

func TestNormalize_AlwaysSquareAndInside(t *testing.T) {
	for w := 1; w <= 40; w += 7 {
		for h := 1; h <= 40; h += 5 {
			for _, r := range []Rect{
				DefaultRect(),
				{Unit: Percent, X: 10, Y: 20, Width: 70, Height: 30},
				{Unit: Pixel, X: 3, Y: 1, Width: 17, Height: 23},
			} {
				got, err := Normalize(r, w, h)
				if err != nil {
					require.ErrorIs(t, err, ErrEmptySelection)
					continue
				}
				require.Equal(t, got.Dx(), got.Dy())
				require.True(t, got.In(image.Rect(0, 0, w, h)), "%v not in %dx%d", got, w, h)
			}
		}
	}
}
