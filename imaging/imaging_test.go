package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestThumbnailSixteenByNineIsScaledNotPadded(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1600, 900))
	fillOpaque(src)

	data, err := Thumbnail(src, 160, 90)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := CountOpaquePixels(out); got != 160*90 {
		t.Fatalf("CountOpaquePixels() = %d, want %d (no padding expected)", got, 160*90)
	}
}

func TestThumbnailNonSixteenByNineIsPadded(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	fillOpaque(src)

	data, err := Thumbnail(src, 160, 90)
	if err != nil {
		t.Fatalf("Thumbnail() error = %v", err)
	}
	out, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	b := out.Bounds()
	if b.Dx() != 160 || b.Dy() != 90 {
		t.Fatalf("output bounds = %v, want 160x90", b)
	}
	if got := CountOpaquePixels(out); got == 0 || got == 160*90 {
		t.Fatalf("CountOpaquePixels() = %d, want a partial fill (padded canvas)", got)
	}
}

func TestIsSixteenByNine(t *testing.T) {
	cases := []struct {
		w, h int
		want bool
	}{
		{1920, 1080, true},
		{1600, 900, true},
		{320, 180, true},
		{800, 600, false},
		{0, 0, false},
	}
	for _, c := range cases {
		if got := isSixteenByNine(c.w, c.h); got != c.want {
			t.Fatalf("isSixteenByNine(%d, %d) = %v, want %v", c.w, c.h, got, c.want)
		}
	}
}

func TestCountOpaquePixelsOnBlankCanvas(t *testing.T) {
	canvas := NewTransparentCanvas(10, 10)
	if got := CountOpaquePixels(canvas); got != 0 {
		t.Fatalf("CountOpaquePixels(blank) = %d, want 0", got)
	}
}

func fillOpaque(img *image.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.Set(x, y, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
		}
	}
}
