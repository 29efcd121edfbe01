// Package imaging implements the image pipeline (spec §4.9): scaling a
// source image into the fixed screenshot thumbnail matrix, padding non-16:9
// sources onto a transparent canvas, and rendering a centered preview for
// font samples. Grounded on the teacher pack's only imaging consumer,
// tinyland-inc-pp's waifu/render.go, which resizes with
// github.com/disintegration/imaging's Fit/Lanczos.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"

	catalog "github.com/asgen/cataloggen"
)

// Thumbnail renders src into exactly w×h, PNG-encoded (spec §4.9): a direct
// Lanczos scale when src is already 16:9, otherwise a transparent w×h
// canvas with src scaled-to-fit and centered (spec R2, R3).
func Thumbnail(src image.Image, w, h int) ([]byte, error) {
	out := fit(src, w, h)
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, catalog.NewError("imaging.Thumbnail", catalog.ErrIO, "", err)
	}
	return buf.Bytes(), nil
}

func fit(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if isSixteenByNine(sw, sh) {
		return imaging.Resize(src, w, h, imaging.Lanczos)
	}

	canvas := imaging.New(w, h, color.NRGBA{})
	scaled := imaging.Fit(src, w, h, imaging.Lanczos)
	sb := scaled.Bounds()
	x := (w - sb.Dx()) / 2
	y := (h - sb.Dy()) / 2
	return imaging.Paste(canvas, scaled, image.Pt(x, y))
}

// isSixteenByNine reports whether w:h reduces to 16:9 exactly (spec R3: "A
// 16:9 source is never padded").
func isSixteenByNine(w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	g := gcd(w, h)
	return w/g == 16 && h/g == 9
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// CountOpaquePixels counts pixels whose alpha channel is non-zero, used by
// the font extractor to reject blank preview renders (spec §4.9, P8).
func CountOpaquePixels(img image.Image) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a != 0 {
				n++
			}
		}
	}
	return n
}

// NewTransparentCanvas returns a fully transparent RGBA canvas. The font
// renderer allocates its own canvas and does not call it.
func NewTransparentCanvas(w, h int) draw.Image {
	return image.NewNRGBA(image.Rect(0, 0, w, h))
}

// EncodePNG is a thin wrapper kept alongside Thumbnail so every PNG write
// in the pipeline goes through one function (icon cache, font cache,
// screenshots).
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, catalog.NewError("imaging.EncodePNG", catalog.ErrIO, "", err)
	}
	return buf.Bytes(), nil
}
