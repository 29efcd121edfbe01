package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	catalog "github.com/asgen/cataloggen"
)

// RenderFontPreview renders text centered on a w×h transparent canvas using
// the font described by fontBytes, auto-reducing the point size from 64
// until the rendered line fits inside (w-16, h-16) (spec §4.9, §4.5 Font:
// "auto-sized down from 64px until it fits with 8px border").
//
// Grounded on x/image/font/opentype, part of the golang.org/x/image module
// already wired for the screenshot thumbnail pipeline; the spec's "text-
// shaping library" role is filled by the real font being cataloged, which
// no library in the pack otherwise exposes a renderer for.
func RenderFontPreview(fontBytes []byte, text string, w, h int) (image.Image, error) {
	parsed, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, catalog.NewError("imaging.RenderFontPreview", catalog.ErrPackageParse, "", err)
	}

	maxWidth := w - 16
	maxHeight := h - 16
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, catalog.NewError("imaging.RenderFontPreview", catalog.ErrValidation, "canvas too small", nil)
	}

	var face font.Face
	var adv fixed.Int26_6
	for size := 64; size >= 8; size -= 4 {
		f, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size: float64(size),
			DPI:  72,
		})
		if err != nil {
			continue
		}
		width := font.MeasureString(f, text)
		if width.Ceil() <= maxWidth && f.Metrics().Height.Ceil() <= maxHeight {
			face = f
			adv = width
			break
		}
		f.Close()
	}
	if face == nil {
		return nil, catalog.NewError("imaging.RenderFontPreview", catalog.ErrPluginFailed, "text never fit", nil)
	}
	defer face.Close()

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	metrics := face.Metrics()
	x := (fixed.I(w) - adv) / 2
	y := (fixed.I(h) + metrics.Ascent - metrics.Descent) / 2

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{0, 0, 0, 255}),
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)

	return canvas, nil
}
