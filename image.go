package catalog

import "image"

// ImageKind distinguishes a screenshot's full-size source render from one of
// its generated thumbnails (spec §3 Image).
type ImageKind string

const (
	ImageSource    ImageKind = "source"
	ImageThumbnail ImageKind = "thumbnail"
)

// Image is one rendered resolution of a screenshot or icon (spec §3 Image).
type Image struct {
	Width, Height int
	Kind          ImageKind
	URL           string
	Basename      string
	// Pixels is the decoded/rendered raster, nil until materialized by the
	// image pipeline (package imaging).
	Pixels image.Image
}

// ThumbnailSize is one entry of the fixed screenshot matrix (spec §4.3,
// §GLOSSARY "Screenshot matrix").
type ThumbnailSize struct {
	W, H int
}

// ScreenshotMatrix is the fixed set of non-font thumbnail resolutions:
// two widescreen tiers plus the small listing thumbnail, all 16:9
// (spec §4.3, §GLOSSARY).
var ScreenshotMatrix = []ThumbnailSize{
	{624, 351},
	{112, 63},
	{752, 423},
}

// FontPreviewSize is the single "source" raster size used for font
// screenshots (spec §4.3).
var FontPreviewSize = ThumbnailSize{752, 423}

// IconCachedSize is the cached-icon edge length in pixels. No code refers
// to it: the desktop-entry extractor records a hicolor/pixmap search hit
// by path and does not rescale it.
const IconCachedSize = 64
