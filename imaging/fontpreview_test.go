package imaging

import "testing"

func TestRenderFontPreviewRejectsInvalidFont(t *testing.T) {
	_, err := RenderFontPreview([]byte("not a font"), "Aa", 128, 128)
	if err == nil {
		t.Fatalf("RenderFontPreview() error = nil, want a parse error for garbage input")
	}
}
