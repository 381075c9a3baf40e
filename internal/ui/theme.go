package ui

import (
	"image/color"

	"fygallery/internal/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// galleryTheme wraps an existing theme, pins the light/dark variant stored
// in the preferences and tightens padding.
type galleryTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

// Ensure galleryTheme implements fyne.Theme
var _ fyne.Theme = (*galleryTheme)(nil)

// Color resolves every color against the pinned variant.
func (t *galleryTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(name, t.variant)
}

func (t *galleryTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 2.0
	}
	return t.Theme.Size(name)
}

// Variant returns the pinned variant.
func (t *galleryTheme) Variant() fyne.ThemeVariant {
	return t.variant
}

// NewGalleryTheme wraps baseTheme with the variant named by a stored
// preference ("dark" or "light").
func NewGalleryTheme(baseTheme fyne.Theme, stored string) fyne.Theme {
	if gt, ok := baseTheme.(*galleryTheme); ok {
		baseTheme = gt.Theme
	}
	return &galleryTheme{Theme: baseTheme, variant: variantFor(stored)}
}

func variantFor(stored string) fyne.ThemeVariant {
	if stored == prefs.ThemeDark {
		return theme.VariantDark
	}
	return theme.VariantLight
}

// toggledTheme names the variant opposite to stored.
func toggledTheme(stored string) string {
	if stored == prefs.ThemeDark {
		return prefs.ThemeLight
	}
	return prefs.ThemeDark
}
