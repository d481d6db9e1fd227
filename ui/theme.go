package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// AccentColor is the primary color used for buttons and focus.
var AccentColor = color.NRGBA{R: 0xe0, G: 0x6c, B: 0x2a, A: 0xff}

// CustomTheme overrides the primary color of the default theme and
// optionally forces a variant.
type CustomTheme struct {
	fyne.Theme
	primary color.Color
	variant *fyne.ThemeVariant
}

// NewCustomTheme creates a new instance of the custom theme. A nil variant
// follows the system setting.
func NewCustomTheme(primary color.Color, variant *fyne.ThemeVariant) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), primary: primary, variant: variant}
}

// Color returns the color for the given name.
func (t *CustomTheme) Color(name fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	if t.variant != nil {
		v = *t.variant
	}
	if name == theme.ColorNamePrimary && t.primary != nil {
		return t.primary
	}
	return t.Theme.Color(name, v)
}
