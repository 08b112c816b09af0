package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// forcedVariant pins the theme to one variant regardless of the OS
// preference.
type forcedVariant struct {
	fyne.Theme

	variant fyne.ThemeVariant
}

func (f *forcedVariant) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return f.Theme.Color(name, f.variant)
}

// ApplyVariant selects the light or dark rendition of the default theme.
func ApplyVariant(app fyne.App, dark bool) {
	variant := theme.VariantLight
	if dark {
		variant = theme.VariantDark
	}

	app.Settings().SetTheme(&forcedVariant{
		Theme:   theme.DefaultTheme(),
		variant: variant,
	})
}
