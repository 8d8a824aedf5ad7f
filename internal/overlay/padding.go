package overlay

import "github.com/cristianadrielbraun/qrforge/internal/style"

// Padding is the effective margin and plate setup behind a logo.
type Padding struct {
	MarginPx             int
	PlateColor           style.Color
	PlateSizeCoefficient float64
}

// ResolvePadding maps a preset to its fixed settings. Unknown presets
// resolve like PaddingNone.
func ResolvePadding(p style.PaddingPreset) Padding {
	switch p {
	case style.PaddingMinimal:
		return Padding{MarginPx: 2, PlateColor: "white", PlateSizeCoefficient: 0.23}
	case style.PaddingStandard:
		return Padding{MarginPx: 5, PlateColor: "white", PlateSizeCoefficient: 0.25}
	default:
		return Padding{MarginPx: 0, PlateColor: style.NoFill, PlateSizeCoefficient: 0.22}
	}
}
