package components

import twmerge "github.com/Oudwins/tailwind-merge-go"

type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantWarning Variant = "warning"
	VariantInfo    Variant = "info"
)

type Position string

const (
	PositionTopRight    Position = "top-right"
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

// ToastProps configures Toast.
type ToastProps struct {
	Title       string
	Description string
	Variant     Variant
	Position    Position
	// Duration in milliseconds before the toast hides itself; 0 keeps it.
	Duration    int
	Dismissible bool
	Class       string
}

// ParseVariant maps form values onto a Variant, defaulting to success.
func ParseVariant(s string) Variant {
	switch s {
	case "error", "destructive":
		return VariantError
	case "warning":
		return VariantWarning
	case "info":
		return VariantInfo
	default:
		return VariantSuccess
	}
}

var variantClasses = map[Variant]string{
	VariantSuccess: "border-green-600 bg-green-50 text-green-900",
	VariantError:   "border-red-600 bg-red-50 text-red-900",
	VariantWarning: "border-amber-500 bg-amber-50 text-amber-900",
	VariantInfo:    "border-sky-600 bg-sky-50 text-sky-900",
}

var positionClasses = map[Position]string{
	PositionTopRight:    "top-4 right-4",
	PositionBottomRight: "bottom-4 right-4",
	PositionBottomLeft:  "bottom-4 left-4",
}

func toastClass(p ToastProps) string {
	return twmerge.Merge(
		"fixed z-50 w-80 rounded-lg border bg-white p-4 shadow-lg",
		variantClasses[p.Variant],
		positionClasses[p.Position],
		p.Class,
	)
}
