package components

import (
	"fmt"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"

	"github.com/cristianadrielbraun/qrforge/internal/style"
)

// PreviewProps configures Preview.
type PreviewProps struct {
	ID    string
	Style style.Config
	// SVG is the rendered document; empty shows a placeholder.
	SVG   []byte
	Class string
}

func previewClass(p PreviewProps) string {
	return twmerge.Merge("inline-flex items-center justify-center overflow-hidden", p.Class)
}

// previewStyle applies the background padding and corner radius of the
// style to the frame around the barcode.
func previewStyle(s style.Config) templ.SafeCSS {
	bg := "transparent"
	if !s.BackgroundColor.IsNoFill() {
		bg = string(s.BackgroundColor)
	}
	return templ.SafeCSS(fmt.Sprintf("padding:%dpx;border-radius:%dpx;background:%s",
		s.BackgroundPaddingPx, s.BackgroundBorderRadiusPx, bg))
}

// stripDeclaration drops a leading XML declaration so the document can be
// inlined into HTML.
func stripDeclaration(doc []byte) []byte {
	const decl = "<?xml"
	if len(doc) >= len(decl) && string(doc[:len(decl)]) == decl {
		for i := range doc {
			if doc[i] == '>' {
				return doc[i+1:]
			}
		}
	}
	return doc
}
