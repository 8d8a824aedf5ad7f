package renderer

import (
	"fmt"

	"github.com/yeqown/go-qrcode/v2"
)

// bitmap is a square module grid; true marks a dark module.
type bitmap struct {
	size  int
	cells []bool
}

func (b *bitmap) dark(x, y int) bool {
	if x < 0 || y < 0 || x >= b.size || y >= b.size {
		return false
	}
	return b.cells[y*b.size+x]
}

// finder reports whether (x, y) belongs to one of the three 7x7 position
// patterns, which are drawn by the corner pass instead of the dot pass.
func (b *bitmap) finder(x, y int) bool {
	n := b.size
	return (x < 7 && y < 7) || (x >= n-7 && y < 7) || (x < 7 && y >= n-7)
}

// matrixWriter captures the symbol produced by go-qrcode instead of
// drawing it.
type matrixWriter struct {
	bm *bitmap
}

func (w *matrixWriter) Write(mat qrcode.Matrix) error {
	n := mat.Width()
	bm := &bitmap{size: n, cells: make([]bool, n*n)}
	mat.Iterate(qrcode.IterDirection_ROW, func(x, y int, v qrcode.QRValue) {
		if x < n && y < n {
			bm.cells[y*n+x] = v.IsSet()
		}
	})
	w.bm = bm
	return nil
}

func (w *matrixWriter) Close() error { return nil }

func errorCorrection(level string) qrcode.EncodeOption {
	switch level {
	case "L":
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionLow)
	case "M":
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionMedium)
	case "H":
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionHighest)
	default:
		return qrcode.WithErrorCorrectionLevel(qrcode.ErrorCorrectionQuart)
	}
}

// encodeMatrix builds the module grid for data at the given level.
func encodeMatrix(data, level string) (*bitmap, error) {
	qrc, err := qrcode.NewWith(data, errorCorrection(level))
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}
	w := &matrixWriter{}
	if err := qrc.Save(w); err != nil {
		return nil, fmt.Errorf("failed to build QR matrix: %w", err)
	}
	if w.bm == nil || w.bm.size == 0 {
		return nil, fmt.Errorf("invalid QR matrix dimension")
	}
	return w.bm, nil
}
