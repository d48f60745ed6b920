package turtle

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// QRCode etches content as a QR code with square modules of size box mm.
// The code is placed like a part using the move directive.
func (t *Turtle) QRCode(content string, box float64, move string) error {
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return fmt.Errorf("encoding qr code: %w", err)
	}
	q.DisableBorder = true
	bitmap := q.Bitmap()
	n := len(bitmap)
	size := float64(n) * box

	return t.Place(size, size, move, "", func() error {
		done := t.WithColor(t.Colors.Etching)
		defer done()
		for row, line := range bitmap {
			for col, dark := range line {
				if dark {
					t.ctx.Rectangle(float64(col)*box, float64(n-1-row)*box, box, box)
				}
			}
		}
		t.ctx.Fill()
		return nil
	})
}
