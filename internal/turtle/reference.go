package turtle

import "fmt"

// Reference cuts the burn test rectangle: Settings.Reference mm long and
// 10 mm high, annotated with its nominal length and the kerf. Measuring the
// cut piece tells whether Burn is right. Nothing is drawn when Reference
// is zero.
func (t *Turtle) Reference(move string) error {
	l := t.Settings.Reference
	if l <= 0 {
		return nil
	}
	return t.Place(l, 10, move, "", func() error {
		t.ctx.Rectangle(0, 0, l, 10)
		note := fmt.Sprintf("%.2fmm, burn:%.2fmm", l, t.Settings.Burn)
		opts := TextOptions{Size: 6, Color: t.Colors.Annotations}
		if l < 80 {
			opts.Align = "middle left"
			return t.Text(note, l+15, 0, opts)
		}
		opts.Align = "middle center"
		return t.Text(note, l/2, 5, opts)
	})
}
