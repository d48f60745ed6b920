package turtle

import (
	"strings"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/piwi3910/BoxCut/internal/model"
)

// DefaultFontSize is used when TextOptions.Size is zero.
const DefaultFontSize = 10.0

// TextOptions controls Text. Align takes space separated tokens out of
// top, middle, bottom, left, center and right.
type TextOptions struct {
	Angle float64
	Align string
	Size  float64
	Color model.Color
	Font  string
}

// Text draws possibly multi-line text anchored at (x, y). Lines are stacked
// downward with 1.4 times the font size as line pitch.
func (t *Turtle) Text(text string, x, y float64, opts TextOptions) error {
	size := opts.Size
	if size == 0 {
		size = DefaultFontSize
	}
	lines := strings.Split(text, "\n")
	n := float64(len(lines))
	height := n*size + (n-1)*0.4*size

	var shift float64
	align := canvas.AlignLeft
	for _, token := range strings.Fields(opts.Align) {
		switch token {
		case "top":
			shift = -height
		case "middle":
			shift = -0.5 * height
		case "bottom":
			shift = 0
		case "left":
			align = canvas.AlignLeft
		case "center":
			align = canvas.AlignCenter
		case "right":
			align = canvas.AlignRight
		default:
			return model.NewConfigError("alignment", token)
		}
	}

	defer t.Saved()()
	t.MoveTo(x, y, opts.Angle)
	t.MoveTo(0, shift, 0)
	style := canvas.TextStyle{Size: size, Align: align, Color: opts.Color, Font: opts.Font}
	for i := len(lines) - 1; i >= 0; i-- {
		t.ctx.ShowText(lines[i], style)
		t.MoveTo(0, 1.4*size, 0)
	}
	return nil
}
