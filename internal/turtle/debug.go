package turtle

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"
)

// BorderPoly draws a closed polygon and numbers its vertices in the
// annotation color. Used to inspect fill regions in debug mode.
func (t *Turtle) BorderPoly(points []r2.Vec) error {
	if len(points) < 2 {
		return nil
	}
	defer t.WithColor(t.Colors.Annotations)()
	t.ctx.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		t.ctx.LineTo(p.X, p.Y)
	}
	t.ctx.ClosePath()
	t.ctx.Stroke()
	for i, p := range points {
		if err := t.Text(strconv.Itoa(i), p.X, p.Y, TextOptions{Align: "bottom left", Size: 2, Color: t.Colors.Annotations}); err != nil {
			return fmt.Errorf("label vertex %d: %w", i, err)
		}
	}
	return nil
}
