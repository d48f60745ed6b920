package turtle

import "github.com/piwi3910/BoxCut/internal/model"

// Saved pushes the canvas state and returns the matching restore, meant to
// be deferred:
//
//	defer t.Saved()()
func (t *Turtle) Saved() func() {
	t.ctx.Save()
	return t.ctx.Restore
}

// WithColor strokes the pending path, saves the state and switches the pen
// to c. The returned func strokes what was drawn in c and restores.
func (t *Turtle) WithColor(c model.Color) func() {
	t.ctx.Stroke()
	t.ctx.Save()
	t.ctx.SetColor(c)
	return func() {
		t.ctx.Stroke()
		t.ctx.Restore()
	}
}

func (t *Turtle) holeColor() func() {
	return t.WithColor(t.Colors.InnerCut)
}
