package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/piwi3910/BoxCut/internal/canvas"
)

// WriteSVG writes the drawing as an SVG document sized in millimeters, one
// group per part. Curves stay cubic Beziers.
func WriteSVG(w io.Writer, j Job) error {
	fr, err := newFrame(j.Drawing)
	if err != nil {
		return err
	}
	wmm := int(math.Ceil(fr.width()))
	hmm := int(math.Ceil(fr.height()))

	doc := svg.New(w)
	doc.StartviewUnit(wmm, hmm, "mm", 0, 0, wmm, hmm)
	if j.Title != "" {
		doc.Title(j.Title)
	}
	for i, part := range j.Drawing.Parts {
		id := fmt.Sprintf(`id="part%d"`, i)
		if part.Name != "" {
			doc.Group(id, `data-label="`+html.EscapeString(part.Name)+`"`)
		} else {
			doc.Group(id)
		}
		for _, p := range part.Paths {
			doc.Path(svgPathData(fr, p), svgStyle(p))
		}
		for _, t := range part.Texts {
			svgText(doc, fr, t)
		}
		doc.Gend()
	}
	doc.End()
	return nil
}

func svgPathData(fr frame, p canvas.Path) string {
	var b strings.Builder
	pt := func(s canvas.Segment, i int) {
		v := fr.page(s.Pts[i])
		fmt.Fprintf(&b, " %.3f %.3f", v.X, v.Y)
	}
	for _, s := range p.Segments {
		switch s.Op {
		case canvas.OpMove:
			b.WriteString("M")
			pt(s, 0)
		case canvas.OpLine:
			b.WriteString(" L")
			pt(s, 0)
		case canvas.OpCurve:
			b.WriteString(" C")
			pt(s, 0)
			pt(s, 1)
			pt(s, 2)
		case canvas.OpClose:
			b.WriteString(" Z")
		}
	}
	return strings.TrimSpace(b.String())
}

func svgStyle(p canvas.Path) string {
	if p.Filled {
		return fmt.Sprintf("fill:%s;stroke:none", p.Color.Hex())
	}
	return fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.3f;stroke-linecap:round;stroke-linejoin:round", p.Color.Hex(), p.Width)
}

var svgAnchors = [...]string{"start", "middle", "end"}

func svgText(doc *svg.SVG, fr frame, t canvas.Text) {
	pos := fr.page(t.Pos)
	tr := fmt.Sprintf("translate(%.3f,%.3f) rotate(%.2f)", pos.X, pos.Y, textAngle(t.Angle))
	if t.Mirrored {
		tr += " scale(-1,1)"
	}
	font := t.Style.Font
	if font == "" {
		font = "sans-serif"
	}
	doc.Gtransform(tr)
	doc.Text(0, 0, t.Content, fmt.Sprintf("font-family:%s;font-size:%.2fpx;text-anchor:%s;fill:%s",
		font, t.Style.Size, svgAnchors[t.Style.Align], t.Style.Color.Hex()))
	doc.Gend()
}
