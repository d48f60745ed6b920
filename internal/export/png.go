package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/piwi3910/BoxCut/internal/canvas"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultPNGResolution is the preview resolution in pixels per mm.
const DefaultPNGResolution = 10.0

// maxPNGSide bounds the preview size so huge drawings do not exhaust memory.
const maxPNGSide = 16384

// minStrokePx keeps hairline cut paths visible in previews.
const minStrokePx = 1.0

// WritePNG renders a preview of the drawing on a white background.
// Texts are drawn horizontally; their angle is ignored.
func WritePNG(w io.Writer, j Job, pxPerMM float64) error {
	fr, err := newFrame(j.Drawing)
	if err != nil {
		return err
	}
	if pxPerMM <= 0 {
		pxPerMM = DefaultPNGResolution
	}
	if side := math.Max(fr.width(), fr.height()) * pxPerMM; side > maxPNGSide {
		pxPerMM *= maxPNGSide / side
	}
	width := int(math.Ceil(fr.width() * pxPerMM))
	height := int(math.Ceil(fr.height() * pxPerMM))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	r := newRasterizer(img, pxPerMM)
	for _, part := range j.Drawing.Parts {
		for _, p := range part.Paths {
			r.path(fr, p)
		}
	}

	fonts := newFaceCache()
	defer fonts.close()
	for _, part := range j.Drawing.Parts {
		for _, t := range part.Texts {
			if err := drawPNGText(img, fonts, fr, t, pxPerMM); err != nil {
				return err
			}
		}
	}

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

type rasterizer struct {
	scale  float64
	dasher *rasterx.Dasher
	filler *rasterx.Filler
}

func newRasterizer(img draw.Image, scale float64) *rasterizer {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	return &rasterizer{
		scale:  scale,
		dasher: rasterx.NewDasher(width, height, scanner),
		filler: rasterx.NewFiller(width, height, scanner),
	}
}

func (r *rasterizer) path(fr frame, p canvas.Path) {
	cr, cg, cb := p.Color.RGB8()
	c := color.NRGBA{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: 0xff}

	lines := p.Flatten(flattenTolerance)
	if p.Filled {
		r.filler.Clear()
		r.filler.SetColor(c)
		for _, line := range lines {
			r.trace(fr, line, r.filler.Start, r.filler.Line)
			r.filler.Stop(true)
		}
		r.filler.Draw()
		return
	}

	stroke := math.Max(p.Width*r.scale, minStrokePx)
	r.dasher.Clear()
	r.dasher.SetStroke(fixed.Int26_6(stroke*64), 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	r.dasher.SetColor(c)
	for _, line := range lines {
		closed := len(line) > 2 && samePoint(line[0], line[len(line)-1])
		r.trace(fr, line, r.dasher.Start, r.dasher.Line)
		r.dasher.Stop(closed)
	}
	r.dasher.Draw()
}

func (r *rasterizer) trace(fr frame, line []r2.Vec, start, to func(fixed.Point26_6)) {
	for i, v := range line {
		pv := fr.page(v)
		pt := rasterx.ToFixedP(pv.X*r.scale, pv.Y*r.scale)
		if i == 0 {
			start(pt)
		} else {
			to(pt)
		}
	}
}

// faceCache holds one font face per pixel size.
type faceCache struct {
	font  *opentype.Font
	faces map[int]font.Face
}

func newFaceCache() *faceCache {
	return &faceCache{faces: make(map[int]font.Face)}
}

func (c *faceCache) face(px float64) (font.Face, error) {
	key := int(math.Round(px * 4))
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	if c.font == nil {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		c.font = f
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{Size: float64(key) / 4, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	c.faces[key] = f
	return f, nil
}

func (c *faceCache) close() {
	for _, f := range c.faces {
		f.Close()
	}
}

func drawPNGText(img draw.Image, fonts *faceCache, fr frame, t canvas.Text, scale float64) error {
	px := t.Style.Size * scale
	if px < 1 || t.Content == "" {
		return nil
	}
	face, err := fonts.face(px)
	if err != nil {
		return err
	}
	cr, cg, cb := t.Style.Color.RGB8()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: 0xff}),
		Face: face,
	}
	pos := fr.page(t.Pos)
	x := pos.X * scale
	switch t.Style.Align {
	case canvas.AlignCenter:
		x -= float64(d.MeasureString(t.Content)) / 64 / 2
	case canvas.AlignRight:
		x -= float64(d.MeasureString(t.Content)) / 64
	}
	d.Dot = fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(pos.Y * scale * 64)}
	d.DrawString(t.Content)
	return nil
}
