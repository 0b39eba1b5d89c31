package layout

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
)

// Justify controls horizontal alignment of text lines relative to the anchor.
type Justify string

const (
	JustifyLeft   Justify = "left"
	JustifyCenter Justify = "center"
	JustifyRight  Justify = "right"
)

var textFace = basicfont.Face7x13

// Text renders text as mask polygons. The glyphs come from a 7x13 bitmap font
// whose pixels are merged into rectangles and scaled so that the font ascent
// equals size µm. pos is the baseline anchor of the first line; further lines
// ("\n") go downwards with a pitch of 13 font pixels.
func Text(text string, size float64, pos geom.Point, justify Justify, layer Layer) (*Component, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "text size must be positive, got %g", size)
	}
	switch justify {
	case "", JustifyLeft, JustifyCenter, JustifyRight:
	default:
		return nil, errors.New(errors.ErrCodeInvalidParam, "unknown justification %q", justify)
	}

	ascent := textFace.Ascent
	px := size / float64(ascent)
	pitch := float64(textFace.Height) * px

	var rects []geom.Polygon
	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		width := float64(font.MeasureString(textFace, line).Round()) * px
		x0 := pos.X
		switch justify {
		case JustifyCenter:
			x0 -= width / 2
		case JustifyRight:
			x0 -= width
		}
		baseline := pos.Y - float64(i)*pitch
		for _, r := range glyphRuns(line) {
			// Image rows grow downwards; row `ascent` sits on the baseline.
			rects = append(rects, geom.R(
				x0+float64(r.Min.X)*px,
				baseline+float64(ascent-r.Max.Y)*px,
				x0+float64(r.Max.X)*px,
				baseline+float64(ascent-r.Min.Y)*px,
			).Polygon())
		}
	}

	c := New("text")
	c.AddPolygons(layer, geom.Union(rects))
	return c, nil
}

// glyphRuns rasterizes one line and returns its set pixels as rectangles.
// Horizontal runs are merged with identical runs on the rows below.
func glyphRuns(line string) []image.Rectangle {
	w := font.MeasureString(textFace, line).Round()
	h := textFace.Height
	img := image.NewAlpha(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.Opaque,
		Face: textFace,
		Dot:  fixed.P(0, textFace.Ascent),
	}
	d.DrawString(line)

	var out []image.Rectangle
	open := make(map[[2]int]int) // run [x0,x1) -> index into out
	for y := 0; y < h; y++ {
		next := make(map[[2]int]int)
		for x := 0; x < w; {
			if img.AlphaAt(x, y).A <= 127 {
				x++
				continue
			}
			start := x
			for x < w && img.AlphaAt(x, y).A > 127 {
				x++
			}
			key := [2]int{start, x}
			if i, ok := open[key]; ok {
				out[i].Max.Y = y + 1
				next[key] = i
				continue
			}
			out = append(out, image.Rect(start, y, x, y+1))
			next[key] = len(out) - 1
		}
		open = next
	}
	return out
}
