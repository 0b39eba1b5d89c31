package layout

import (
	"math"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
)

// DefaultSegments is the number of vertices used for a full circle.
const DefaultSegments = 128

// Rectangle returns a w×h rectangle with its lower-left corner at the origin
// and edge ports e1 (west), e2 (north), e3 (east) and e4 (south).
func Rectangle(w, h float64, layer Layer) *Component {
	c := New("rectangle")
	c.AddRect(layer, geom.R(0, 0, w, h))
	c.ports = []Port{
		{Name: "e1", Center: geom.Pt(0, h/2), Width: h, Orientation: 180, Layer: layer},
		{Name: "e2", Center: geom.Pt(w/2, h), Width: w, Orientation: 90, Layer: layer},
		{Name: "e3", Center: geom.Pt(w, h/2), Width: h, Orientation: 0, Layer: layer},
		{Name: "e4", Center: geom.Pt(w/2, 0), Width: w, Orientation: 270, Layer: layer},
	}
	return c
}

// Taper returns a linear taper from width w1 at x=0 to w2 at x=length,
// centred on y=0. Ports default to o1 (west) and o2 (east); names overrides them.
func Taper(length, w1, w2 float64, layer Layer, names ...string) (*Component, error) {
	if length <= 0 || w1 <= 0 || w2 <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "taper dimensions must be positive (length=%g, w1=%g, w2=%g)", length, w1, w2)
	}
	n1, n2 := "o1", "o2"
	if len(names) > 0 {
		n1 = names[0]
	}
	if len(names) > 1 {
		n2 = names[1]
	}

	c := New("taper")
	c.AddPolygon(layer,
		geom.Pt(0, -w1/2),
		geom.Pt(length, -w2/2),
		geom.Pt(length, w2/2),
		geom.Pt(0, w1/2),
	)
	if err := c.AddPort(Port{Name: n1, Center: geom.Pt(0, 0), Width: w1, Orientation: 180, Layer: layer}); err != nil {
		return nil, err
	}
	if err := c.AddPort(Port{Name: n2, Center: geom.Pt(length, 0), Width: w2, Orientation: 0, Layer: layer}); err != nil {
		return nil, err
	}
	return c, nil
}

// Ellipse returns an ellipse centred on the origin with n vertices.
func Ellipse(rx, ry float64, n int, layer Layer) *Component {
	if n < 3 {
		n = DefaultSegments
	}
	c := New("ellipse")
	pts := make([]geom.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = geom.Pt(rx*math.Cos(a), ry*math.Sin(a))
	}
	c.AddPolygon(layer, pts...)
	return c
}

// Ring returns an annulus with centre-line radius r and the given width.
// The annulus is emitted as hole-free pieces.
func Ring(r, width float64, n int, layer Layer) (*Component, error) {
	if r <= 0 || width <= 0 || width >= 2*r {
		return nil, errors.New(errors.ErrCodeInvalidParam, "ring needs 0 < width < 2r (r=%g, width=%g)", r, width)
	}
	outer := Ellipse(r+width/2, r+width/2, n, layer).polygons[layer]
	inner := Ellipse(r-width/2, r-width/2, n, layer).polygons[layer]
	c := New("ring")
	c.AddPolygons(layer, geom.Difference(outer, inner))
	return c, nil
}

// Arc returns an annular sector with centre-line radius r between theta1 and
// theta2 degrees (counter-clockwise). n is the vertex count per full circle.
func Arc(r, width, theta1, theta2 float64, n int, layer Layer) (*Component, error) {
	if r <= 0 || width <= 0 || width >= 2*r {
		return nil, errors.New(errors.ErrCodeInvalidParam, "arc needs 0 < width < 2r (r=%g, width=%g)", r, width)
	}
	if theta2 <= theta1 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "arc needs theta2 > theta1 (%g, %g)", theta1, theta2)
	}
	c := New("arc")
	c.AddPolygon(layer, ArcPolygon(geom.Point{}, r-width/2, r+width/2, theta1, theta2, n)...)
	return c, nil
}

// ArcPolygon returns the annular sector between radii rIn and rOut about
// center, from theta1 to theta2 degrees.
func ArcPolygon(center geom.Point, rIn, rOut, theta1, theta2 float64, n int) geom.Polygon {
	if n < 3 {
		n = DefaultSegments
	}
	steps := int(math.Ceil(float64(n) * (theta2 - theta1) / 360))
	if steps < 1 {
		steps = 1
	}
	poly := make(geom.Polygon, 0, 2*(steps+1))
	for i := 0; i <= steps; i++ {
		a := theta1 + (theta2-theta1)*float64(i)/float64(steps)
		poly = append(poly, center.Add(geom.Unit(a).Scale(rOut)))
	}
	for i := steps; i >= 0; i-- {
		a := theta1 + (theta2-theta1)*float64(i)/float64(steps)
		poly = append(poly, center.Add(geom.Unit(a).Scale(rIn)))
	}
	return poly
}

// Cross returns two bars of the given length and width crossing at the origin,
// merged into one polygon.
func Cross(length, width float64, layer Layer) *Component {
	h := geom.R(-length/2, -width/2, length/2, width/2).Polygon()
	v := geom.R(-width/2, -length/2, width/2, length/2).Polygon()
	c := New("cross")
	c.AddPolygons(layer, geom.Union([]geom.Polygon{h, v}))
	return c
}
