package layout

import (
	"math"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
)

const routeTol = 1e-6

// Route draws a Manhattan wire of the given width from p1 to p2 with sharp
// corners. Supported arrangements:
//
//   - straight: the ports face each other on a common axis
//   - L-route: the ports are orthogonal and the corner lies ahead of both
//   - Z-route: the ports face each other with a lateral offset; the jog is
//     placed halfway between them
//
// Any other arrangement is reported as an ErrCodeGeometry error. A width of
// zero uses p1's width.
func Route(p1, p2 Port, width float64) (*Component, error) {
	if width <= 0 {
		width = p1.Width
	}
	if width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidParam, "route width must be positive")
	}

	d1, d2 := p1.Normal(), p2.Normal()
	delta := p2.Center.Sub(p1.Center)
	dot := d1.Dot(d2)
	half := width / 2

	var segs []geom.Polygon
	switch {
	case math.Abs(dot+1) < routeTol:
		along := delta.Dot(d1)
		if along <= routeTol {
			return nil, errors.New(errors.ErrCodeGeometry, "ports %s and %s face away from each other", p1.Name, p2.Name)
		}
		side := d1.Rotate(90)
		lateral := delta.Dot(side)
		if math.Abs(lateral) < routeTol {
			segs = append(segs, segment(p1.Center, p2.Center, width, 0, 0))
			break
		}
		a := p1.Center.Add(d1.Scale(along / 2))
		b := a.Add(side.Scale(lateral))
		segs = append(segs,
			segment(p1.Center, a, width, 0, half),
			segment(a, b, width, half, half),
			segment(b, p2.Center, width, half, 0),
		)

	case math.Abs(dot) < routeTol:
		corner := p1.Center.Add(d1.Scale(delta.Dot(d1)))
		if corner.Sub(p1.Center).Dot(d1) <= routeTol || corner.Sub(p2.Center).Dot(d2) <= routeTol {
			return nil, errors.New(errors.ErrCodeGeometry, "no single-bend route from %s to %s", p1.Name, p2.Name)
		}
		segs = append(segs,
			segment(p1.Center, corner, width, 0, half),
			segment(corner, p2.Center, width, 0, 0),
		)

	default:
		return nil, errors.New(errors.ErrCodeGeometry,
			"unsupported port arrangement %s -> %s (orientations %g and %g)",
			p1.Name, p2.Name, p1.Orientation, p2.Orientation)
	}

	c := New("route")
	c.AddPolygons(p1.Layer, geom.Union(segs))
	return c, nil
}

// segment is the rectangle of the given width along a->b, extended by
// extA before a and extB after b.
func segment(a, b geom.Point, width, extA, extB float64) geom.Polygon {
	dir := b.Sub(a)
	l := dir.Len()
	if l == 0 {
		return nil
	}
	u := dir.Scale(1 / l)
	n := u.Rotate(90).Scale(width / 2)
	a = a.Sub(u.Scale(extA))
	b = b.Add(u.Scale(extB))
	return geom.Polygon{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)}.CCW()
}
