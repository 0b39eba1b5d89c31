package geom

import "math"

// Polygon is a closed contour. The closing edge from the last point back to
// the first is implicit.
type Polygon []Point

// Area returns the signed area. Counter-clockwise polygons are positive.
func (p Polygon) Area() float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i].Cross(p[j])
	}
	return a / 2
}

// IsCCW reports whether the polygon winds counter-clockwise.
func (p Polygon) IsCCW() bool { return p.Area() > 0 }

// BBox returns the bounding box of the polygon. An empty polygon yields an empty Rect.
func (p Polygon) BBox() Rect {
	r := EmptyRect()
	for _, pt := range p {
		r = r.AddPoint(pt)
	}
	return r
}

// Transform returns a new polygon with t applied to every vertex.
// Mirroring transforms reverse the vertex order so orientation is preserved.
func (p Polygon) Transform(t Transform) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = t.Apply(pt)
	}
	if t.IsMirrored() {
		return out.Reversed()
	}
	return out
}

// Translate returns a copy shifted by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = Point{pt.X + dx, pt.Y + dy}
	}
	return out
}

// Reversed returns a copy with reversed vertex order.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// CCW returns the polygon wound counter-clockwise.
func (p Polygon) CCW() Polygon {
	if p.Area() < 0 {
		return p.Reversed()
	}
	return p
}

// Clean removes consecutive duplicate vertices (within tol), a closing vertex
// equal to the first, and collinear interior vertices.
func (p Polygon) Clean(tol float64) Polygon {
	out := make(Polygon, 0, len(p))
	for _, pt := range p {
		if len(out) > 0 && out[len(out)-1].Eq(pt, tol) {
			continue
		}
		out = append(out, pt)
	}
	for len(out) > 1 && out[0].Eq(out[len(out)-1], tol) {
		out = out[:len(out)-1]
	}

	changed := true
	for changed && len(out) >= 3 {
		changed = false
		for i := 0; i < len(out); i++ {
			prev := out[(i+len(out)-1)%len(out)]
			next := out[(i+1)%len(out)]
			if math.Abs(out[i].Sub(prev).Cross(next.Sub(out[i]))) <= tol*tol {
				out = append(out[:i], out[i+1:]...)
				changed = true
				break
			}
		}
	}
	return out
}

// IsDegenerate reports whether p has fewer than three distinct vertices or no area.
func (p Polygon) IsDegenerate() bool {
	return len(p) < 3 || math.Abs(p.Area()) < Precision*Precision
}

// Contains reports whether pt lies strictly inside p (even-odd rule).
func (p Polygon) Contains(pt Point) bool {
	in := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y) + a.X
			if pt.X < x {
				in = !in
			}
		}
	}
	return in
}

// BBoxOf returns the bounding box of a set of polygons.
func BBoxOf(polys []Polygon) Rect {
	r := EmptyRect()
	for _, p := range polys {
		r = r.Union(p.BBox())
	}
	return r
}

// TotalArea sums the absolute areas of polys.
func TotalArea(polys []Polygon) float64 {
	var a float64
	for _, p := range polys {
		a += math.Abs(p.Area())
	}
	return a
}
