package geom

import (
	"math"

	clipper "github.com/swill/go.clipper"
)

// Precision is the grid (in µm) that boolean operations snap to: 1 nm.
const Precision = 1e-3

const scale = 1 / Precision

// maxFractureDepth bounds the recursive hole cutting in fracture.
const maxFractureDepth = 32

// JoinStyle selects how Offset treats convex corners.
type JoinStyle int

const (
	JoinRound JoinStyle = iota
	JoinMiter
	JoinSquare
)

// Op is a boolean operation.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
	OpXor
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "or"
	case OpDifference:
		return "not"
	case OpIntersection:
		return "and"
	case OpXor:
		return "xor"
	}
	return "unknown"
}

func (o Op) clipType() clipper.ClipType {
	switch o {
	case OpDifference:
		return clipper.CtDifference
	case OpIntersection:
		return clipper.CtIntersection
	case OpXor:
		return clipper.CtXor
	}
	return clipper.CtUnion
}

// Union merges polygons into non-overlapping, hole-free polygons.
func Union(polys []Polygon) []Polygon {
	return Boolean(polys, nil, OpUnion)
}

// Difference returns a minus b.
func Difference(a, b []Polygon) []Polygon {
	return Boolean(a, b, OpDifference)
}

// Intersection returns the area covered by both a and b.
func Intersection(a, b []Polygon) []Polygon {
	return Boolean(a, b, OpIntersection)
}

// Xor returns the area covered by exactly one of a and b.
func Xor(a, b []Polygon) []Polygon {
	return Boolean(a, b, OpXor)
}

// Boolean applies op to subject a and clip b using the non-zero fill rule.
// The result is hole-free and every polygon winds counter-clockwise.
func Boolean(a, b []Polygon, op Op) []Polygon {
	paths := execute(toPaths(a), toPaths(b), op.clipType())
	return fromPaths(fracture(paths, 0))
}

// Offset grows (delta > 0) or shrinks (delta < 0) closed polygons by delta µm.
func Offset(polys []Polygon, delta float64, join JoinStyle) []Polygon {
	co := clipper.NewClipperOffset()
	co.MiterLimit = 2
	// 5 nm arc tolerance keeps round joins smooth without exploding vertex counts.
	co.ArcTolerance = 5

	jt := clipper.JtRound
	switch join {
	case JoinMiter:
		jt = clipper.JtMiter
	case JoinSquare:
		jt = clipper.JtSquare
	}
	co.AddPaths(toPaths(polys), jt, clipper.EtClosedPolygon)
	paths := co.Execute(delta * scale)

	// Offsetting can leave overlapping outputs; normalise through a union.
	paths = execute(paths, nil, clipper.CtUnion)
	return fromPaths(fracture(paths, 0))
}

func execute(subject, clip clipper.Paths, ct clipper.ClipType) clipper.Paths {
	if len(subject) == 0 && ct != clipper.CtUnion && ct != clipper.CtXor {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	if len(subject) > 0 {
		c.AddPaths(subject, clipper.PtSubject, true)
	}
	if len(clip) > 0 {
		c.AddPaths(clip, clipper.PtClip, true)
	}
	out, ok := c.Execute1(ct, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil
	}
	return out
}

// fracture removes holes by cutting the region along the vertical line through
// the centre of a hole and clipping each half separately. The outer contour
// then reaches into the former hole so no polygon encloses another.
func fracture(paths clipper.Paths, depth int) clipper.Paths {
	var hole clipper.Path
	for _, p := range paths {
		if pathArea(p) < 0 {
			hole = p
			break
		}
	}
	if hole == nil || depth >= maxFractureDepth {
		return positive(paths)
	}

	minX, maxX, minY, maxY := pathBounds(paths)
	hMinX, hMaxX, _, _ := pathBounds(clipper.Paths{hole})
	cut := (hMinX + hMaxX) / 2

	left := clipper.Paths{boxPath(minX-1, minY-1, cut, maxY+1)}
	right := clipper.Paths{boxPath(cut, minY-1, maxX+1, maxY+1)}

	out := fracture(execute(paths, left, clipper.CtIntersection), depth+1)
	return append(out, fracture(execute(paths, right, clipper.CtIntersection), depth+1)...)
}

func positive(paths clipper.Paths) clipper.Paths {
	out := make(clipper.Paths, 0, len(paths))
	for _, p := range paths {
		if pathArea(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func pathArea(p clipper.Path) float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += float64(p[i].X)*float64(p[j].Y) - float64(p[j].X)*float64(p[i].Y)
	}
	return a / 2
}

func pathBounds(paths clipper.Paths) (minX, maxX, minY, maxY clipper.CInt) {
	minX, minY = math.MaxInt64, math.MaxInt64
	maxX, maxY = math.MinInt64, math.MinInt64
	for _, p := range paths {
		for _, pt := range p {
			minX, maxX = min(minX, pt.X), max(maxX, pt.X)
			minY, maxY = min(minY, pt.Y), max(maxY, pt.Y)
		}
	}
	return minX, maxX, minY, maxY
}

func boxPath(x1, y1, x2, y2 clipper.CInt) clipper.Path {
	return clipper.Path{
		&clipper.IntPoint{X: x1, Y: y1},
		&clipper.IntPoint{X: x2, Y: y1},
		&clipper.IntPoint{X: x2, Y: y2},
		&clipper.IntPoint{X: x1, Y: y2},
	}
}

func toPaths(polys []Polygon) clipper.Paths {
	out := make(clipper.Paths, 0, len(polys))
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		// Non-zero filling needs every operand wound the same way.
		poly = poly.CCW()
		p := make(clipper.Path, len(poly))
		for i, pt := range poly {
			p[i] = &clipper.IntPoint{X: snap(pt.X), Y: snap(pt.Y)}
		}
		out = append(out, p)
	}
	return out
}

func fromPaths(paths clipper.Paths) []Polygon {
	out := make([]Polygon, 0, len(paths))
	for _, p := range paths {
		poly := make(Polygon, len(p))
		for i, pt := range p {
			poly[i] = Point{float64(pt.X) / scale, float64(pt.Y) / scale}
		}
		poly = poly.Clean(Precision / 2)
		if poly.IsDegenerate() {
			continue
		}
		out = append(out, poly.CCW())
	}
	return out
}

func snap(v float64) clipper.CInt { return clipper.CInt(math.Round(v * scale)) }

// Snap rounds v to the Precision grid.
func Snap(v float64) float64 { return math.Round(v*scale) / scale }
