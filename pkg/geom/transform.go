package geom

import "math"

// Transform is an affine map p' = M·p + T where M is a rotation, optionally
// preceded by a reflection, times a uniform magnification. Devices always use
// unit magnification; other values come from GDSII files read back in.
type Transform struct {
	A, B, C, D float64 // M = [[A, B], [C, D]]
	TX, TY     float64
}

// Identity returns the identity transform.
func Identity() Transform { return Transform{A: 1, D: 1} }

// Translate returns a pure translation.
func Translate(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, TX: dx, TY: dy}
}

// Rotate returns a counter-clockwise rotation by deg about the point about.
func Rotate(deg float64, about Point) Transform {
	s, c := sincosDeg(deg)
	r := Transform{A: c, B: -s, C: s, D: c}
	// p' = R(p - a) + a
	return Translate(-about.X, -about.Y).Then(r).Then(Translate(about.X, about.Y))
}

// Scale returns a uniform magnification by s about the origin.
func Scale(s float64) Transform { return Transform{A: s, D: s} }

// MirrorLine reflects across the infinite line through p1 and p2.
func MirrorLine(p1, p2 Point) Transform {
	d := p2.Sub(p1)
	l := d.Len()
	if l == 0 {
		return Identity()
	}
	ux, uy := d.X/l, d.Y/l
	// Householder-style reflection about the direction u: M = 2uuᵀ - I.
	m := Transform{
		A: 2*ux*ux - 1, B: 2 * ux * uy,
		C: 2 * ux * uy, D: 2*uy*uy - 1,
	}
	m = m.snapped()
	return Translate(-p1.X, -p1.Y).Then(m).Then(Translate(p1.X, p1.Y))
}

// MirrorX reflects across the vertical line x = x0.
func MirrorX(x0 float64) Transform { return MirrorLine(Pt(x0, 0), Pt(x0, 1)) }

// MirrorY reflects across the horizontal line y = y0.
func MirrorY(y0 float64) Transform { return MirrorLine(Pt(0, y0), Pt(1, y0)) }

// Then returns the transform that applies t first and u second.
func (t Transform) Then(u Transform) Transform {
	return Transform{
		A:  u.A*t.A + u.B*t.C,
		B:  u.A*t.B + u.B*t.D,
		C:  u.C*t.A + u.D*t.C,
		D:  u.C*t.B + u.D*t.D,
		TX: u.A*t.TX + u.B*t.TY + u.TX,
		TY: u.C*t.TX + u.D*t.TY + u.TY,
	}
}

// Apply maps a point.
func (t Transform) Apply(p Point) Point {
	return Point{t.A*p.X + t.B*p.Y + t.TX, t.C*p.X + t.D*p.Y + t.TY}
}

// ApplyVector maps a direction (translation ignored).
func (t Transform) ApplyVector(v Point) Point {
	return Point{t.A*v.X + t.B*v.Y, t.C*v.X + t.D*v.Y}
}

// ApplyAngle maps an orientation in degrees.
func (t Transform) ApplyAngle(deg float64) float64 {
	v := t.ApplyVector(Unit(deg))
	return NormalizeAngle(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

// IsMirrored reports whether the transform includes a reflection.
func (t Transform) IsMirrored() bool { return t.A*t.D-t.B*t.C < 0 }

// RotationDeg returns the rotation angle in GDSII convention: the reference is
// first reflected about the x axis (if mirrored), then rotated by this angle.
func (t Transform) RotationDeg() float64 {
	// Both R(θ) and R(θ)·diag(1,-1) have first column (cos θ, sin θ).
	return NormalizeAngle(math.Atan2(t.C, t.A) * 180 / math.Pi)
}

// Mag returns the magnification of t.
func (t Transform) Mag() float64 {
	m := math.Sqrt(math.Abs(t.A*t.D - t.B*t.C))
	if math.Abs(m-1) < 1e-9 {
		return 1
	}
	return m
}

// Offset returns the translation part.
func (t Transform) Offset() Point { return Point{t.TX, t.TY} }

// IsIdentity reports whether t leaves every point unchanged.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// snapped rounds matrix entries that are within floating point noise of -1, 0 or 1.
func (t Transform) snapped() Transform {
	snap := func(v float64) float64 {
		for _, r := range []float64{-1, 0, 1} {
			if math.Abs(v-r) < 1e-12 {
				return r
			}
		}
		return v
	}
	t.A, t.B, t.C, t.D = snap(t.A), snap(t.B), snap(t.C), snap(t.D)
	return t
}
