package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-180, 180},
		{89.999999999999, 90},
		{45, 45},
	}
	for _, tt := range tests {
		if got := NormalizeAngle(tt.in); math.Abs(got-tt.want) > eps {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPointOps(t *testing.T) {
	p, q := Pt(3, 4), Pt(1, -2)
	if got := p.Add(q); got != Pt(4, 2) {
		t.Errorf("Add = %v", got)
	}
	if got := p.Sub(q); got != Pt(2, 6) {
		t.Errorf("Sub = %v", got)
	}
	if got := p.Scale(2); got != Pt(6, 8) {
		t.Errorf("Scale = %v", got)
	}
	if got := p.Dot(q); got != -5 {
		t.Errorf("Dot = %v", got)
	}
	if got := Pt(1, 0).Cross(Pt(0, 1)); got != 1 {
		t.Errorf("Cross = %v, want 1", got)
	}
	if got := p.Len(); got != 5 {
		t.Errorf("Len = %v", got)
	}
	if got := p.String(); got != "(3, 4)" {
		t.Errorf("String = %q", got)
	}
}

func TestPolygonArea(t *testing.T) {
	sq := R(0, 0, 2, 3).Polygon()
	if got := sq.Area(); got != 6 {
		t.Errorf("Area() = %v, want 6", got)
	}
	if got := sq.Reversed().Area(); got != -6 {
		t.Errorf("reversed Area() = %v, want -6", got)
	}
	if !sq.IsCCW() {
		t.Error("rect polygon should be counter-clockwise")
	}
}

func TestPolygonClean(t *testing.T) {
	p := Polygon{{0, 0}, {1, 0}, {2, 0}, {2, 2}, {2, 2}, {0, 2}, {0, 0}}
	got := p.Clean(1e-6)
	if len(got) != 4 {
		t.Fatalf("Clean() kept %d vertices, want 4: %v", len(got), got)
	}
	if math.Abs(got.Area()-4) > eps {
		t.Errorf("Clean() changed area to %v", got.Area())
	}
}

func TestPolygonContains(t *testing.T) {
	p := R(0, 0, 10, 10).Polygon()
	if !p.Contains(Pt(5, 5)) {
		t.Error("centre should be inside")
	}
	if p.Contains(Pt(11, 5)) {
		t.Error("point outside reported inside")
	}
}

func TestRectUnion(t *testing.T) {
	r := EmptyRect()
	if !r.Empty() {
		t.Fatal("EmptyRect should be empty")
	}
	r = r.Union(R(0, 0, 1, 1)).Union(R(-2, 3, 0, 4))
	want := R(-2, 0, 1, 4)
	if r != want {
		t.Errorf("Union = %+v, want %+v", r, want)
	}
	if got := r.Expand(1); got != R(-3, -1, 2, 5) {
		t.Errorf("Expand = %+v", got)
	}
}

func TestTransforms(t *testing.T) {
	t.Run("rotate", func(t *testing.T) {
		tr := Rotate(90, Pt(1, 1))
		got := tr.Apply(Pt(2, 1))
		if !got.Eq(Pt(1, 2), eps) {
			t.Errorf("Rotate(90) = %v, want (1, 2)", got)
		}
		if tr.IsMirrored() {
			t.Error("rotation reported as mirrored")
		}
		if got := tr.RotationDeg(); got != 90 {
			t.Errorf("RotationDeg = %v, want 90", got)
		}
	})

	t.Run("mirror vertical line", func(t *testing.T) {
		tr := MirrorLine(Pt(5, 0), Pt(5, 1))
		got := tr.Apply(Pt(2, 3))
		if !got.Eq(Pt(8, 3), eps) {
			t.Errorf("mirror = %v, want (8, 3)", got)
		}
		if !tr.IsMirrored() {
			t.Error("mirror not reported as mirrored")
		}
		// x-reflection followed by 180 degree rotation
		if got := tr.RotationDeg(); got != 180 {
			t.Errorf("RotationDeg = %v, want 180", got)
		}
		if got := tr.ApplyAngle(0); got != 180 {
			t.Errorf("ApplyAngle(0) = %v, want 180", got)
		}
		if got := tr.ApplyAngle(90); got != 90 {
			t.Errorf("ApplyAngle(90) = %v, want 90", got)
		}
	})

	t.Run("mirror horizontal line", func(t *testing.T) {
		tr := MirrorY(10)
		if got := tr.Apply(Pt(3, 4)); !got.Eq(Pt(3, 16), eps) {
			t.Errorf("mirror = %v, want (3, 16)", got)
		}
		if got := tr.RotationDeg(); got != 0 {
			t.Errorf("RotationDeg = %v, want 0", got)
		}
	})

	t.Run("compose", func(t *testing.T) {
		tr := Translate(1, 0).Then(Rotate(180, Pt(0, 0)))
		if got := tr.Apply(Pt(1, 1)); !got.Eq(Pt(-2, -1), eps) {
			t.Errorf("compose = %v, want (-2, -1)", got)
		}
	})

	t.Run("mirrored polygon keeps orientation", func(t *testing.T) {
		p := R(0, 0, 1, 1).Polygon().Transform(MirrorX(3))
		if !p.IsCCW() {
			t.Error("mirrored polygon should stay counter-clockwise")
		}
	})
}

func TestUnion(t *testing.T) {
	a := R(0, 0, 10, 10).Polygon()
	b := R(5, 0, 15, 10).Polygon()
	got := Union([]Polygon{a, b})
	if len(got) != 1 {
		t.Fatalf("Union gave %d polygons, want 1", len(got))
	}
	if math.Abs(TotalArea(got)-150) > 1e-6 {
		t.Errorf("area = %v, want 150", TotalArea(got))
	}
}

func TestUnionMixedWinding(t *testing.T) {
	tests := []struct {
		name string
		a, b Polygon
	}{
		{"ccw and cw", R(0, 0, 10, 10).Polygon(), R(5, 0, 15, 10).Polygon().Reversed()},
		{"both cw", R(0, 0, 10, 10).Polygon().Reversed(), R(5, 0, 15, 10).Polygon().Reversed()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Union([]Polygon{tt.a, tt.b})
			if len(got) != 1 {
				t.Fatalf("Union gave %d polygons, want 1", len(got))
			}
			if math.Abs(TotalArea(got)-150) > 1e-6 {
				t.Errorf("area = %v, want 150", TotalArea(got))
			}
		})
	}

	t.Run("offset of cw input grows", func(t *testing.T) {
		got := Offset([]Polygon{R(0, 0, 10, 10).Polygon().Reversed()}, 1, JoinMiter)
		if math.Abs(TotalArea(got)-144) > 1e-6 {
			t.Errorf("area = %v, want 144", TotalArea(got))
		}
	})
}

func TestUnionDisjoint(t *testing.T) {
	got := Union([]Polygon{R(0, 0, 1, 1).Polygon(), R(5, 5, 6, 6).Polygon()})
	if len(got) != 2 {
		t.Errorf("Union gave %d polygons, want 2", len(got))
	}
}

func TestDifferenceFracturesHoles(t *testing.T) {
	outer := R(0, 0, 10, 10).Polygon()
	inner := R(3, 3, 7, 7).Polygon()
	got := Difference([]Polygon{outer}, []Polygon{inner})

	if len(got) == 0 {
		t.Fatal("Difference returned nothing")
	}
	if math.Abs(TotalArea(got)-84) > 1e-6 {
		t.Errorf("area = %v, want 84", TotalArea(got))
	}
	for _, p := range got {
		if !p.IsCCW() {
			t.Errorf("polygon %v is not counter-clockwise", p)
		}
		if p.Contains(Pt(5, 5)) {
			t.Errorf("polygon %v covers the hole centre", p)
		}
	}
}

func TestIntersectionAndXor(t *testing.T) {
	a := []Polygon{R(0, 0, 4, 4).Polygon()}
	b := []Polygon{R(2, 2, 6, 6).Polygon()}

	if got := TotalArea(Intersection(a, b)); math.Abs(got-4) > 1e-6 {
		t.Errorf("Intersection area = %v, want 4", got)
	}
	if got := TotalArea(Xor(a, b)); math.Abs(got-24) > 1e-6 {
		t.Errorf("Xor area = %v, want 24", got)
	}
	if got := Intersection(nil, b); len(got) != 0 {
		t.Errorf("Intersection with empty subject = %v", got)
	}
}

func TestOffset(t *testing.T) {
	sq := []Polygon{R(0, 0, 10, 10).Polygon()}

	t.Run("miter grows to a square", func(t *testing.T) {
		got := Offset(sq, 1, JoinMiter)
		bb := BBoxOf(got)
		if !bb.Min.Eq(Pt(-1, -1), 1e-6) || !bb.Max.Eq(Pt(11, 11), 1e-6) {
			t.Errorf("bbox = %+v", bb)
		}
		if math.Abs(TotalArea(got)-144) > 1e-3 {
			t.Errorf("area = %v, want 144", TotalArea(got))
		}
	})

	t.Run("round corners", func(t *testing.T) {
		got := Offset(sq, 1, JoinRound)
		want := 100 + 4*10 + math.Pi
		if math.Abs(TotalArea(got)-want) > 0.05 {
			t.Errorf("area = %v, want about %v", TotalArea(got), want)
		}
	})

	t.Run("shrink", func(t *testing.T) {
		got := Offset(sq, -2, JoinMiter)
		if math.Abs(TotalArea(got)-36) > 1e-3 {
			t.Errorf("area = %v, want 36", TotalArea(got))
		}
	})
}

func TestSnap(t *testing.T) {
	if got := Snap(1.23456); got != 1.235 {
		t.Errorf("Snap = %v, want 1.235", got)
	}
}
