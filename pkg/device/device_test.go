package device

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

const tol = 1e-2

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func covered(polys []geom.Polygon, p geom.Point) bool {
	for _, poly := range polys {
		if poly.Contains(p) {
			return true
		}
	}
	return false
}

func mustBuild(t *testing.T, s Spec) *Device {
	t.Helper()
	d, err := Build(s)
	if err != nil {
		t.Fatalf("Build(%s) error = %v", s.Kind, err)
	}
	return d
}

func TestBusLength(t *testing.T) {
	idt := IDTParams{ElectrodeNumber: 100, ElectrodeWidth: 0.25, ElectrodeSeparation: 0.25}
	if got := BusLength(idt); !near(got, 49.75, 1e-9) {
		t.Errorf("BusLength = %v, want 49.75", got)
	}
}

func TestFingers(t *testing.T) {
	idt := defaultIDT()
	idt.ElectrodeNumber = 4
	f := Fingers(geom.Pt(10, 5), idt)
	if len(f) != 4 {
		t.Fatalf("got %d fingers, want 4", len(f))
	}
	even, odd := f[0].BBox(), f[1].BBox()
	if even.Min.X != 30 || even.Min.Y != 5 {
		t.Errorf("finger 0 starts at %v, want (30, 5)", even.Min)
	}
	if odd.Min.X != 40 || !near(odd.Min.Y, 5.5, 1e-9) {
		t.Errorf("finger 1 starts at %v, want (40, 5.5)", odd.Min)
	}
	if even.Width() != 60 || odd.Height() != 0.25 {
		t.Errorf("finger size = %vx%v", even.Width(), odd.Height())
	}
}

func TestCellName(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindStraightIDT, "idt_n100_w0p25_g0p25"},
		{KindFlatCMR, "cmr_n40_w0p25_g0p25_t5"},
		{KindCurvedIDT, "cidt_n100_w0p25_c1"},
		{KindUndercutRings, "rings_r20_s20"},
		{KindAlignmentMark, "mark_l100_w5"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := DefaultSpec(tt.kind).CellName(); got != tt.want {
				t.Errorf("CellName() = %q, want %q", got, tt.want)
			}
		})
	}

	s := DefaultSpec(KindStraightIDT)
	s.Name = "my device-1.5"
	if got := s.CellName(); got != "my_devicem1p5" {
		t.Errorf("explicit name = %q", got)
	}
}

func TestSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Spec)
		kind   Kind
	}{
		{"unknown kind", func(s *Spec) { s.Kind = "blob" }, KindStraightIDT},
		{"one electrode", func(s *Spec) { s.IDT.ElectrodeNumber = 1 }, KindStraightIDT},
		{"zero width", func(s *Spec) { s.IDT.ElectrodeWidth = 0 }, KindStraightIDT},
		{"negative margin", func(s *Spec) { s.IDT.EndMargin = -1 }, KindStraightIDT},
		{"bad resist", func(s *Spec) { s.Etch.Resist = "maybe" }, KindStraightIDT},
		{"bus shorter than arm", func(s *Spec) { s.IDT.ElectrodeNumber = 10 }, KindStraightIDT},
		{"tether wider than arm", func(s *Spec) { s.Tether.Width = 20 }, KindFlatCMR},
		{"no taper", func(s *Spec) { s.Tether.TaperLength = 0 }, KindFlatCMR},
		{"curvature too large", func(s *Spec) { s.IDT.Curvature = 2.5 }, KindCurvedIDT},
		{"no rings", func(s *Spec) { s.Rings.Widths = nil }, KindUndercutRings},
		{"rings too close", func(s *Spec) { s.Rings.Spacing = 5 }, KindUndercutRings},
		{"fat marker", func(s *Spec) { s.Marker.Width = 100 }, KindAlignmentMark},
		{"zero label", func(s *Spec) { s.Label.Size = 0 }, KindAlignmentMark},
		{"too many electrodes", func(s *Spec) { s.IDT.ElectrodeNumber = MaxElectrodes + 1 }, KindFlatCMR},
		{"too many ring segments", func(s *Spec) { s.Rings.Segments = MaxRingSegments + 1 }, KindUndercutRings},
		{"too many rings", func(s *Spec) { s.Rings.Widths = make([]float64, MaxRings+1) }, KindUndercutRings},
		{"flat curved idt without pad", func(s *Spec) { s.IDT.Curvature = 0; s.Pad.Width = 0 }, KindCurvedIDT},
		{"flat curved idt with short bus", func(s *Spec) { s.IDT.Curvature = 0; s.IDT.ElectrodeNumber = 10 }, KindCurvedIDT},
		{"covered marker", func(s *Spec) { s.Etch.Resist = ResistCover }, KindAlignmentMark},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSpec(tt.kind)
			tt.mutate(&s)
			err := s.Validate()
			if !errors.IsValidation(err) {
				t.Errorf("Validate() = %v, want validation error", err)
			}
		})
	}

	for _, k := range Kinds() {
		if err := DefaultSpec(k).Validate(); err != nil {
			t.Errorf("DefaultSpec(%s).Validate() = %v", k, err)
		}
	}
	flat := DefaultSpec(KindCurvedIDT)
	flat.IDT.Curvature = 0
	if err := flat.Validate(); err != nil {
		t.Errorf("zero-curvature IDT: %v", err)
	}
	s := DefaultSpec(KindStraightIDT)
	s.IDT.ElectrodeNumber = MaxElectrodes
	if err := s.Validate(); err != nil {
		t.Errorf("electrode_number at the limit: %v", err)
	}
}

func TestFloatNum(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{20, "20.0"},
		{1, "1.0"},
		{0.5, "0.5"},
		{12.5, "12.5"},
		{-3, "-3.0"},
	}
	for _, tt := range tests {
		if got := floatNum(tt.v); got != tt.want {
			t.Errorf("floatNum(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestSpecSet(t *testing.T) {
	s := DefaultSpec(KindFlatCMR)
	if err := s.Set("electrode_number", 20); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("tether_width", 3); err != nil {
		t.Fatal(err)
	}
	if s.IDT.ElectrodeNumber != 20 || s.Tether.Width != 3 {
		t.Errorf("Set did not apply: %+v %+v", s.IDT, s.Tether)
	}
	if err := s.Set("electrode_number", 2.5); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("fractional electrode_number error = %v", err)
	}
	if err := s.Set("colour", 1); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("unknown param error = %v", err)
	}
	params := SweepParams()
	if params[0] != "arm_width" || len(params) != len(setters)+1 {
		t.Errorf("SweepParams() = %v", params)
	}
}

func TestTetherLength(t *testing.T) {
	s := DefaultSpec(KindFlatCMR)
	if got := s.TetherLength(); got != s.Etch.WindowGap {
		t.Errorf("default tether length = %v, want window gap %v", got, s.Etch.WindowGap)
	}
	s.Tether.Length = 12
	if got := s.TetherLength(); got != 12 {
		t.Errorf("tether length = %v, want 12", got)
	}
}

func TestEtchWindows(t *testing.T) {
	s := DefaultSpec(KindStraightIDT)
	l := BusLength(s.IDT)
	w := EtchWindows(s.Origin, l, s.Pad.ArmWidth, s.IDT, s.Etch)
	if len(w) != 2 {
		t.Fatalf("got %d windows, want upper and lower", len(w))
	}
	// bar 122x5 plus two 5x17.375 legs, twice
	if got := geom.TotalArea(w); !near(got, 1567.5, tol) {
		t.Errorf("window area = %v, want 1567.5", got)
	}
	bb := geom.BBoxOf(w)
	want := geom.R(-6, -6, 116, l+6)
	if !bb.Min.Eq(want.Min, tol) || !bb.Max.Eq(want.Max, tol) {
		t.Errorf("window bbox = %v, want %v", bb, want)
	}
	// The feed passes between the legs.
	if covered(w, geom.Pt(-3, l/2)) {
		t.Error("window covers the feed")
	}
}

func TestStraightIDT(t *testing.T) {
	s := DefaultSpec(KindStraightIDT)
	d := mustBuild(t, s)

	if d.Cell != "idt_n100_w0p25_g0p25" || d.Component.Name != d.Cell {
		t.Errorf("cell = %q, component = %q", d.Cell, d.Component.Name)
	}
	if d.Label != "Elec num = 100\nElec w = 0.25\nElec gap = 0.25" {
		t.Errorf("label = %q", d.Label)
	}

	var metalCell *layout.Component
	names := map[string]bool{}
	for _, r := range d.Component.References() {
		names[r.Cell.Name] = true
		if r.Cell.Name == d.Cell+"_metal" {
			metalCell = r.Cell
		}
	}
	for _, n := range []string{"_metal", "_label", "_resist"} {
		if !names[d.Cell+n] {
			t.Errorf("missing child %s%s in %v", d.Cell, n, names)
		}
	}
	if metalCell == nil {
		t.Fatal("no metal cell")
	}

	l := BusLength(s.IDT)
	bb := metalCell.BBox()
	want := geom.R(-50, 0, 160, 2*l+50)
	if !bb.Min.Eq(want.Min, tol) || !bb.Max.Eq(want.Max, tol) {
		t.Errorf("metal bbox = %v, want %v", bb, want)
	}

	metal := metalCell.Polygons(layout.LayerMetal)
	for _, p := range []geom.Point{
		geom.Pt(10, l/2),   // left bus
		geom.Pt(100, l/2),  // right bus
		geom.Pt(-40, l/2),  // arm leaving the bus
		geom.Pt(-42.5, l),  // arm rising to the pad
		geom.Pt(0, 2*l+25), // pad
		geom.Pt(50, 0.125), // finger 0
		geom.Pt(50, 0.625), // finger 1
		geom.Pt(152.5, l),  // mirrored arm
	} {
		if !covered(metal, p) {
			t.Errorf("metal does not cover %v", p)
		}
	}
	if covered(metal, geom.Pt(50, 0.375)) {
		t.Error("metal fills the finger gap")
	}

	resist := d.Component.Polygons(layout.LayerResist)
	if len(resist) == 0 {
		t.Fatal("no resist")
	}
	rb := geom.BBoxOf(resist)
	if rb.Min.Y > -15 || rb.Max.X < 160+s.Etch.ResistMargin-tol {
		t.Errorf("resist bbox %v does not cover device and label", rb)
	}
	if covered(resist, geom.Pt(-3.5, l-1)) {
		t.Error("resist covers the etch window")
	}

	labels := d.Component.Labels()
	if len(labels) != 1 || !strings.Contains(labels[0].Text, "; ") {
		t.Errorf("labels = %+v", labels)
	}
}

func TestStraightIDTResistModes(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Spec)
		resist   bool
		windowed bool
	}{
		{"cover without undercut", func(s *Spec) { s.Etch.Undercut = false }, true, false},
		{"windows", func(s *Spec) { s.Etch.Resist = ResistWindows }, true, true},
		{"none", func(s *Spec) { s.Etch.Resist = ResistNone }, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSpec(KindStraightIDT)
			tt.mutate(&s)
			d := mustBuild(t, s)
			resist := d.Component.Polygons(layout.LayerResist)
			if (len(resist) > 0) != tt.resist {
				t.Fatalf("resist polygons = %d, want present=%v", len(resist), tt.resist)
			}
			if tt.windowed && !near(geom.TotalArea(resist), 1567.5, tol) {
				t.Errorf("windows area = %v", geom.TotalArea(resist))
			}
			if tt.name == "cover without undercut" && !covered(resist, geom.Pt(-3.5, BusLength(s.IDT)-1)) {
				t.Error("cover has a hole although undercut is off")
			}
		})
	}
}

func TestFlatCMR(t *testing.T) {
	s := DefaultSpec(KindFlatCMR)
	d := mustBuild(t, s)

	if d.Label != "Pair num = 20.0\nPeriod = 1.0\nTether w = 7" {
		t.Errorf("label = %q", d.Label)
	}

	l := BusLength(s.IDT)
	metal := d.Component.Polygons(layout.LayerMetal)
	for _, p := range []geom.Point{
		geom.Pt(2.5, l/2),   // bus
		geom.Pt(-2.5, l/2),  // tether
		geom.Pt(-15, l/2),   // taper
		geom.Pt(-40, l/2),   // arm
		geom.Pt(-67.5, l),   // arm rising to the pad
		geom.Pt(-60, 2*l+1), // pad
	} {
		if !covered(metal, p) {
			t.Errorf("metal does not cover %v", p)
		}
	}
	// The tether is narrower than the arm.
	if covered(metal, geom.Pt(-2.5, l/2+3)) {
		t.Error("tether is wider than configured")
	}
	if !covered(metal, geom.Pt(-24, l/2+7)) {
		t.Error("taper does not reach the arm width")
	}

	resist := d.Component.Polygons(layout.LayerResist)
	if len(resist) != 2 {
		t.Fatalf("resist polygons = %d, want 2 windows", len(resist))
	}
	// bar 92x5 plus two 5x7.375 legs, twice
	if got := geom.TotalArea(resist); !near(got, 1067.5, tol) {
		t.Errorf("window area = %v, want 1067.5", got)
	}
}

func TestCurvedIDT(t *testing.T) {
	s := DefaultSpec(KindCurvedIDT)
	d := mustBuild(t, s)

	if d.Label != "Elec num = 100\nElec w = 0.25\nCurvature = 1" {
		t.Errorf("label = %q", d.Label)
	}

	r0 := 70.0
	cy := -r0 * math.Cos(math.Pi/6)
	metal := d.Component.Polygons(layout.LayerMetal)
	// innermost finger at its apex, and the gap beyond it
	if !covered(metal, geom.Pt(55, cy+r0+0.125)) {
		t.Error("finger 0 apex missing")
	}
	if covered(metal, geom.Pt(55, cy+r0+0.375)) {
		t.Error("gap between fingers 0 and 1 is filled")
	}

	bb := geom.BBoxOf(metal)
	if bb.Width() > 200 {
		t.Errorf("curved IDT metal is %v wide, expected no pads", bb.Width())
	}
	if len(d.Component.Polygons(layout.LayerResist)) == 0 {
		t.Error("curved IDT has no resist cover")
	}

	s.IDT.Curvature = 0
	flat := mustBuild(t, s)
	if flat.Spec.Kind != KindCurvedIDT || !strings.HasPrefix(flat.Cell, "idt_") {
		t.Errorf("zero curvature: kind %s, cell %s", flat.Spec.Kind, flat.Cell)
	}
}

func TestUndercutRings(t *testing.T) {
	s := DefaultSpec(KindUndercutRings)
	d := mustBuild(t, s)

	for i := 1; i <= 5; i++ {
		if !strings.Contains(d.Label, "R"+string(rune('0'+i))+" w = "+string(rune('0'+i))) {
			t.Errorf("label %q is missing ring %d", d.Label, i)
		}
	}

	var want float64
	r := s.Rings.InnerRadius
	for _, w := range s.Rings.Widths {
		want += math.Pi * ((r+w)*(r+w) - r*r)
		r += w + s.Rings.Spacing
	}
	metal := d.Component.Polygons(layout.LayerMetal)
	labelArea := 0.0
	for _, ref := range d.Component.References() {
		if strings.HasSuffix(ref.Cell.Name, "_label") {
			labelArea = geom.TotalArea(ref.Cell.Polygons(layout.LayerMetal))
		}
	}
	if got := geom.TotalArea(metal) - labelArea; math.Abs(got-want)/want > 0.01 {
		t.Errorf("ring area = %v, want ~%v", got, want)
	}
	// the second ring spans radius 41..43
	if !covered(metal, geom.Pt(42, 0)) || covered(metal, geom.Pt(30, 0)) {
		t.Error("ring placement is off")
	}

	resist := d.Component.Polygons(layout.LayerResist)
	// first window spans 21+1 .. 21+1+5
	if !covered(resist, geom.Pt(0, 24.5)) || covered(resist, geom.Pt(0, 21.5)) {
		t.Error("etch window placement is off")
	}
}

func TestAlignmentMark(t *testing.T) {
	s := DefaultSpec(KindAlignmentMark)
	s.Origin = geom.Pt(500, -500)
	d := mustBuild(t, s)

	metal := d.Component.Polygons(layout.LayerMetal)
	if got := geom.TotalArea(metal); !near(got, 975, tol) {
		t.Errorf("cross area = %v, want 975", got)
	}
	if !covered(metal, geom.Pt(540, -500)) || covered(metal, geom.Pt(520, -520)) {
		t.Error("cross is not centred on the origin")
	}
	resist := d.Component.Polygons(layout.LayerResist)
	if got := geom.TotalArea(resist); !near(got, 140*140, tol) {
		t.Errorf("clearance area = %v, want %v", got, 140*140)
	}
	if d.Label != "" || d.Component.Labels()[0].Text != d.Cell {
		t.Errorf("unlabelled mark: label %q, text labels %+v", d.Label, d.Component.Labels())
	}
}

func TestChip(t *testing.T) {
	specs := []Spec{
		DefaultSpec(KindStraightIDT),
		DefaultSpec(KindFlatCMR),
		DefaultSpec(KindUndercutRings),
	}
	p := DefaultChip()
	p.Columns = 2
	chip, devices, err := Chip(specs, p)
	if err != nil {
		t.Fatal(err)
	}
	if len(devices) != 3 {
		t.Fatalf("got %d devices", len(devices))
	}
	if chip.Name != "chip" {
		t.Errorf("chip name = %q", chip.Name)
	}
	// array, four marks, label
	if n := len(chip.References()); n != 6 {
		t.Errorf("chip has %d references, want 6", n)
	}

	arrayBB := chip.References()[0].BBox()
	if !chip.BBox().Contains(arrayBB.Min) || chip.BBox().Width() <= arrayBB.Width()+2*p.Spacing {
		t.Errorf("marks do not surround the array: chip %v, array %v", chip.BBox(), arrayBB)
	}

	if _, _, err := Chip(nil, p); !errors.Is(err, errors.ErrCodeInvalidDesign) {
		t.Errorf("empty chip error = %v", err)
	}
	bad := DefaultSpec(KindStraightIDT)
	bad.IDT.ElectrodeWidth = -1
	if _, _, err := Chip([]Spec{bad}, p); !errors.Is(err, errors.ErrCodeInvalidParam) {
		t.Errorf("bad device error = %v", err)
	}
}
