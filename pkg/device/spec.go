package device

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/gds"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// Kind names a device builder.
type Kind string

const (
	KindStraightIDT   Kind = "straight-idt"
	KindFlatCMR       Kind = "flat-cmr"
	KindCurvedIDT     Kind = "curved-idt"
	KindUndercutRings Kind = "undercut-rings"
	KindAlignmentMark Kind = "alignment-mark"
)

// Kinds lists every supported device kind.
func Kinds() []Kind {
	return []Kind{KindStraightIDT, KindFlatCMR, KindCurvedIDT, KindUndercutRings, KindAlignmentMark}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidParam, "unknown device kind %q (want one of %s)", s, kindList())
}

func kindList() string {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// Size limits for a single device.
const (
	MaxElectrodes = 10000
	MaxRings      = 1000
	// A fractured ring half carries about one vertex per segment on each
	// edge, which must fit in one GDSII boundary.
	MaxRingSegments = gds.MaxVertices / 2
)

// Spec fully parameterises one device instance.
type Spec struct {
	Kind   Kind       `toml:"kind" json:"kind"`
	Name   string     `toml:"name" json:"name,omitempty"`
	Origin geom.Point `toml:"origin" json:"origin"`

	Pad    PadParams    `toml:"pad" json:"pad"`
	IDT    IDTParams    `toml:"idt" json:"idt"`
	Etch   EtchParams   `toml:"etch" json:"etch"`
	Tether TetherParams `toml:"tether" json:"tether"`
	Rings  RingParams   `toml:"rings" json:"rings"`
	Marker MarkerParams `toml:"marker" json:"marker"`
	Label  LabelParams  `toml:"label" json:"label"`
}

// DefaultSpec returns the reference parameters for kind.
func DefaultSpec(kind Kind) Spec {
	s := Spec{
		Kind:   kind,
		Pad:    defaultPad(),
		IDT:    defaultIDT(),
		Etch:   defaultEtch(),
		Tether: defaultTether(),
		Rings:  defaultRings(),
		Marker: defaultMarker(),
		Label:  LabelParams{Size: 5, Enabled: true},
	}
	switch kind {
	case KindFlatCMR:
		s.IDT.ElectrodeNumber = 40
		s.IDT.BusWidth = 5
		s.Etch.Resist = ResistWindows
	case KindCurvedIDT:
		s.IDT.Curvature = 1
	case KindUndercutRings, KindAlignmentMark:
		s.Etch.Resist = ResistWindows
	}
	return s
}

// TetherLength returns the effective tether length.
func (s Spec) TetherLength() float64 {
	if s.Tether.Length > 0 {
		return s.Tether.Length
	}
	return s.Etch.WindowGap
}

// Validate checks the parameters used by s.Kind.
func (s Spec) Validate() error {
	if _, err := ParseKind(string(s.Kind)); err != nil {
		return err
	}
	switch s.Etch.Resist {
	case ResistCover, ResistWindows, ResistNone:
	default:
		return errors.New(errors.ErrCodeInvalidParam, "resist mode must be cover, windows or none, got %q", s.Etch.Resist)
	}
	if s.Label.Enabled {
		if err := errors.ValidatePositive("label.size", s.Label.Size); err != nil {
			return err
		}
	}

	switch s.Kind {
	case KindStraightIDT, KindFlatCMR, KindCurvedIDT:
		if err := s.validateIDT(); err != nil {
			return err
		}
	case KindUndercutRings:
		return s.validateRings()
	case KindAlignmentMark:
		return s.validateMarker()
	}

	if s.Kind == KindCurvedIDT && (s.IDT.Curvature < 0 || s.IDT.Curvature > 2) {
		return errors.New(errors.ErrCodeInvalidParam, "curvature must be within [0, 2], got %g", s.IDT.Curvature)
	}
	if s.Kind == KindFlatCMR {
		if err := validatePositive(
			check{"tether.width", s.Tether.Width},
			check{"tether.taper_length", s.Tether.TaperLength},
			check{"tether.length", s.TetherLength()},
		); err != nil {
			return err
		}
		if s.Tether.Width > s.Pad.ArmWidth {
			return errors.New(errors.ErrCodeInvalidParam,
				"tether width %g exceeds arm width %g", s.Tether.Width, s.Pad.ArmWidth)
		}
	}
	if s.straight() && s.windowsEnabled() {
		if l, neck := BusLength(s.IDT), s.neckWidth(); l <= neck {
			return errors.New(errors.ErrCodeInvalidParam,
				"bus length %g must exceed the feed width %g to leave room for etch windows", l, neck)
		}
	}
	return nil
}

// straight reports whether the device is built as a pad-fed straight IDT,
// which includes a curved IDT with zero curvature.
func (s Spec) straight() bool {
	return s.Kind != KindCurvedIDT || s.IDT.Curvature == 0
}

// windowsEnabled reports whether etch windows are drawn on the resist layer.
func (s Spec) windowsEnabled() bool {
	return s.Etch.Undercut && s.Etch.Resist != ResistNone
}

// neckWidth is the width of the feed where it meets the bus: the tether for
// flat CMRs, the arm otherwise.
func (s Spec) neckWidth() float64 {
	if s.Kind == KindFlatCMR {
		return s.Tether.Width
	}
	return s.Pad.ArmWidth
}

func (s Spec) validateIDT() error {
	if n := s.IDT.ElectrodeNumber; n < 2 || n > MaxElectrodes {
		return errors.New(errors.ErrCodeInvalidParam, "electrode_number must be within [2, %d], got %d", MaxElectrodes, n)
	}
	checks := []check{
		{"idt.electrode_length", s.IDT.ElectrodeLength},
		{"idt.electrode_width", s.IDT.ElectrodeWidth},
		{"idt.electrode_separation", s.IDT.ElectrodeSeparation},
		{"idt.bus_width", s.IDT.BusWidth},
	}
	if s.straight() {
		checks = append(checks,
			check{"pad.width", s.Pad.Width},
			check{"pad.height", s.Pad.Height},
			check{"pad.arm_width", s.Pad.ArmWidth},
		)
	}
	if err := validatePositive(checks...); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("idt.end_margin", s.IDT.EndMargin); err != nil {
		return err
	}
	if s.Etch.Undercut || s.Etch.Resist == ResistCover {
		if err := errors.ValidateNonNegative("etch.buffer", s.Etch.Buffer); err != nil {
			return err
		}
		if err := errors.ValidatePositive("etch.window_gap", s.Etch.WindowGap); err != nil {
			return err
		}
	}
	return nil
}

type check struct {
	name string
	v    float64
}

func validatePositive(checks ...check) error {
	for _, c := range checks {
		if err := errors.ValidatePositive(c.name, c.v); err != nil {
			return err
		}
	}
	return nil
}

func (s Spec) validateRings() error {
	r := s.Rings
	if err := errors.ValidatePositive("rings.inner_radius", r.InnerRadius); err != nil {
		return err
	}
	if len(r.Widths) == 0 || len(r.Widths) > MaxRings {
		return errors.New(errors.ErrCodeInvalidParam, "rings.widths must hold 1 to %d rings, got %d", MaxRings, len(r.Widths))
	}
	if r.Segments > MaxRingSegments {
		return errors.New(errors.ErrCodeInvalidParam, "rings.segments must not exceed %d, got %d", MaxRingSegments, r.Segments)
	}
	for i, w := range r.Widths {
		if err := errors.ValidatePositive(fmt.Sprintf("rings.widths[%d]", i), w); err != nil {
			return err
		}
	}
	if err := errors.ValidatePositive("rings.spacing", r.Spacing); err != nil {
		return err
	}
	if s.windowsEnabled() && s.Etch.Buffer+s.Etch.WindowGap >= r.Spacing {
		return errors.New(errors.ErrCodeInvalidParam,
			"rings.spacing %g must exceed etch buffer + window gap (%g)", r.Spacing, s.Etch.Buffer+s.Etch.WindowGap)
	}
	return nil
}

func (s Spec) validateMarker() error {
	m := s.Marker
	if s.Etch.Resist == ResistCover {
		// The clearance square would be cut from a cover that is only a
		// resist margin larger than the cross, leaving no resist at all.
		return errors.New(errors.ErrCodeInvalidParam, "alignment marks support resist modes windows and none, got cover")
	}
	if err := errors.ValidatePositive("marker.length", m.Length); err != nil {
		return err
	}
	if err := errors.ValidatePositive("marker.width", m.Width); err != nil {
		return err
	}
	if m.Width >= m.Length {
		return errors.New(errors.ErrCodeInvalidParam, "marker width %g must be less than length %g", m.Width, m.Length)
	}
	return errors.ValidateNonNegative("marker.clearance", m.Clearance)
}

// setters maps sweepable parameter names to their fields.
var setters = map[string]func(*Spec, float64){
	"origin_x":             func(s *Spec, v float64) { s.Origin.X = v },
	"origin_y":             func(s *Spec, v float64) { s.Origin.Y = v },
	"pad_width":            func(s *Spec, v float64) { s.Pad.Width = v },
	"pad_height":           func(s *Spec, v float64) { s.Pad.Height = v },
	"arm_width":            func(s *Spec, v float64) { s.Pad.ArmWidth = v },
	"electrode_length":     func(s *Spec, v float64) { s.IDT.ElectrodeLength = v },
	"electrode_width":      func(s *Spec, v float64) { s.IDT.ElectrodeWidth = v },
	"electrode_separation": func(s *Spec, v float64) { s.IDT.ElectrodeSeparation = v },
	"end_margin":           func(s *Spec, v float64) { s.IDT.EndMargin = v },
	"bus_width":            func(s *Spec, v float64) { s.IDT.BusWidth = v },
	"curvature":            func(s *Spec, v float64) { s.IDT.Curvature = v },
	"window_gap":           func(s *Spec, v float64) { s.Etch.WindowGap = v },
	"etch_buffer":          func(s *Spec, v float64) { s.Etch.Buffer = v },
	"resist_margin":        func(s *Spec, v float64) { s.Etch.ResistMargin = v },
	"tether_width":         func(s *Spec, v float64) { s.Tether.Width = v },
	"tether_length":        func(s *Spec, v float64) { s.Tether.Length = v },
	"taper_length":         func(s *Spec, v float64) { s.Tether.TaperLength = v },
	"inner_radius":         func(s *Spec, v float64) { s.Rings.InnerRadius = v },
	"ring_spacing":         func(s *Spec, v float64) { s.Rings.Spacing = v },
	"marker_length":        func(s *Spec, v float64) { s.Marker.Length = v },
	"marker_width":         func(s *Spec, v float64) { s.Marker.Width = v },
	"clearance":            func(s *Spec, v float64) { s.Marker.Clearance = v },
	"label_size":           func(s *Spec, v float64) { s.Label.Size = v },
}

// SweepParams returns the parameter names accepted by Set, sorted.
func SweepParams() []string {
	names := []string{"electrode_number"}
	for k := range setters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Set assigns a sweepable parameter by name.
func (s *Spec) Set(name string, v float64) error {
	if name == "electrode_number" {
		if v != float64(int(v)) {
			return errors.New(errors.ErrCodeInvalidParam, "electrode_number must be an integer, got %g", v)
		}
		s.IDT.ElectrodeNumber = int(v)
		return nil
	}
	set, ok := setters[name]
	if !ok {
		return errors.New(errors.ErrCodeInvalidParam, "unknown sweep parameter %q", name)
	}
	set(s, v)
	return nil
}

// CellName returns the GDSII cell name for the device. An explicit Name wins;
// otherwise the name encodes the kind and its key parameters.
func (s Spec) CellName() string {
	if s.Name != "" {
		return errors.SanitizeCellName(s.Name)
	}
	var name string
	switch s.Kind {
	case KindStraightIDT:
		name = fmt.Sprintf("idt_n%d_w%s_g%s", s.IDT.ElectrodeNumber, num(s.IDT.ElectrodeWidth), num(s.IDT.ElectrodeSeparation))
	case KindFlatCMR:
		name = fmt.Sprintf("cmr_n%d_w%s_g%s_t%s", s.IDT.ElectrodeNumber, num(s.IDT.ElectrodeWidth),
			num(s.IDT.ElectrodeSeparation), num(s.Tether.Width))
	case KindCurvedIDT:
		name = fmt.Sprintf("cidt_n%d_w%s_c%s", s.IDT.ElectrodeNumber, num(s.IDT.ElectrodeWidth), num(s.IDT.Curvature))
	case KindUndercutRings:
		name = fmt.Sprintf("rings_r%s_s%s", num(s.Rings.InnerRadius), num(s.Rings.Spacing))
	case KindAlignmentMark:
		name = fmt.Sprintf("mark_l%s_w%s", num(s.Marker.Length), num(s.Marker.Width))
	default:
		name = string(s.Kind)
	}
	return errors.SanitizeCellName(name)
}

// num formats a parameter value the shortest way that round-trips.
func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// floatNum formats a derived quantity as a float: like num, but whole values
// keep a trailing ".0".
func floatNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e16 {
		return num(v) + ".0"
	}
	return num(v)
}

// Device is a built device instance.
type Device struct {
	Spec      Spec
	Cell      string
	Label     string // engraved label text, empty if none
	Component *layout.Component
}

// Build validates s and dispatches to the builder for s.Kind.
func Build(s Spec) (*Device, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	switch s.Kind {
	case KindStraightIDT:
		return StraightIDT(s)
	case KindFlatCMR:
		return FlatCMR(s)
	case KindCurvedIDT:
		return CurvedIDT(s)
	case KindUndercutRings:
		return UndercutRings(s)
	case KindAlignmentMark:
		return AlignmentMark(s)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "no builder for %s", s.Kind)
}
