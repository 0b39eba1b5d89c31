package gds

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

const (
	DefaultUserUnit = 1e-6 // 1 µm
	DefaultDBUnit   = 1e-9 // 1 nm
)

// Epoch is the modification time written when Library.Timestamp is zero.
// A fixed value keeps output byte-identical across runs.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Library is an in-memory GDSII library. Coordinates are in user units.
type Library struct {
	Name      string
	UserUnit  float64 // metres per user unit
	DBUnit    float64 // metres per database unit
	Timestamp time.Time
	Cells     []*Cell // children before parents
}

// Cell is a GDSII structure.
type Cell struct {
	Name       string
	Boundaries []Boundary
	Refs       []SRef
	Texts      []Text
}

// Boundary is a closed polygon. XY does not repeat the first point.
type Boundary struct {
	Layer layout.Layer
	XY    geom.Polygon
}

// SRef places another cell. The referenced cell is reflected about the x
// axis (if Reflect), magnified by Mag, rotated by Angle degrees, then moved
// to Origin. A zero Mag means 1.
type SRef struct {
	Name    string
	Origin  geom.Point
	Angle   float64
	Reflect bool
	Mag     float64
}

// Text is a GDSII TEXT element.
type Text struct {
	Layer    layout.Layer
	Position geom.Point
	String   string
}

// NewLibrary returns a library with the default µm / nm units.
func NewLibrary(name string) *Library {
	return &Library{Name: name, UserUnit: DefaultUserUnit, DBUnit: DefaultDBUnit}
}

// Cell returns the named cell, or nil.
func (l *Library) Cell(name string) *Cell {
	for _, c := range l.Cells {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// TopCells returns cells that no other cell references, in library order.
func (l *Library) TopCells() []*Cell {
	used := make(map[string]bool)
	for _, c := range l.Cells {
		for _, r := range c.Refs {
			used[r.Name] = true
		}
	}
	var out []*Cell
	for _, c := range l.Cells {
		if !used[c.Name] {
			out = append(out, c)
		}
	}
	return out
}

// Transform returns the SRef placement as an affine transform.
func (r SRef) Transform() geom.Transform {
	t := geom.Identity()
	if r.Reflect {
		t = geom.MirrorY(0)
	}
	if r.Mag != 0 && r.Mag != 1 {
		t = t.Then(geom.Scale(r.Mag))
	}
	return t.Then(geom.Rotate(r.Angle, geom.Point{})).Then(geom.Translate(r.Origin.X, r.Origin.Y))
}

// FromComponent converts a component hierarchy into a library. Cell names are
// sanitized for GDSII and made unique with a "$n" suffix when two distinct
// components share a name.
func FromComponent(top *layout.Component, libName string) (*Library, error) {
	lib := NewLibrary(libName)
	cells := top.Cells()
	names := uniqueNames(cells)

	for _, comp := range cells {
		cell := &Cell{Name: names[comp]}
		for _, l := range comp.LocalLayers() {
			if err := l.Validate(); err != nil {
				return nil, err
			}
			for _, p := range comp.LocalPolygons(l) {
				if len(p) > MaxVertices {
					return nil, errors.New(errors.ErrCodeGeometry,
						"cell %s: polygon on layer %s has %d vertices (max %d)", cell.Name, l, len(p), MaxVertices)
				}
				cell.Boundaries = append(cell.Boundaries, Boundary{Layer: l, XY: p})
			}
		}
		for _, r := range comp.References() {
			t := r.Transform
			cell.Refs = append(cell.Refs, SRef{
				Name:    names[r.Cell],
				Origin:  t.Offset(),
				Angle:   t.RotationDeg(),
				Reflect: t.IsMirrored(),
				Mag:     t.Mag(),
			})
		}
		for _, lb := range comp.Labels() {
			cell.Texts = append(cell.Texts, Text{Layer: lb.Layer, Position: lb.Position, String: lb.Text})
		}
		lib.Cells = append(lib.Cells, cell)
	}
	return lib, nil
}

func uniqueNames(cells []*layout.Component) map[*layout.Component]string {
	out := make(map[*layout.Component]string, len(cells))
	used := make(map[string]int)
	for _, c := range cells {
		base := errors.SanitizeCellName(c.Name)
		name := base
		if n, ok := used[base]; ok {
			for {
				n++
				suffix := fmt.Sprintf("$%d", n)
				name = base
				if len(name)+len(suffix) > errors.MaxCellNameLength {
					name = name[:errors.MaxCellNameLength-len(suffix)]
				}
				name += suffix
				if _, taken := used[name]; !taken {
					break
				}
			}
			used[base] = n
		}
		used[name] = 0
		out[c] = name
	}
	return out
}

// ToComponent rebuilds the component hierarchy rooted at the named cell, or
// at the last top cell when name is empty.
func (l *Library) ToComponent(name string) (*layout.Component, error) {
	if name == "" {
		tops := l.TopCells()
		if len(tops) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "library %s has no top cell", l.Name)
		}
		name = tops[len(tops)-1].Name
	}
	built := make(map[string]*layout.Component)
	var build func(string, int) (*layout.Component, error)
	build = func(n string, depth int) (*layout.Component, error) {
		if c, ok := built[n]; ok {
			return c, nil
		}
		if depth > len(l.Cells) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "reference cycle through cell %s", n)
		}
		cell := l.Cell(n)
		if cell == nil {
			return nil, errors.New(errors.ErrCodeNotFound, "cell %s not found", n)
		}
		c := layout.New(cell.Name)
		for _, b := range cell.Boundaries {
			c.AddPolygon(b.Layer, b.XY...)
		}
		for _, t := range cell.Texts {
			c.AddLabel(t.String, t.Position, t.Layer)
		}
		for _, r := range cell.Refs {
			child, err := build(r.Name, depth+1)
			if err != nil {
				return nil, err
			}
			c.Add(child).Transform = r.Transform()
		}
		built[n] = c
		return c, nil
	}
	return build(name, 0)
}

// Stats summarises a library for inspection.
type Stats struct {
	Cells      int
	Boundaries int
	Refs       int
	Texts      int
	MaxPoints  int
	PerLayer   map[layout.Layer]int
	BBox       geom.Rect
}

// Stats counts elements over all cells. BBox covers the flattened top cell.
func (l *Library) Stats() Stats {
	s := Stats{Cells: len(l.Cells), PerLayer: make(map[layout.Layer]int), BBox: geom.EmptyRect()}
	for _, c := range l.Cells {
		s.Refs += len(c.Refs)
		s.Texts += len(c.Texts)
		for _, b := range c.Boundaries {
			s.Boundaries++
			s.PerLayer[b.Layer]++
			s.MaxPoints = max(s.MaxPoints, len(b.XY))
		}
	}
	if top, err := l.ToComponent(""); err == nil {
		s.BBox = top.BBox()
	}
	return s
}

func toDB(v, scale float64) (int32, error) {
	d := math.Round(v * scale)
	if d > math.MaxInt32 || d < math.MinInt32 {
		return 0, errors.New(errors.ErrCodeGeometry, "coordinate %g out of range", v)
	}
	return int32(d), nil
}
