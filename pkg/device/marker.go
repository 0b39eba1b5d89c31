package device

import (
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// AlignmentMark builds a metal cross centred on s.Origin with a square
// clearance window on the resist layer. Cover mode is rejected by Validate.
func AlignmentMark(s Spec) (*Device, error) {
	name := s.CellName()
	m := s.Marker

	cross := layout.Cross(m.Length, m.Width, metal)
	metalCell := layout.New(name + "_metal")
	for _, p := range cross.Polygons(metal) {
		metalCell.AddPolygons(metal, []geom.Polygon{p.Translate(s.Origin.X, s.Origin.Y)})
	}

	clearance := []geom.Polygon{metalCell.BBox().Expand(m.Clearance).Polygon()}

	half := m.Length/2 + m.Clearance
	pos := geom.Pt(s.Origin.X-half, s.Origin.Y-half-s.Label.Size-5)
	return finish(s, name, metalCell, m.Label, pos, clearance)
}
