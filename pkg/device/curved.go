package device

import (
	"fmt"
	"math"

	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// arcSegments is the vertex density (per full circle) of curved fingers.
const arcSegments = 128

// CurvedIDT builds an IDT whose fingers are concentric arcs. The focal point
// sits below the array so the innermost finger's chord spans the straight
// finger region (ElectrodeLength + EndMargin) between the buses at y = origin.Y.
// Curvature is that chord divided by the inner radius; zero degrades to a
// straight IDT. The curved variant is not fed by pads.
func CurvedIDT(s Spec) (*Device, error) {
	c := s.IDT.Curvature
	if c == 0 {
		s.Kind = KindStraightIDT
		d, err := StraightIDT(s)
		if d != nil {
			d.Spec.Kind = KindCurvedIDT
		}
		return d, err
	}

	name := s.CellName()
	x0, y0 := s.Origin.X, s.Origin.Y
	chord := s.IDT.ElectrodeLength + s.IDT.EndMargin
	r0 := chord / c
	phi := math.Asin(c/2) * 180 / math.Pi
	center := geom.Pt(x0+s.IDT.BusWidth+chord/2, y0-r0*math.Cos(phi*math.Pi/180))

	pitch := s.IDT.ElectrodeWidth + s.IDT.ElectrodeSeparation
	var polys []geom.Polygon
	for i := 0; i < s.IDT.ElectrodeNumber; i++ {
		rIn := r0 + float64(i)*pitch
		rOut := rIn + s.IDT.ElectrodeWidth
		trim := s.IDT.EndMargin / ((rIn + rOut) / 2) * 180 / math.Pi
		lo, hi := 90-phi, 90+phi
		// Even fingers leave the left bus (larger angle), odd ones the right.
		if i%2 == 0 {
			lo += trim
		} else {
			hi -= trim
		}
		if hi <= lo {
			return nil, fmt.Errorf("curved finger %d: end margin %g leaves no electrode", i, s.IDT.EndMargin)
		}
		polys = append(polys, layout.ArcPolygon(center, rIn, rOut, lo, hi, arcSegments))
	}

	rMax := r0 + BusLength(s.IDT)
	busSpan := s.IDT.BusWidth / r0 * 180 / math.Pi
	polys = append(polys,
		layout.ArcPolygon(center, r0, rMax, 90+phi, 90+phi+busSpan, arcSegments),
		layout.ArcPolygon(center, r0, rMax, 90-phi-busSpan, 90-phi, arcSegments),
	)

	metalCell := layout.New(name + "_metal")
	metalCell.AddPolygons(metal, geom.Union(polys))

	bb := metalCell.BBox()
	label := fmt.Sprintf("Elec num = %d\nElec w = %s\nCurvature = %s",
		s.IDT.ElectrodeNumber, num(s.IDT.ElectrodeWidth), num(c))
	return finish(s, name, metalCell, label, geom.Pt(bb.Min.X, math.Min(y0, bb.Min.Y)-15), nil)
}
