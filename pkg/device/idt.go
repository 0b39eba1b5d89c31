package device

import (
	"fmt"

	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

var metal = layout.LayerMetal

// BusLength is the extent of the finger stack: n fingers of width w separated by s.
func BusLength(idt IDTParams) float64 {
	return float64(idt.ElectrodeNumber)*(idt.ElectrodeWidth+idt.ElectrodeSeparation) - idt.ElectrodeSeparation
}

// Fingers returns the electrode rectangles. Electrode i starts at the inner
// edge of the left bus; odd electrodes are shifted right by EndMargin so they
// touch the right bus instead.
func Fingers(origin geom.Point, idt IDTParams) []geom.Polygon {
	out := make([]geom.Polygon, 0, idt.ElectrodeNumber)
	for i := 0; i < idt.ElectrodeNumber; i++ {
		x1 := origin.X + idt.BusWidth
		y1 := origin.Y + float64(i)*(idt.ElectrodeWidth+idt.ElectrodeSeparation)
		if i%2 == 1 {
			x1 += idt.EndMargin
		}
		out = append(out, geom.R(x1, y1, x1+idt.ElectrodeLength, y1+idt.ElectrodeWidth).Polygon())
	}
	return out
}

// mirrorAxis is the x coordinate of the vertical line the feed is mirrored
// across: the centre of the finger region.
func mirrorAxis(s Spec) float64 {
	return s.Origin.X + s.IDT.BusWidth + (s.IDT.ElectrodeLength+s.IDT.EndMargin)/2
}

// pad returns the contact pad cell with a downward-facing pad_port at its
// bottom-left arm position.
func pad(name string, s Spec, origin geom.Point) (*layout.Component, error) {
	c := layout.New(name)
	c.AddRect(metal, geom.R(origin.X, origin.Y, origin.X+s.Pad.Width, origin.Y+s.Pad.Height))
	err := c.AddPort(layout.Port{
		Name:        "pad_port",
		Center:      geom.Pt(origin.X+s.Pad.ArmWidth/2, origin.Y),
		Width:       s.Pad.ArmWidth,
		Orientation: 270,
		Layer:       metal,
	})
	return c, err
}

// mirroredPair places half twice, the second copy mirrored across the IDT centre line.
func mirroredPair(name string, s Spec, half *layout.Component) *layout.Component {
	c := layout.New(name)
	c.Add(half)
	x := mirrorAxis(s)
	c.Add(half).Mirror(geom.Pt(x, 0), geom.Pt(x, 1))
	return c
}

// StraightIDT builds an IDT with straight fingers fed from two contact pads
// through L-shaped arms.
func StraightIDT(s Spec) (*Device, error) {
	name := s.CellName()
	x0, y0 := s.Origin.X, s.Origin.Y
	l := BusLength(s.IDT)
	arm := s.Pad.ArmWidth

	half := layout.New(name + "_pad_and_bus")
	half.AddRect(metal, geom.R(x0, y0, x0+s.IDT.BusWidth, y0+l))
	busPort := layout.Port{Name: "bus_port", Center: geom.Pt(x0, y0+l/2), Width: arm, Orientation: 180, Layer: metal}
	if err := half.AddPort(busPort); err != nil {
		return nil, err
	}

	padOrigin := geom.Pt(x0-s.Pad.Width/2, y0+2*l)
	p, err := pad(name+"_pad", s, padOrigin)
	if err != nil {
		return nil, err
	}
	padRef := half.Add(p)
	route, err := layout.Route(busPort, padRef.MustPort("pad_port"), arm)
	if err != nil {
		return nil, fmt.Errorf("route %s: %w", name, err)
	}
	half.Add(route)

	fingers := layout.New(name + "_electrodes")
	fingers.AddPolygons(metal, Fingers(s.Origin, s.IDT))

	all := layout.New(name + "_metal")
	all.Add(mirroredPair(name+"_pair", s, half))
	all.Add(fingers)
	metalCell := layout.Union(all, metal)

	var windows []geom.Polygon
	if s.windowsEnabled() {
		windows = EtchWindows(s.Origin, l, arm, s.IDT, s.Etch)
	}

	label := fmt.Sprintf("Elec num = %d\nElec w = %s\nElec gap = %s",
		s.IDT.ElectrodeNumber, num(s.IDT.ElectrodeWidth), num(s.IDT.ElectrodeSeparation))
	return finish(s, name, metalCell, label, geom.Pt(padOrigin.X, y0-15), windows)
}
