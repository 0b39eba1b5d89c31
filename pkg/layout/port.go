package layout

import (
	"fmt"

	"github.com/matzehuels/maskgen/pkg/geom"
)

// Port is an oriented anchor point on a component edge. Orientation is the
// direction (in degrees, 0 = +x) in which a wire leaves the component.
type Port struct {
	Name        string     `json:"name"`
	Center      geom.Point `json:"center"`
	Width       float64    `json:"width"`
	Orientation float64    `json:"orientation"`
	Layer       Layer      `json:"layer"`
}

// Normal returns the unit vector pointing out of the port.
func (p Port) Normal() geom.Point { return geom.Unit(p.Orientation) }

// Transform returns p with t applied to its center and orientation.
func (p Port) Transform(t geom.Transform) Port {
	p.Center = t.Apply(p.Center)
	p.Orientation = t.ApplyAngle(p.Orientation)
	return p
}

// Endpoints returns the two ends of the port edge.
func (p Port) Endpoints() (geom.Point, geom.Point) {
	half := p.Normal().Rotate(90).Scale(p.Width / 2)
	return p.Center.Sub(half), p.Center.Add(half)
}

func (p Port) String() string {
	return fmt.Sprintf("%s@%v w=%g o=%g", p.Name, p.Center, p.Width, p.Orientation)
}
