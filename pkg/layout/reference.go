package layout

import (
	"github.com/matzehuels/maskgen/pkg/geom"
)

// Reference is a placed instance of a component.
type Reference struct {
	Cell      *Component
	Transform geom.Transform
}

// Move translates the reference.
func (r *Reference) Move(dx, dy float64) *Reference {
	r.Transform = r.Transform.Then(geom.Translate(dx, dy))
	return r
}

// MoveTo translates the reference so its bounding box lower-left corner lands on p.
func (r *Reference) MoveTo(p geom.Point) *Reference {
	bb := r.BBox()
	if bb.Empty() {
		return r
	}
	return r.Move(p.X-bb.Min.X, p.Y-bb.Min.Y)
}

// Mirror reflects the reference across the line through p1 and p2.
func (r *Reference) Mirror(p1, p2 geom.Point) *Reference {
	r.Transform = r.Transform.Then(geom.MirrorLine(p1, p2))
	return r
}

// Rotate rotates the reference counter-clockwise by deg about the point about.
func (r *Reference) Rotate(deg float64, about geom.Point) *Reference {
	r.Transform = r.Transform.Then(geom.Rotate(deg, about))
	return r
}

// Port returns the named port of the referenced cell in parent coordinates.
func (r *Reference) Port(name string) (Port, error) {
	p, err := r.Cell.Port(name)
	if err != nil {
		return Port{}, err
	}
	return p.Transform(r.Transform), nil
}

// MustPort is like Port but panics if the port does not exist. It is meant
// for ports a builder has just created itself.
func (r *Reference) MustPort(name string) Port {
	p, err := r.Port(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Ports returns all ports of the referenced cell in parent coordinates.
func (r *Reference) Ports() []Port {
	ports := r.Cell.Ports()
	for i := range ports {
		ports[i] = ports[i].Transform(r.Transform)
	}
	return ports
}

// Connect moves the reference so that its port faces dest: the port is
// rotated to point opposite dest and the port centers coincide.
func (r *Reference) Connect(port string, dest Port) error {
	p, err := r.Port(port)
	if err != nil {
		return err
	}
	angle := dest.Orientation + 180 - p.Orientation
	r.Rotate(angle, p.Center)
	d := dest.Center.Sub(p.Center)
	r.Move(d.X, d.Y)
	return nil
}

// BBox returns the bounding box of the placed geometry.
func (r *Reference) BBox() geom.Rect {
	bb := geom.EmptyRect()
	r.Cell.walk(r.Transform, func(cell *Component, t geom.Transform) {
		for _, polys := range cell.polygons {
			for _, p := range polys {
				bb = bb.Union(p.Transform(t).BBox())
			}
		}
	})
	return bb
}
