package layout

import (
	"math"

	"github.com/matzehuels/maskgen/pkg/geom"
)

// Grid places components row-major into a new component named name. Every
// cell of the grid has the size of the largest component plus spacing; each
// component is moved so that its bounding box lower-left corner sits at its
// cell's lower-left corner. Row 0 is the top row. Columns <= 0 puts
// everything in one row.
func Grid(name string, components []*Component, spacing float64, columns int) (*Component, []*Reference) {
	if columns <= 0 || columns > len(components) {
		columns = len(components)
	}
	c := New(name)
	if len(components) == 0 {
		return c, nil
	}

	var maxW, maxH float64
	for _, comp := range components {
		bb := comp.BBox()
		if bb.Empty() {
			continue
		}
		maxW = math.Max(maxW, bb.Width())
		maxH = math.Max(maxH, bb.Height())
	}
	pitchX, pitchY := maxW+spacing, maxH+spacing

	refs := make([]*Reference, len(components))
	for i, comp := range components {
		row, col := i/columns, i%columns
		refs[i] = c.Add(comp).MoveTo(geom.Pt(float64(col)*pitchX, -float64(row)*pitchY))
	}
	return c, refs
}
