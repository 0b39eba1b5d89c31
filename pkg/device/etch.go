package device

import (
	"github.com/matzehuels/maskgen/pkg/geom"
)

// EtchWindows returns the undercut etch openings around an IDT: a bar above
// the device joined to two legs that run down its sides to just above the
// feed (of width neck), plus the same shape mirrored below the bus centre line.
func EtchWindows(origin geom.Point, busLength, neck float64, idt IDTParams, etch EtchParams) []geom.Polygon {
	x0, y0 := origin.X, origin.Y
	g, b := etch.WindowGap, etch.Buffer

	length := 2*idt.BusWidth + idt.ElectrodeLength + idt.EndMargin + 2*(b+g)
	height := busLength/2 - neck/2

	topX := x0 - (b + g)
	topY := y0 + busLength + b
	legY := y0 + busLength/2 + neck/2 + b
	rightX := x0 + 2*idt.BusWidth + idt.ElectrodeLength + idt.EndMargin + b

	upper := geom.Union([]geom.Polygon{
		geom.R(topX, topY, topX+length, topY+g).Polygon(),
		geom.R(x0-g-b, legY, x0-b, legY+height).Polygon(),
		geom.R(rightX, legY, rightX+g, legY+height).Polygon(),
	})

	mirror := geom.MirrorY(y0 + busLength/2)
	out := make([]geom.Polygon, 0, 2*len(upper))
	out = append(out, upper...)
	for _, p := range upper {
		out = append(out, p.Transform(mirror))
	}
	return out
}
