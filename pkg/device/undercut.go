package device

import (
	"fmt"
	"strings"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// UndercutRings builds concentric metal rings of increasing width around
// s.Origin. Each ring gets an annular etch window of WindowGap just outside
// it (Buffer away) and a width label to the right of the set. Inspecting
// which rings survive the release etch calibrates the lateral undercut.
func UndercutRings(s Spec) (*Device, error) {
	name := s.CellName()
	rp := s.Rings

	metalCell := layout.New(name + "_metal")
	var windows []geom.Polygon
	var lines []string

	r := rp.InnerRadius
	for i, w := range rp.Widths {
		ring, err := layout.Ring(r+w/2, w, rp.Segments, metal)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidParam, err, "ring %d", i)
		}
		metalCell.Add(ring).Move(s.Origin.X, s.Origin.Y)

		if s.windowsEnabled() {
			inner := r + w + s.Etch.Buffer
			win, err := layout.Ring(inner+s.Etch.WindowGap/2, s.Etch.WindowGap, rp.Segments, layout.LayerResist)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidParam, err, "etch window %d", i)
			}
			for _, p := range win.Polygons(layout.LayerResist) {
				windows = append(windows, p.Translate(s.Origin.X, s.Origin.Y))
			}
		}
		lines = append(lines, fmt.Sprintf("R%d w = %s", i+1, num(w)))
		r += w + rp.Spacing
	}
	metalCell = layout.Union(metalCell, metal)

	outer := r - rp.Spacing + s.Etch.Buffer + s.Etch.WindowGap
	label := fmt.Sprintf("%s\nGap = %s", strings.Join(lines, "\n"), num(rp.Spacing))
	pos := geom.Pt(s.Origin.X+outer+10, s.Origin.Y+outer-s.Label.Size)
	return finish(s, name, metalCell, label, pos, windows)
}
