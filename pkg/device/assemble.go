package device

import (
	"strings"

	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// finish assembles the device cell from its merged metal, the engraved label
// and the resist layer derived from s.Etch.Resist:
//
//   - cover: the bbox of metal and label grown by ResistMargin (round
//     corners), minus the etch windows
//   - windows: the etch windows alone
//   - none: no resist geometry
func finish(s Spec, name string, metalCell *layout.Component, label string, labelPos geom.Point, windows []geom.Polygon) (*Device, error) {
	metalCell.Name = name + "_metal"
	top := layout.New(name)

	var labelCell *layout.Component
	if s.Label.Enabled && label != "" {
		var err error
		labelCell, err = layout.Text(label, s.Label.Size, labelPos, layout.JustifyLeft, metal)
		if err != nil {
			return nil, err
		}
		labelCell.Name = name + "_label"
	}

	var resist []geom.Polygon
	switch s.Etch.Resist {
	case ResistCover:
		bb := metalCell.BBox()
		if labelCell != nil {
			bb = bb.Union(labelCell.BBox())
		}
		cover := geom.Offset([]geom.Polygon{bb.Polygon()}, s.Etch.ResistMargin, geom.JoinRound)
		if len(windows) > 0 {
			cover = geom.Difference(cover, windows)
		}
		resist = cover
	case ResistWindows:
		resist = windows
	}
	if len(resist) > 0 {
		resistCell := layout.New(name + "_resist")
		resistCell.AddPolygons(layout.LayerResist, resist)
		top.Add(resistCell)
	}

	top.Add(metalCell)
	if labelCell != nil {
		top.Add(labelCell)
	}

	text := label
	if text == "" {
		text = name
	}
	top.AddLabel(strings.ReplaceAll(text, "\n", "; "), s.Origin, metal)

	return &Device{Spec: s, Cell: name, Label: label, Component: top}, nil
}
