package device

import (
	"fmt"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// ChipParams controls how devices are tiled onto a chip.
type ChipParams struct {
	Name      string  `toml:"name" json:"name"`
	Spacing   float64 `toml:"spacing" json:"spacing"`
	Columns   int     `toml:"columns" json:"columns"`
	Markers   bool    `toml:"markers" json:"markers"`
	LabelSize float64 `toml:"label_size" json:"label_size"`
}

// DefaultChip returns the chip layout used when a design does not set one.
func DefaultChip() ChipParams {
	return ChipParams{Name: "chip", Spacing: 100, Columns: 4, Markers: true, LabelSize: 10}
}

// Validate checks the chip parameters.
func (p ChipParams) Validate() error {
	if err := errors.ValidateCellName(errors.SanitizeCellName(p.Name)); err != nil {
		return err
	}
	if err := errors.ValidateNonNegative("chip.spacing", p.Spacing); err != nil {
		return err
	}
	if p.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidParam, "chip.columns must be non-negative, got %d", p.Columns)
	}
	return errors.ValidateNonNegative("chip.label_size", p.LabelSize)
}

// Chip builds every spec and tiles the devices into one top cell. With
// Markers set, an alignment mark is placed outside each corner of the device
// array. A chip label is engraved below the array when LabelSize > 0.
func Chip(specs []Spec, p ChipParams) (*layout.Component, []*Device, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	if len(specs) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidDesign, "chip %q has no devices", p.Name)
	}

	devices := make([]*Device, 0, len(specs))
	comps := make([]*layout.Component, 0, len(specs))
	for i, s := range specs {
		d, err := Build(s)
		if err != nil {
			return nil, nil, fmt.Errorf("device %d (%s): %w", i, s.Kind, err)
		}
		devices = append(devices, d)
		comps = append(comps, d.Component)
	}

	name := errors.SanitizeCellName(p.Name)
	array, _ := layout.Grid(name+"_array", comps, p.Spacing, p.Columns)
	chip := layout.New(name)
	chip.Add(array)
	bb := array.BBox()

	if p.Markers {
		ms := DefaultSpec(KindAlignmentMark)
		ms.Label.Enabled = false
		mark, err := Build(ms)
		if err != nil {
			return nil, nil, err
		}
		d := ms.Marker.Length/2 + ms.Marker.Clearance + p.Spacing
		for _, corner := range []geom.Point{
			geom.Pt(bb.Min.X-d, bb.Min.Y-d),
			geom.Pt(bb.Max.X+d, bb.Min.Y-d),
			geom.Pt(bb.Min.X-d, bb.Max.Y+d),
			geom.Pt(bb.Max.X+d, bb.Max.Y+d),
		} {
			chip.Add(mark.Component).Move(corner.X, corner.Y)
		}
	}

	if p.LabelSize > 0 {
		label, err := layout.Text(p.Name, p.LabelSize, geom.Pt(bb.Min.X, bb.Min.Y-p.Spacing/2-p.LabelSize), layout.JustifyLeft, metal)
		if err != nil {
			return nil, nil, err
		}
		label.Name = name + "_label"
		chip.Add(label)
	}
	return chip, devices, nil
}
