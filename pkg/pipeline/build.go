package pipeline

import (
	"bytes"

	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/gds"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// Build expands d and places its devices on a chip.
func Build(d *config.Design) (*layout.Component, []*device.Device, error) {
	specs, err := d.Expand()
	if err != nil {
		return nil, nil, err
	}
	return device.Chip(specs, d.Chip)
}

// ExportGDS encodes c as a GDSII library named libName.
func ExportGDS(c *layout.Component, libName string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gds.WriteComponent(&buf, c, libName); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportGDS decodes a GDSII stream and rebuilds its top cell.
func ImportGDS(data []byte) (*layout.Component, error) {
	lib, err := gds.Read(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read gds")
	}
	return lib.ToComponent("")
}
