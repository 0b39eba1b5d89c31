package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/layout"
	"github.com/matzehuels/maskgen/pkg/pipeline"
)

// isGDS reports whether arg names a GDSII file.
func isGDS(arg string) bool {
	ext := strings.ToLower(filepath.Ext(arg))
	return ext == ".gds" || ext == ".gds2" || ext == ".gdsii"
}

// loadGDS reads a GDSII file and rebuilds its top cell.
func loadGDS(path string) (*layout.Component, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "gds file %s not found", path)
		}
		return nil, err
	}
	return pipeline.ImportGDS(data)
}

// loadLayout returns the chip for a .gds file, design file or preset, and
// the base name to derive output paths from.
func loadLayout(arg string) (*layout.Component, string, error) {
	if isGDS(arg) {
		c, err := loadGDS(arg)
		return c, strings.TrimSuffix(arg, filepath.Ext(arg)), err
	}
	d, err := config.Resolve(arg)
	if err != nil {
		return nil, "", err
	}
	if err := d.Validate(); err != nil {
		return nil, "", err
	}
	c, _, err := pipeline.Build(d)
	return c, strings.TrimSuffix(d.OutputPath(), filepath.Ext(d.OutputPath())), err
}
