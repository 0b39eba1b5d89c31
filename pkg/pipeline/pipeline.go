// Package pipeline turns a design into mask artifacts.
//
// The CLI and the HTTP API share this code so both produce byte-identical
// files for the same design. A run has three stages:
//
//  1. Build: expand the design's sweeps and place every device on the chip
//  2. Export: write the chip as a GDSII stream
//  3. Render: draw the requested previews (SVG, PNG, PDF, hierarchy DOT)
//
// Outputs are cached by a hash of the design's canonical TOML, so editing
// whitespace or reordering keys in a design file does not force a rebuild.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Design:  design,
//	    Formats: []string{"gds", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(design.OutputPath(), result.Artifacts["gds"], 0o644)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/maskgen/pkg/cache"
	"github.com/matzehuels/maskgen/pkg/config"
	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/layout"
	"github.com/matzehuels/maskgen/pkg/registry"
)

// DefaultScale is the preview resolution in pixels per µm.
const DefaultScale = 2.0

// Format constants for output formats.
const (
	FormatGDS = "gds"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatGDS: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
	FormatDOT: true,
}

// ContentTypes maps formats to MIME types for HTTP responses.
var ContentTypes = map[string]string{
	FormatGDS: "application/octet-stream",
	FormatSVG: "image/svg+xml",
	FormatPNG: "image/png",
	FormatPDF: "application/pdf",
	FormatDOT: "text/vnd.graphviz",
}

// Options configures one pipeline run.
type Options struct {
	Design *config.Design `json:"-"`

	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`     // preview pixels per µm
	NoLabels bool     `json:"no_labels,omitempty"` // omit GDS text labels from previews
	Refresh  bool     `json:"refresh,omitempty"`   // ignore cached outputs

	// Record saves a registry entry for the run; Output is the path noted
	// in it.
	Record bool   `json:"record,omitempty"`
	Output string `json:"output,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Hash identifies the expanded design.
	Hash string

	// Component is the chip hierarchy, rebuilt from GDS on a cache hit.
	Component *layout.Component

	// Devices holds the placed devices. It is nil when the GDS came from
	// the cache and the run was not recorded.
	Devices []*device.Device

	// Artifacts contains outputs keyed by format.
	Artifacts map[string][]byte

	// Run is the registry entry, if the run was recorded.
	Run *registry.Run

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Devices    int
	Cells      int
	Polygons   int
	GDSBytes   int
	BuildTime  time.Duration
	ExportTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each stage.
type CacheInfo struct {
	DesignHit bool // GDS stream came from cache
	RenderHit bool // every preview came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// FormatNames lists the formats in a fixed order.
func FormatNames() []string {
	return []string{FormatGDS, FormatSVG, FormatPNG, FormatPDF, FormatDOT}
}

// ParseFormats splits a comma-separated list such as "gds,svg".
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks the design and formats and fills in
// defaults. The design itself is validated in full, so a bad parameter is
// reported before anything is built.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Design == nil {
		return errors.New(errors.ErrCodeInvalidInput, "design is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatGDS}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidParam, "scale must be positive, got %g", o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := o.Design.Validate(); err != nil {
		return fmt.Errorf("design %s: %w", o.Design.Name, err)
	}
	return nil
}

// wants reports whether format was requested.
func (o *Options) wants(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// previews returns the requested formats other than GDS.
func (o *Options) previews() []string {
	var out []string
	for _, f := range o.Formats {
		if f != FormatGDS {
			out = append(out, f)
		}
	}
	return out
}

// ArtifactKeyOpts returns cache key options for a preview format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Scale:  o.Scale,
		Labels: !o.NoLabels,
	}
}
