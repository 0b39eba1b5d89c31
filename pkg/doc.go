// Package pkg holds the maskgen libraries.
//
// # Overview
//
// maskgen turns TOML design files into GDSII photomasks for acoustic
// resonator test chips. The packages split into three layers:
//
//  1. Geometry: [geom] (points, arcs, boolean operations), [layout]
//     (cells, layers, references, labels) and [gds] (the GDSII stream codec)
//  2. Devices: [device] builds IDTs, contour-mode resonators, undercut rings
//     and alignment marks; [config] parses designs and expands sweeps
//  3. Orchestration: [pipeline] runs build, export and render with
//     [cache] and records runs in [registry]; [render] draws previews
//
// # Data flow
//
//	design.toml
//	    ↓
//	[config] (parse, validate, expand sweeps)
//	    ↓
//	[device] (one cell per device, placed on the chip)
//	    ↓
//	[layout] component tree
//	    ↓
//	[gds] stream  +  [render] SVG/PNG/PDF/DOT previews
//
// # Quick Start
//
//	d, _ := config.LoadPreset("cmr-sweep")
//	res, err := pipeline.NewRunner(nil, nil, nil).Execute(ctx, pipeline.Options{
//	    Design:  d,
//	    Formats: []string{pipeline.FormatGDS, pipeline.FormatSVG},
//	})
//	os.WriteFile("cmr.gds", res.Artifacts[pipeline.FormatGDS], 0o644)
//
// [geom]: github.com/matzehuels/maskgen/pkg/geom
// [layout]: github.com/matzehuels/maskgen/pkg/layout
// [gds]: github.com/matzehuels/maskgen/pkg/gds
// [device]: github.com/matzehuels/maskgen/pkg/device
// [config]: github.com/matzehuels/maskgen/pkg/config
// [pipeline]: github.com/matzehuels/maskgen/pkg/pipeline
// [cache]: github.com/matzehuels/maskgen/pkg/cache
// [registry]: github.com/matzehuels/maskgen/pkg/registry
// [render]: github.com/matzehuels/maskgen/pkg/render
package pkg
