// Package render draws mask layouts for humans.
//
// The GDSII file is the fabrication artifact; the formats
// here are previews:
//
//   - [RenderSVG]: flattened polygons per layer, y axis up, GDS labels as text
//   - [RenderPNG]: the same polygons rasterized in-process with gogpu/gg
//   - [ToPDF]: any SVG through the external rsvg-convert tool
//   - [HierarchyDOT] and [RenderHierarchySVG]: the cell reference graph
//
// Resist is drawn below metal with partial opacity so etch windows and the
// devices beneath them stay readable:
//
//	svg := render.RenderSVG(chip, render.WithScale(4))
//	png, err := render.RenderPNG(chip, render.WithMaxPixels(4096))
package render
