package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/maskgen/pkg/layout"
)

// HierarchyDOT describes the cell reference graph as Graphviz DOT. Each
// cell is a node labelled with its name and local polygon count; an edge
// from parent to child carries the number of references.
func HierarchyDOT(c *layout.Component) string {
	var buf bytes.Buffer
	buf.WriteString("digraph cells {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\"];\n")
	buf.WriteString("\n")

	cells := c.Cells()
	for _, cell := range cells {
		n := 0
		for _, l := range cell.LocalLayers() {
			n += len(cell.LocalPolygons(l))
		}
		attrs := fmt.Sprintf("label=%q", fmt.Sprintf("%s\n%d polygons", cell.Name, n))
		if cell == c {
			attrs += ", fillcolor=\"#fdf1c7\""
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", cell.Name, attrs)
	}

	buf.WriteString("\n")
	for _, cell := range cells {
		counts := map[string]int{}
		for _, r := range cell.References() {
			counts[r.Cell.Name]++
		}
		children := make([]string, 0, len(counts))
		for name := range counts {
			children = append(children, name)
		}
		sort.Strings(children)
		for _, child := range children {
			if n := counts[child]; n > 1 {
				fmt.Fprintf(&buf, "  %q -> %q [label=\"x%d\"];\n", cell.Name, child, n)
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", cell.Name, child)
			}
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderHierarchySVG renders a DOT graph to SVG using Graphviz.
func RenderHierarchySVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel viewBox so the SVG scales like the layout previews.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
