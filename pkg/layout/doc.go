// Package layout is the composition engine for mask layouts.
//
// A [Component] is a named cell holding polygons per [Layer], oriented anchor
// points ([Port]), text labels and references to child components. Children
// are placed through a [Reference], which carries a rigid transform and can be
// moved, mirrored, rotated or connected port-to-port:
//
//	c := layout.New("pad_and_bus")
//	bus := c.Add(busCell)
//	tether := c.Add(tetherCell)
//	if err := tether.Connect("tether_port2", bus.MustPort("bus_port")); err != nil {
//	    return err
//	}
//
// Geometry is kept hierarchical until it is needed flat: [Component.Polygons]
// and [Component.Flatten] resolve every reference. [Union] and [Boolean] merge
// flattened geometry into a new single-layer component, mirroring how mask
// layouts are normally assembled: compose, then merge per layer.
//
// # Primitives
//
// [Rectangle], [Taper], [Ellipse], [Ring], [Arc], [Cross] and [Text] build the
// basic shapes, [Route] draws a Manhattan wire between two ports and [Grid]
// tiles components into an array.
package layout
