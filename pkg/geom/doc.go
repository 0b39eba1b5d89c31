// Package geom provides the 2-D geometry kernel used by maskgen layouts.
//
// # Coordinates
//
// All coordinates are in micrometres (the GDSII user unit). Boolean operations
// snap coordinates to [Precision] (1 nm, the GDSII database unit) before
// clipping, so results are exact at mask resolution.
//
// # Types
//
//   - [Point]: a 2-D vector
//   - [Polygon]: a closed contour, implicitly closed (last point != first point)
//   - [Rect]: an axis-aligned box
//   - [Transform]: an affine map restricted to rotation, mirroring and translation
//
// # Boolean Operations
//
// [Union], [Difference], [Intersection], [Xor] and [Offset] delegate to the
// Clipper library. Their results are always hole-free, counter-clockwise
// polygons: any hole produced by clipping is opened with vertical cuts so
// every polygon can be written as a single GDSII BOUNDARY element.
//
//	windows := geom.Union([]geom.Polygon{top, left, right})
//	resist := geom.Difference([]geom.Polygon{bbox}, windows)
package geom
