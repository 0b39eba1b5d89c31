// Package gds reads and writes GDSII stream files.
//
// The writer covers what mask layouts need: BOUNDARY polygons, SREF
// placements (with reflection and rotation) and TEXT labels, with user units
// of 1 µm and database units of 1 nm by default. [FromComponent] converts a
// [layout.Component] hierarchy into a [Library] whose cells are ordered
// children-first, as the stream format requires.
//
// Output is deterministic: when [Library.Timestamp] is zero the fixed [Epoch]
// is written, so the same layout always produces the same bytes.
//
// [Read] parses the same subset back for inspection and previews; elements it
// does not model (PATH, AREF, BOX) are skipped.
package gds
