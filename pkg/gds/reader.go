package gds

import (
	"bufio"
	"encoding/binary"
	"io"
	"time"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// Read parses a GDSII stream. BOUNDARY, SREF and TEXT elements are kept and
// each AREF is expanded into one SRef per array position. Other elements
// (PATH, BOX, NODE) are skipped.
func Read(r io.Reader) (*Library, error) {
	d := &decoder{r: bufio.NewReader(r)}
	lib := &Library{}

	var (
		cell   *Cell
		elem   byte // current element record type, 0 outside elements
		layer  layout.Layer
		xy     []geom.Point
		sref   SRef
		cols   int
		rows   int
		text   string
		ended  bool
		header bool
	)

	for !ended {
		rt, dt, data, err := d.next()
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unexpected end of stream (missing ENDLIB)")
		}
		if err != nil {
			return nil, err
		}
		if !header && rt != recHeader {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "stream does not start with HEADER (got %s)", recordName(rt))
		}

		switch rt {
		case recHeader:
			header = true
		case recBgnLib:
			if ts := int16s(data); len(ts) >= 6 {
				lib.Timestamp = time.Date(int(ts[0]), time.Month(ts[1]), int(ts[2]), int(ts[3]), int(ts[4]), int(ts[5]), 0, time.UTC)
			}
		case recLibName:
			lib.Name = str(data)
		case recUnits:
			if dt != dtReal8 || len(data) != 16 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "malformed UNITS record")
			}
			perUser := decodeReal8(binary.BigEndian.Uint64(data[:8]))
			lib.DBUnit = decodeReal8(binary.BigEndian.Uint64(data[8:]))
			if perUser <= 0 || lib.DBUnit <= 0 {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "non-positive units")
			}
			lib.UserUnit = lib.DBUnit / perUser
			d.scale = perUser
		case recBgnStr:
			cell = &Cell{}
		case recStrName:
			if cell == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "STRNAME outside structure")
			}
			cell.Name = str(data)
		case recEndStr:
			if cell == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "ENDSTR without BGNSTR")
			}
			lib.Cells = append(lib.Cells, cell)
			cell = nil
		case recBoundary, recSRef, recText, recPath, recARef, recBox:
			if cell == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "%s outside structure", recordName(rt))
			}
			elem = rt
			layer, xy, sref, text = layout.Layer{}, nil, SRef{Mag: 1}, ""
			cols, rows = 0, 0
		case recLayer:
			if v := int16s(data); len(v) > 0 {
				layer.Number = v[0]
			}
		case recDatatype, recTextType:
			if v := int16s(data); len(v) > 0 {
				layer.Datatype = v[0]
			}
		case recXY:
			xy = d.points(data)
		case recSName:
			sref.Name = str(data)
		case recColRow:
			if v := int16s(data); len(v) >= 2 {
				cols, rows = int(v[0]), int(v[1])
			}
		case recSTrans:
			if len(data) >= 2 {
				sref.Reflect = binary.BigEndian.Uint16(data)&stransReflect != 0
			}
		case recMag:
			if len(data) >= 8 {
				sref.Mag = decodeReal8(binary.BigEndian.Uint64(data))
			}
		case recAngle:
			if len(data) >= 8 {
				sref.Angle = decodeReal8(binary.BigEndian.Uint64(data))
			}
		case recString:
			text = str(data)
		case recEndEl:
			if cell == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "ENDEL outside structure")
			}
			switch elem {
			case recBoundary:
				if len(xy) > 1 && xy[0] == xy[len(xy)-1] {
					xy = xy[:len(xy)-1]
				}
				cell.Boundaries = append(cell.Boundaries, Boundary{Layer: layer, XY: xy})
			case recSRef:
				if len(xy) > 0 {
					sref.Origin = xy[0]
				}
				cell.Refs = append(cell.Refs, sref)
			case recARef:
				refs, err := expandARef(sref, cols, rows, xy)
				if err != nil {
					return nil, err
				}
				cell.Refs = append(cell.Refs, refs...)
			case recText:
				var pos geom.Point
				if len(xy) > 0 {
					pos = xy[0]
				}
				cell.Texts = append(cell.Texts, Text{Layer: layer, Position: pos, String: text})
			}
			elem = 0
		case recEndLib:
			ended = true
		}
	}
	if lib.DBUnit == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "missing UNITS record")
	}
	return lib, nil
}

// maxArrayRefs bounds the placements a single AREF may expand to.
const maxArrayRefs = 1 << 16

// expandARef returns one SRef per position of an array reference. xy holds
// the array origin, the origin displaced by cols column pitches, and the
// origin displaced by rows row pitches.
func expandARef(ref SRef, cols, rows int, xy []geom.Point) ([]SRef, error) {
	if len(xy) < 3 || cols < 1 || rows < 1 {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"AREF %s needs a positive COLROW and three XY points", ref.Name)
	}
	if cols*rows > maxArrayRefs {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"AREF %s has %d placements (max %d)", ref.Name, cols*rows, maxArrayRefs)
	}
	colStep := xy[1].Sub(xy[0]).Scale(1 / float64(cols))
	rowStep := xy[2].Sub(xy[0]).Scale(1 / float64(rows))

	out := make([]SRef, 0, cols*rows)
	for r := range rows {
		for c := range cols {
			s := ref
			p := xy[0].Add(colStep.Scale(float64(c))).Add(rowStep.Scale(float64(r)))
			s.Origin = geom.Pt(geom.Snap(p.X), geom.Snap(p.Y))
			out = append(out, s)
		}
	}
	return out, nil
}

type decoder struct {
	r     *bufio.Reader
	scale float64 // user units per database unit
}

func (d *decoder) next() (rt, dt byte, data []byte, err error) {
	var hdr [4]byte
	if _, err = io.ReadFull(d.r, hdr[:]); err != nil {
		if err == io.EOF {
			return 0, 0, nil, err
		}
		return 0, 0, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "truncated record header")
	}
	n := int(binary.BigEndian.Uint16(hdr[:2]))
	if n < 4 {
		return 0, 0, nil, errors.New(errors.ErrCodeInvalidFormat, "record length %d too short", n)
	}
	data = make([]byte, n-4)
	if _, err = io.ReadFull(d.r, data); err != nil {
		return 0, 0, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "truncated %s record", recordName(hdr[2]))
	}
	return hdr[2], hdr[3], data, nil
}

func (d *decoder) points(data []byte) []geom.Point {
	scale := d.scale
	if scale == 0 {
		scale = DefaultDBUnit / DefaultUserUnit
	}
	pts := make([]geom.Point, 0, len(data)/8)
	for i := 0; i+8 <= len(data); i += 8 {
		x := int32(binary.BigEndian.Uint32(data[i:]))
		y := int32(binary.BigEndian.Uint32(data[i+4:]))
		pts = append(pts, geom.Point{X: geom.Snap(float64(x) * scale), Y: geom.Snap(float64(y) * scale)})
	}
	return pts
}

func int16s(data []byte) []int16 {
	out := make([]int16, len(data)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(data[2*i:]))
	}
	return out
}

// str trims the NUL padding of a GDSII string.
func str(data []byte) string {
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	return string(data)
}
