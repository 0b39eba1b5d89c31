package gds

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// Write serializes lib as a GDSII stream. Cells are written in library order,
// which FromComponent arranges children-first.
func Write(w io.Writer, lib *Library) error {
	if lib.UserUnit <= 0 || lib.DBUnit <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "library units must be positive")
	}
	e := &encoder{w: bufio.NewWriter(w), scale: lib.UserUnit / lib.DBUnit}

	ts := lib.Timestamp
	if ts.IsZero() {
		ts = Epoch
	}

	e.int16s(recHeader, streamVersion)
	e.int16s(recBgnLib, timestamp(ts)...)
	e.str(recLibName, lib.Name)
	e.real8s(recUnits, lib.DBUnit/lib.UserUnit, lib.DBUnit)

	for _, c := range lib.Cells {
		if err := errors.ValidateCellName(c.Name); err != nil {
			return err
		}
		e.int16s(recBgnStr, timestamp(ts)...)
		e.str(recStrName, c.Name)
		for _, b := range c.Boundaries {
			e.boundary(c.Name, b)
		}
		for _, r := range c.Refs {
			e.sref(r)
		}
		for _, t := range c.Texts {
			e.text(t)
		}
		e.record(recEndStr, dtNone, nil)
		if e.err != nil {
			return e.err
		}
	}
	e.record(recEndLib, dtNone, nil)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

// WriteComponent converts c with FromComponent and writes it.
func WriteComponent(w io.Writer, c *layout.Component, libName string) error {
	lib, err := FromComponent(c, libName)
	if err != nil {
		return err
	}
	return Write(w, lib)
}

type encoder struct {
	w     *bufio.Writer
	scale float64
	err   error
}

func (e *encoder) record(rt, dt byte, data []byte) {
	if e.err != nil {
		return
	}
	if len(data)+4 > math.MaxUint16 {
		e.err = errors.New(errors.ErrCodeGeometry, "%s record too long (%d bytes)", recordName(rt), len(data))
		return
	}
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:2], uint16(len(data)+4))
	hdr[2], hdr[3] = rt, dt
	if _, err := e.w.Write(hdr[:]); err != nil {
		e.err = err
		return
	}
	if _, err := e.w.Write(data); err != nil {
		e.err = err
	}
}

func (e *encoder) int16s(rt byte, vals ...int16) {
	buf := make([]byte, 2*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint16(buf[2*i:], uint16(v))
	}
	e.record(rt, dtInt16, buf)
}

func (e *encoder) real8s(rt byte, vals ...float64) {
	buf := make([]byte, 8*len(vals))
	for i, v := range vals {
		binary.BigEndian.PutUint64(buf[8*i:], encodeReal8(v))
	}
	e.record(rt, dtReal8, buf)
}

// str writes an ASCII string padded with NUL to an even length.
func (e *encoder) str(rt byte, s string) {
	buf := []byte(s)
	if len(buf)%2 == 1 {
		buf = append(buf, 0)
	}
	e.record(rt, dtString, buf)
}

func (e *encoder) xy(pts ...[2]float64) {
	if e.err != nil {
		return
	}
	buf := make([]byte, 8*len(pts))
	for i, p := range pts {
		x, err := toDB(p[0], e.scale)
		if err != nil {
			e.err = err
			return
		}
		y, err := toDB(p[1], e.scale)
		if err != nil {
			e.err = err
			return
		}
		binary.BigEndian.PutUint32(buf[8*i:], uint32(x))
		binary.BigEndian.PutUint32(buf[8*i+4:], uint32(y))
	}
	e.record(recXY, dtInt32, buf)
}

func (e *encoder) boundary(cell string, b Boundary) {
	if len(b.XY) < 3 {
		return
	}
	if len(b.XY) > MaxVertices {
		if e.err == nil {
			e.err = errors.New(errors.ErrCodeGeometry, "cell %s: boundary has %d vertices (max %d)", cell, len(b.XY), MaxVertices)
		}
		return
	}
	pts := make([][2]float64, 0, len(b.XY)+1)
	for _, p := range b.XY {
		pts = append(pts, [2]float64{p.X, p.Y})
	}
	pts = append(pts, pts[0])

	e.record(recBoundary, dtNone, nil)
	e.int16s(recLayer, b.Layer.Number)
	e.int16s(recDatatype, b.Layer.Datatype)
	e.xy(pts...)
	e.record(recEndEl, dtNone, nil)
}

func (e *encoder) sref(r SRef) {
	e.record(recSRef, dtNone, nil)
	e.str(recSName, r.Name)
	mag := r.Mag
	if mag == 0 {
		mag = 1
	}
	if r.Reflect || r.Angle != 0 || mag != 1 {
		var flags uint16
		if r.Reflect {
			flags |= stransReflect
		}
		var buf [2]byte
		binary.BigEndian.PutUint16(buf[:], flags)
		e.record(recSTrans, dtBitArray, buf[:])
		if mag != 1 {
			e.real8s(recMag, mag)
		}
		if r.Angle != 0 {
			e.real8s(recAngle, r.Angle)
		}
	}
	e.xy([2]float64{r.Origin.X, r.Origin.Y})
	e.record(recEndEl, dtNone, nil)
}

func (e *encoder) text(t Text) {
	e.record(recText, dtNone, nil)
	e.int16s(recLayer, t.Layer.Number)
	e.int16s(recTextType, t.Layer.Datatype)
	e.xy([2]float64{t.Position.X, t.Position.Y})
	e.str(recString, t.String)
	e.record(recEndEl, dtNone, nil)
}

// timestamp returns the modification and access time fields of BGNLIB/BGNSTR.
func timestamp(t time.Time) []int16 {
	t = t.UTC()
	f := []int16{
		int16(t.Year()), int16(t.Month()), int16(t.Day()),
		int16(t.Hour()), int16(t.Minute()), int16(t.Second()),
	}
	return append(f, f...)
}
