package gds

// Record types used by maskgen. The full GDSII stream format defines more;
// unknown records are skipped by the reader.
const (
	recHeader    = 0x00
	recBgnLib    = 0x01
	recLibName   = 0x02
	recUnits     = 0x03
	recEndLib    = 0x04
	recBgnStr    = 0x05
	recStrName   = 0x06
	recEndStr    = 0x07
	recBoundary  = 0x08
	recPath      = 0x09
	recSRef      = 0x0A
	recARef      = 0x0B
	recText      = 0x0C
	recLayer     = 0x0D
	recDatatype  = 0x0E
	recWidth     = 0x0F
	recXY        = 0x10
	recEndEl     = 0x11
	recSName     = 0x12
	recColRow    = 0x13
	recTextType  = 0x16
	recPresent   = 0x17
	recString    = 0x19
	recSTrans    = 0x1A
	recMag       = 0x1B
	recAngle     = 0x1C
	recPathType  = 0x21
	recBox       = 0x2D
	recBoxType   = 0x2E
	recPropAttr  = 0x2B
	recPropValue = 0x2C
)

// Data types.
const (
	dtNone     = 0x00
	dtBitArray = 0x01
	dtInt16    = 0x02
	dtInt32    = 0x03
	dtReal8    = 0x05
	dtString   = 0x06
)

const (
	streamVersion = 600

	// An XY record holds at most (65535-4)/8 = 8191 points; the closing point
	// of a boundary takes one, leaving 8190 distinct vertices.
	MaxVertices = 8190

	stransReflect = 0x8000
)

var recordNames = map[byte]string{
	recHeader: "HEADER", recBgnLib: "BGNLIB", recLibName: "LIBNAME", recUnits: "UNITS",
	recEndLib: "ENDLIB", recBgnStr: "BGNSTR", recStrName: "STRNAME", recEndStr: "ENDSTR",
	recBoundary: "BOUNDARY", recPath: "PATH", recSRef: "SREF", recARef: "AREF",
	recText: "TEXT", recLayer: "LAYER", recDatatype: "DATATYPE", recWidth: "WIDTH",
	recXY: "XY", recEndEl: "ENDEL", recSName: "SNAME", recColRow: "COLROW",
	recTextType: "TEXTTYPE", recPresent: "PRESENTATION", recString: "STRING",
	recSTrans: "STRANS", recMag: "MAG", recAngle: "ANGLE", recPathType: "PATHTYPE",
	recBox: "BOX", recBoxType: "BOXTYPE", recPropAttr: "PROPATTR", recPropValue: "PROPVALUE",
}

func recordName(t byte) string {
	if n, ok := recordNames[t]; ok {
		return n
	}
	return "UNKNOWN"
}
