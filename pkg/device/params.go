package device

// PadParams describes the RF contact pad and the arm that feeds the device.
type PadParams struct {
	Width    float64 `toml:"width" json:"width"`
	Height   float64 `toml:"height" json:"height"`
	ArmWidth float64 `toml:"arm_width" json:"arm_width"` // width of the route between pad and bus
}

// IDTParams describes the interdigitated finger array and its buses.
type IDTParams struct {
	ElectrodeNumber     int     `toml:"electrode_number" json:"electrode_number"`
	ElectrodeLength     float64 `toml:"electrode_length" json:"electrode_length"`
	ElectrodeWidth      float64 `toml:"electrode_width" json:"electrode_width"`
	ElectrodeSeparation float64 `toml:"electrode_separation" json:"electrode_separation"`
	EndMargin           float64 `toml:"end_margin" json:"end_margin"` // gap between a finger tip and the opposite bus
	BusWidth            float64 `toml:"bus_width" json:"bus_width"`

	// Curvature is the chord-to-radius ratio of curved fingers (curved-idt
	// only). Zero means straight fingers.
	Curvature float64 `toml:"curvature" json:"curvature,omitempty"`
}

// Resist modes.
const (
	ResistCover   = "cover"   // resist covers the device bbox, etch windows are opened in it
	ResistWindows = "windows" // resist layer holds only the etch windows
	ResistNone    = "none"
)

// EtchParams describes the undercut etch windows and the resist layer.
type EtchParams struct {
	WindowGap    float64 `toml:"window_gap" json:"window_gap"`
	Buffer       float64 `toml:"buffer" json:"buffer"` // distance between metal and etch window
	ResistMargin float64 `toml:"resist_margin" json:"resist_margin"`
	Undercut     bool    `toml:"undercut" json:"undercut"`
	Resist       string  `toml:"resist" json:"resist"`
}

// TetherParams describes the flat CMR feed: a tether of fixed width joined to
// the arm through a linear taper.
type TetherParams struct {
	Width       float64 `toml:"width" json:"width"`
	Length      float64 `toml:"length" json:"length"` // zero means Etch.WindowGap
	TaperLength float64 `toml:"taper_length" json:"taper_length"`
}

// RingParams describes the undercut calibration rings.
type RingParams struct {
	InnerRadius float64   `toml:"inner_radius" json:"inner_radius"`
	Widths      []float64 `toml:"widths" json:"widths"`
	Spacing     float64   `toml:"spacing" json:"spacing"`
	Segments    int       `toml:"segments" json:"segments"`
}

// MarkerParams describes an alignment cross.
type MarkerParams struct {
	Length    float64 `toml:"length" json:"length"`
	Width     float64 `toml:"width" json:"width"`
	Clearance float64 `toml:"clearance" json:"clearance"`
	Label     string  `toml:"label" json:"label,omitempty"`
}

// LabelParams controls the engraved parameter label.
type LabelParams struct {
	Size    float64 `toml:"size" json:"size"`
	Enabled bool    `toml:"enabled" json:"enabled"`
}

func defaultPad() PadParams {
	return PadParams{Width: 100, Height: 50, ArmWidth: 15}
}

func defaultIDT() IDTParams {
	return IDTParams{
		ElectrodeNumber:     100,
		ElectrodeLength:     60,
		ElectrodeWidth:      0.25,
		ElectrodeSeparation: 0.25,
		EndMargin:           10,
		BusWidth:            20,
	}
}

func defaultEtch() EtchParams {
	return EtchParams{WindowGap: 5, Buffer: 1, ResistMargin: 10, Undercut: true, Resist: ResistCover}
}

func defaultTether() TetherParams {
	return TetherParams{Width: 5, TaperLength: 20}
}

func defaultRings() RingParams {
	return RingParams{InnerRadius: 20, Widths: []float64{1, 2, 3, 4, 5}, Spacing: 20, Segments: 128}
}

func defaultMarker() MarkerParams {
	return MarkerParams{Length: 100, Width: 5, Clearance: 20}
}
