package render

import (
	"github.com/matzehuels/maskgen/pkg/layout"
)

// Style is the fill of one layer in previews.
type Style struct {
	Color   string  // hex, e.g. "#d4a017"
	Opacity float64 // 0..1
}

// DefaultStyles colours metal gold and resist translucent blue. Layers not
// listed are drawn with FallbackStyle.
func DefaultStyles() map[layout.Layer]Style {
	return map[layout.Layer]Style{
		layout.LayerMetal:  {Color: "#d4a017", Opacity: 0.85},
		layout.LayerResist: {Color: "#4a90d9", Opacity: 0.35},
	}
}

// FallbackStyle is used for layers without an entry in the style map.
var FallbackStyle = Style{Color: "#888888", Opacity: 0.5}

// Option configures a preview.
type Option func(*options)

type options struct {
	scale      float64 // pixels per µm
	margin     float64 // pixels
	styles     map[layout.Layer]Style
	labels     bool
	background string
	maxPixels  int
}

func defaultOptions() options {
	return options{
		scale:      2,
		margin:     20,
		styles:     DefaultStyles(),
		labels:     true,
		background: "#ffffff",
		maxPixels:  8192,
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = 2
	}
	return o
}

// WithScale sets the preview resolution in pixels per µm.
func WithScale(s float64) Option { return func(o *options) { o.scale = s } }

// WithMargin sets the blank border around the layout in pixels.
func WithMargin(px float64) Option { return func(o *options) { o.margin = px } }

// WithStyle overrides the fill of one layer.
func WithStyle(l layout.Layer, s Style) Option {
	return func(o *options) { o.styles[l] = s }
}

// WithoutLabels hides GDS text labels.
func WithoutLabels() Option { return func(o *options) { o.labels = false } }

// WithBackground sets the canvas colour. An empty string leaves it transparent.
func WithBackground(hex string) Option { return func(o *options) { o.background = hex } }

// WithMaxPixels caps the longer image side. The scale is reduced to fit.
func WithMaxPixels(n int) Option { return func(o *options) { o.maxPixels = n } }

func (o options) style(l layout.Layer) Style {
	if s, ok := o.styles[l]; ok {
		return s
	}
	return FallbackStyle
}
