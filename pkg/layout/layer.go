package layout

import (
	"fmt"
	"sort"

	"github.com/matzehuels/maskgen/pkg/errors"
)

// Layer is a GDSII (layer, datatype) pair.
type Layer struct {
	Number   int16 `json:"number" toml:"number"`
	Datatype int16 `json:"datatype" toml:"datatype"`
}

var (
	LayerMetal  = Layer{Number: 1, Datatype: 0}
	LayerResist = Layer{Number: 2, Datatype: 0}
)

func (l Layer) String() string { return fmt.Sprintf("%d/%d", l.Number, l.Datatype) }

// Name returns the conventional name for well-known layers.
func (l Layer) Name() string {
	switch l {
	case LayerMetal:
		return "metal"
	case LayerResist:
		return "resist"
	}
	return l.String()
}

// Validate checks that both numbers fit in the GDSII range.
func (l Layer) Validate() error {
	return errors.ValidateLayer(int(l.Number), int(l.Datatype))
}

// ParseLayer accepts "metal", "resist" or "N/D".
func ParseLayer(s string) (Layer, error) {
	switch s {
	case "metal":
		return LayerMetal, nil
	case "resist":
		return LayerResist, nil
	}
	var n, d int
	if _, err := fmt.Sscanf(s, "%d/%d", &n, &d); err != nil {
		return Layer{}, errors.Wrap(errors.ErrCodeInvalidLayer, err, "parse layer %q", s)
	}
	if err := errors.ValidateLayer(n, d); err != nil {
		return Layer{}, err
	}
	return Layer{Number: int16(n), Datatype: int16(d)}, nil
}

func sortLayers(layers []Layer) {
	sort.Slice(layers, func(i, j int) bool {
		if layers[i].Number != layers[j].Number {
			return layers[i].Number < layers[j].Number
		}
		return layers[i].Datatype < layers[j].Datatype
	})
}
