package config

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/maskgen/pkg/device"
	"github.com/matzehuels/maskgen/pkg/errors"
)

// MaxDevices bounds the number of device instances a design may expand to.
const MaxDevices = 1000

// Design is a parsed design file: chip layout settings plus device entries,
// each of which may sweep parameters over a cartesian product.
type Design struct {
	Name        string
	Description string
	Output      string
	Chip        device.ChipParams
	Devices     []Entry
}

// Entry is one [[device]] table. Spec holds the kind defaults overlaid with
// the table's values; Sweep maps parameter names (see device.SweepParams) to
// the values to iterate.
type Entry struct {
	Spec  device.Spec
	Sweep map[string][]float64
}

type rawDesign struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Output      string            `toml:"output"`
	Chip        device.ChipParams `toml:"chip"`
	Devices     []toml.Primitive  `toml:"device"`
}

type sweepTable struct {
	Sweep map[string][]float64 `toml:"sweep"`
}

// Load reads and parses a design file.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "design file %s not found", path)
		}
		return nil, fmt.Errorf("read design: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a TOML design. Each device table starts from
// device.DefaultSpec for its kind, so a table only lists what differs.
// Keys that map to no field are rejected.
func Parse(data []byte) (*Design, error) {
	raw := rawDesign{Chip: device.DefaultChip()}
	raw.Chip.Name = ""
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse design")
	}

	d := &Design{
		Name:        raw.Name,
		Description: raw.Description,
		Output:      raw.Output,
		Chip:        raw.Chip,
	}
	if d.Name == "" {
		d.Name = "design"
	}
	if d.Chip.Name == "" {
		d.Chip.Name = d.Name
	}

	for i, prim := range raw.Devices {
		var head struct {
			Kind string `toml:"kind"`
		}
		if err := md.PrimitiveDecode(prim, &head); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "device %d", i)
		}
		kind, err := device.ParseKind(head.Kind)
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}

		e := Entry{Spec: device.DefaultSpec(kind)}
		if err := md.PrimitiveDecode(prim, &e.Spec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "device %d", i)
		}
		var sw sweepTable
		if err := md.PrimitiveDecode(prim, &sw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "device %d sweep", i)
		}
		e.Sweep = sw.Sweep
		d.Devices = append(d.Devices, e)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidDesign, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return d, nil
}

// Validate checks the chip settings and every expanded device.
func (d *Design) Validate() error {
	if d.Output != "" {
		if err := errors.ValidateOutputPath(d.Output); err != nil {
			return err
		}
	}
	if err := d.Chip.Validate(); err != nil {
		return err
	}
	specs, err := d.Expand()
	if err != nil {
		return err
	}
	for i, s := range specs {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("device %d (%s): %w", i, s.CellName(), err)
		}
	}
	return nil
}

// Expand returns one spec per device instance. Sweep parameters are iterated
// in sorted name order with the first name varying slowest. An explicit
// device name gets an index suffix when the entry expands to several
// instances.
func (d *Design) Expand() ([]device.Spec, error) {
	if len(d.Devices) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDesign, "design %q has no devices", d.Name)
	}
	var out []device.Spec
	for i, e := range d.Devices {
		specs, err := e.expand()
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		if len(out)+len(specs) > MaxDevices {
			return nil, errors.New(errors.ErrCodeInvalidDesign,
				"design %q expands to more than %d devices", d.Name, MaxDevices)
		}
		out = append(out, specs...)
	}
	return out, nil
}

func (e Entry) expand() ([]device.Spec, error) {
	names := make([]string, 0, len(e.Sweep))
	for k, vs := range e.Sweep {
		if len(vs) == 0 {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "sweep %q has no values", k)
		}
		names = append(names, k)
	}
	sort.Strings(names)

	count := 1
	for _, name := range names {
		count *= len(e.Sweep[name])
		if count > MaxDevices {
			return nil, errors.New(errors.ErrCodeInvalidDesign, "sweep expands to more than %d devices", MaxDevices)
		}
	}

	specs := []device.Spec{e.Spec}
	for _, name := range names {
		next := make([]device.Spec, 0, len(specs)*len(e.Sweep[name]))
		for _, s := range specs {
			for _, v := range e.Sweep[name] {
				c := s
				if err := c.Set(name, v); err != nil {
					return nil, err
				}
				next = append(next, c)
			}
		}
		specs = next
	}

	if e.Spec.Name != "" && len(specs) > 1 {
		for i := range specs {
			specs[i].Name = fmt.Sprintf("%s_%d", e.Spec.Name, i)
		}
	}
	return specs, nil
}

// canonical is the fully expanded form of a design that Canonical encodes.
type canonical struct {
	Name   string            `toml:"name"`
	Chip   device.ChipParams `toml:"chip"`
	Device []device.Spec     `toml:"device"`
}

// Canonical encodes the expanded design as TOML. Designs that expand to the
// same devices encode identically, however they were written, so the result
// is suitable as a cache key.
func (d *Design) Canonical() ([]byte, error) {
	specs, err := d.Expand()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(canonical{Name: d.Name, Chip: d.Chip, Device: specs}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode design")
	}
	return buf.Bytes(), nil
}

// OutputPath returns the GDS path to write: the design's output, or the
// design name with a .gds extension.
func (d *Design) OutputPath() string {
	if d.Output != "" {
		return d.Output
	}
	return d.Name + ".gds"
}
