// Package config loads mask designs from TOML.
//
// A design names the chip, how its devices are tiled, and a list of device
// tables. Each table starts from the defaults of its kind; a [device.sweep]
// sub-table expands it into the cartesian product of the listed values:
//
//	name = "cmr_sweep"
//
//	[chip]
//	columns = 4
//
//	[[device]]
//	kind = "flat-cmr"
//
//	[device.sweep]
//	electrode_width = [0.25, 0.3]
//	tether_width = [3, 5]
//
// Built-in designs are embedded and available through [LoadPreset].
package config
