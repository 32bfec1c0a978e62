// Package regmap loads named register maps from YAML and binds them to a
// scatter.Registry.
//
// A register map gives each register of a device a name, an address, a
// value type and an access mode:
//
//	device: sensor-a
//	gap_threshold: 10
//	registers:
//	  - name: temperature
//	    address: 0x10
//	    type: q
//	    total_bits: 16
//	    fractional_bits: 8
//	    unit: C
//	    access: rw
//	  - name: current_stats
//	    address: 0x20
//	    type: stats
//	    scale: 0.01
//	    stats_period: 10
//
// Types are u8, u16, u32, u64, q (unsigned fixed point) and stats (the
// 12-byte statistics record). Access defaults to r.
package regmap
