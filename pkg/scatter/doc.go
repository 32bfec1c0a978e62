// Package scatter implements scatter/gather access to a device's flat
// register map.
//
// Callers declare, in any order, which registers they want to read (with a
// typed decoder) and which they want to write (with a value that is encoded
// at registration time). Read then merges registrations that lie close to
// each other into as few block reads as possible and hands every
// registration its own slice of the block; Write issues one block write per
// write registration.
//
// # Usage
//
//	reg := scatter.New(scatter.WithLogger(logger)).
//	    ReadUInt16(0x00, func(v uint16) error { status = v; return nil }).
//	    ReadQAsDouble(16, 8, 0x05, func(v float64) error { temp = v; return nil }).
//	    ReadStats(0x20, 0.01, 10, func(s codec.Stats) error { current = s; return nil })
//
//	if err := reg.Read(ctx, dev.ReadBlock); err != nil {
//	    return err
//	}
//
// # Merging
//
// Addresses are sorted and grouped greedily: a window starts at the lowest
// unconsumed address and takes every following address within the gap
// threshold (default 10) of the window's first address. The block length
// is (last address - first address) + length of the last registration.
//
// # Registration Rules
//
// The first registration at an address fixes its length and write payload;
// later registrations at the same address only add decoders. Registrations
// persist across passes until Clear.
//
// Fluent calls cannot return errors, so an invalid registration (for example
// a Q-format value with 24 total bits) is dropped and its error is kept.
// Err reports it, and Read and Write refuse to run until Clear.
//
// A Registry performs no locking. Serialize Read, Write, registration and
// Clear calls yourself.
package scatter
