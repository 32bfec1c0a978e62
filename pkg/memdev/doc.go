// Package memdev implements a byte-addressable device image.
//
// An Image is a flat register map held in memory, optionally loaded from and
// saved to a raw binary file. It implements transport.BlockDevice and counts
// the block transactions it serves, which makes it the reference device for
// the mash-regs CLI, for serving over the stream protocol, and for tests that
// need to observe how many transactions a registry issued.
package memdev
