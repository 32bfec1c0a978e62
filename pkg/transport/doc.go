// Package transport provides block transports for register access.
//
// A block transport moves a contiguous run of bytes to or from a device's
// flat register map. The scatter registry only needs two operations:
//
//	ReadBlock(ctx, address, length) ([]byte, error)
//	WriteBlock(ctx, address, data) error
//
// This package defines those interfaces, their function adapters, a
// serializing wrapper for devices shared between goroutines, and a framed
// stream protocol that exposes a device over any io.ReadWriter (TCP, a
// serial bridge, net.Pipe in tests).
//
// # Stream Protocol
//
//	┌────────────────────────────────┐
//	│  CBOR Request / Response       │
//	├────────────────────────────────┤
//	│   Length-Prefix Framing (4B)   │
//	├────────────────────────────────┤
//	│   byte stream (TCP, serial)    │
//	└────────────────────────────────┘
//
// Each request carries one block operation and is answered by exactly one
// response. The client serializes requests; a connection never has more
// than one request in flight.
package transport
