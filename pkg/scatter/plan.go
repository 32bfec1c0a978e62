package scatter

import (
	"fmt"
	"slices"
	"strings"
)

// Window is one merged block read.
type Window struct {
	// Start is the first address of the block.
	Start int

	// Length is the number of bytes requested.
	Length int

	// Addresses are the registered addresses served by the block, ascending.
	Addresses []int

	slots []slot
}

// End returns the first address after the window.
func (w Window) End() int {
	return w.Start + w.Length
}

// slot is a registration captured at compile time.
type slot struct {
	address  int
	length   int
	decoders []Decoder
}

// Plan is the set of block reads a Read pass would issue.
// A Plan does not change when the registry does.
type Plan struct {
	windows []Window
	gap     int
}

// Compile groups the current registrations into merge windows.
func (r *Registry) Compile() *Plan {
	addrs := r.Addresses()
	p := &Plan{gap: r.gap}

	for i := 0; i < len(addrs); {
		start := addrs[i]
		j := i + 1
		for j < len(addrs) && addrs[j]-start <= r.gap {
			j++
		}

		w := Window{Start: start}
		for _, addr := range addrs[i:j] {
			e := r.entries[addr]
			w.Addresses = append(w.Addresses, addr)
			w.slots = append(w.slots, slot{
				address:  addr,
				length:   e.length,
				decoders: slices.Clone(e.decoders),
			})
		}
		last := addrs[j-1]
		w.Length = last - start + r.entries[last].length

		p.windows = append(p.windows, w)
		i = j
	}
	return p
}

// Windows returns the windows in ascending address order.
func (p *Plan) Windows() []Window {
	out := make([]Window, len(p.windows))
	for i, w := range p.windows {
		out[i] = Window{
			Start:     w.Start,
			Length:    w.Length,
			Addresses: slices.Clone(w.Addresses),
		}
	}
	return out
}

// Transactions returns the number of block reads.
func (p *Plan) Transactions() int {
	return len(p.windows)
}

// Bytes returns the total number of bytes requested.
func (p *Plan) Bytes() int {
	n := 0
	for _, w := range p.windows {
		n += w.Length
	}
	return n
}

// String renders one line per window.
func (p *Plan) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d transaction(s), %d byte(s), gap %d\n", p.Transactions(), p.Bytes(), p.gap)
	for i, w := range p.windows {
		addrs := make([]string, len(w.Addresses))
		for k, a := range w.Addresses {
			addrs[k] = fmt.Sprintf("0x%04X", a)
		}
		fmt.Fprintf(&sb, "  [%d] 0x%04X +%d  %s\n", i, w.Start, w.Length, strings.Join(addrs, " "))
	}
	return sb.String()
}
