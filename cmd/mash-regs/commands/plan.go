package commands

import (
	"fmt"
	"io"

	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

// RunPlan prints the merge windows a full read of m would use, without
// touching a device. A gap below zero keeps the map's threshold.
func RunPlan(m *regmap.Map, gap int, w io.Writer) error {
	reg := m.BindReads(newRegistry(m, gap, nil), func(string, regmap.Value) error { return nil })
	if err := reg.Err(); err != nil {
		return err
	}

	names := make(map[int]string, len(m.Registers))
	for _, r := range m.Registers {
		names[r.Address] = r.Name
	}

	plan := reg.Compile()
	fmt.Fprint(w, plan.String())
	fmt.Fprintln(w)
	for i, win := range plan.Windows() {
		for _, addr := range win.Addresses {
			length, _ := reg.Length(addr)
			fmt.Fprintf(w, "  [%d] +%-3d %-4d %s\n", i, addr-win.Start, length, names[addr])
		}
	}
	return nil
}
