package regmap

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/mash-protocol/mash-regs/pkg/codec"
	"github.com/mash-protocol/mash-regs/pkg/scatter"
)

// Map is a parsed register map.
type Map struct {
	Device       string     `yaml:"device,omitempty"`
	GapThreshold *int       `yaml:"gap_threshold,omitempty"`
	Registers    []Register `yaml:"registers"`

	byName map[string]*Register
}

// Parse parses and validates a register map from YAML bytes.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	for i := range m.Registers {
		r := &m.Registers[i]
		if r.Access == "" {
			r.Access = AccessRead
		}
		if r.Type == TypeStats && r.Scale == 0 {
			r.Scale = 1
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load loads a register map from a file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	m, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return nil, err
	}
	return m, nil
}

// Validate checks the map for duplicate names and addresses, unknown types
// and access modes, and invalid Q and stats parameters. It also rebuilds
// the name index.
func (m *Map) Validate() error {
	if m.GapThreshold != nil && *m.GapThreshold < 0 {
		return &LoadError{Message: fmt.Sprintf("gap_threshold must not be negative, got %d", *m.GapThreshold)}
	}
	if len(m.Registers) == 0 {
		return &LoadError{Message: "register map must have at least one register"}
	}

	byName := make(map[string]*Register, len(m.Registers))
	byAddr := make(map[int]string, len(m.Registers))

	for i := range m.Registers {
		r := &m.Registers[i]
		if r.Name == "" {
			return &LoadError{Register: fmt.Sprintf("#%d", i), Message: "name is required"}
		}
		id := r.Name
		if _, dup := byName[r.Name]; dup {
			return &LoadError{Register: id, Message: "duplicate name"}
		}
		if r.Address < 0 {
			return &LoadError{Register: id, Message: fmt.Sprintf("negative address %d", r.Address)}
		}
		if other, dup := byAddr[r.Address]; dup {
			return &LoadError{Register: id, Message: fmt.Sprintf("address 0x%X already used by %s", r.Address, other)}
		}

		switch r.Access {
		case AccessRead, AccessWrite, AccessReadWrite:
		default:
			return &LoadError{Register: id, Message: fmt.Sprintf("unknown access %q", r.Access)}
		}

		if _, err := r.Width(); err != nil {
			return &LoadError{Register: id, Message: "invalid type", Cause: err}
		}
		if r.Type == TypeStats && r.StatsPeriod <= 0 {
			return &LoadError{Register: id, Message: "invalid stats", Cause: codec.ErrStatsPeriod}
		}

		byName[r.Name] = r
		byAddr[r.Address] = r.Name
	}

	m.byName = byName
	return nil
}

// Lookup returns the register with the given name.
func (m *Map) Lookup(name string) (*Register, bool) {
	if m.byName == nil {
		if err := m.Validate(); err != nil {
			return nil, false
		}
	}
	r, ok := m.byName[name]
	return r, ok
}

// Width returns the byte width of the named register.
func (m *Map) Width(name string) (int, error) {
	r, ok := m.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	return r.Width()
}

// Names returns the register names in map order.
func (m *Map) Names() []string {
	names := make([]string, len(m.Registers))
	for i, r := range m.Registers {
		names[i] = r.Name
	}
	return names
}

// Sorted returns the registers ordered by address.
func (m *Map) Sorted() []Register {
	regs := slices.Clone(m.Registers)
	slices.SortFunc(regs, func(a, b Register) int { return a.Address - b.Address })
	return regs
}

// Options returns the registry options the map configures.
func (m *Map) Options() []scatter.Option {
	var opts []scatter.Option
	if m.GapThreshold != nil {
		opts = append(opts, scatter.WithGapThreshold(*m.GapThreshold))
	}
	if m.Device != "" {
		opts = append(opts, scatter.WithDevice(m.Device))
	}
	return opts
}
