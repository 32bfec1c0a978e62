package main

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"

	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

// Generate renders the bindings for m as Go source.
func Generate(m *regmap.Map, pkg, typeName string) (string, error) {
	if !token.IsIdentifier(pkg) {
		return "", fmt.Errorf("invalid package name %q", pkg)
	}
	if typeName == "" {
		typeName = goName(m.Device)
		if typeName == "" {
			typeName = "Registers"
		}
	}
	if !token.IsIdentifier(typeName) || !token.IsExported(typeName) {
		return "", fmt.Errorf("invalid type name %q", typeName)
	}

	data := fileData{
		Package:  pkg,
		TypeName: typeName,
		Device:   m.Device,
	}

	seen := make(map[string]string)
	for _, r := range m.Sorted() {
		name := goName(r.Name)
		if name == "" {
			return "", fmt.Errorf("register %q has no usable Go name", r.Name)
		}
		if other, dup := seen[name]; dup {
			return "", fmt.Errorf("registers %q and %q both map to %s", other, r.Name, name)
		}
		seen[name] = r.Name

		reg, err := registerData(r, name, typeName)
		if err != nil {
			return "", err
		}
		data.Registers = append(data.Registers, reg)
		if r.Readable() {
			data.Reads = append(data.Reads, reg)
			if r.Type == regmap.TypeStats {
				data.NeedsCodec = true
			}
		}
		if r.Writable() {
			data.Writes = append(data.Writes, reg)
		}
	}

	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, "file", data); err != nil {
		return "", fmt.Errorf("template: %w", err)
	}
	return b.String(), nil
}

func registerData(r regmap.Register, name, typeName string) (regData, error) {
	d := regData{
		Name:        r.Name,
		GoName:      name,
		ConstName:   typeName + "Addr" + name,
		Address:     fmt.Sprintf("0x%04X", r.Address),
		Unit:        r.Unit,
		Description: r.Description,
	}

	switch r.Type {
	case regmap.TypeU8:
		d.GoType, d.ReadCall, d.WriteCall = "uint8", "ReadByte(%s", "WriteByte(%s"
	case regmap.TypeU16:
		d.GoType, d.ReadCall, d.WriteCall = "uint16", "ReadUInt16(%s", "WriteUInt16(%s"
	case regmap.TypeU32:
		d.GoType, d.ReadCall, d.WriteCall = "uint32", "ReadUInt32(%s", "WriteUInt32(%s"
	case regmap.TypeU64:
		d.GoType, d.ReadCall, d.WriteCall = "uint64", "ReadUInt64(%s", "WriteUInt64(%s"
	case regmap.TypeQ:
		q := fmt.Sprintf("%d, %d, ", r.TotalBits, r.FractionalBits)
		d.GoType, d.ReadCall, d.WriteCall = "float64", "ReadQAsDouble("+q+"%s", "WriteQFromDouble("+q+"%s"
	case regmap.TypeStats:
		d.GoType = "codec.Stats"
		d.ReadCall = "ReadStats(%s, " + strconv.FormatFloat(r.Scale, 'g', -1, 64) + ", " + strconv.Itoa(r.StatsPeriod)
	default:
		return regData{}, fmt.Errorf("register %q: unknown type %q", r.Name, r.Type)
	}

	d.ReadCall = fmt.Sprintf(d.ReadCall, d.ConstName)
	if d.WriteCall != "" {
		d.WriteCall = fmt.Sprintf(d.WriteCall, d.ConstName)
	}
	return d, nil
}

// goName converts "current_stats" or "sensor-a" to "CurrentStats" / "SensorA".
func goName(s string) string {
	var b strings.Builder
	upper := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || (unicode.IsDigit(r) && b.Len() > 0):
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	return b.String()
}
