// Command mash-reggen generates typed Go bindings from a register map.
//
// The generated file holds address constants, a struct with one field per
// readable register, a Bind method that registers every read on a
// scatter.Registry, and a Set<Name> function per writable register.
//
// Usage:
//
//	mash-reggen -map sensor.yaml -package sensor -output sensor_regs_gen.go [-type SensorA]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"

	"github.com/mash-protocol/mash-regs/pkg/regmap"
)

func main() {
	mapPath := flag.String("map", "", "Register map file (YAML)")
	pkg := flag.String("package", "", "Package name of the generated file")
	output := flag.String("output", "", "Output path for the generated Go file")
	typeName := flag.String("type", "", "Name of the generated struct (default: derived from the map's device)")
	flag.Parse()

	if *mapPath == "" || *pkg == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: mash-reggen -map <file.yaml> -package <name> -output <file.go> [-type <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*mapPath, *pkg, *typeName, *output); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(mapPath, pkg, typeName, output string) error {
	m, err := regmap.Load(mapPath)
	if err != nil {
		return fmt.Errorf("loading register map: %w", err)
	}

	code, err := Generate(m, pkg, typeName)
	if err != nil {
		return fmt.Errorf("generating bindings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
