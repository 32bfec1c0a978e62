package main

import (
	"text/template"
)

// fileData holds data for the file template.
type fileData struct {
	Package    string
	TypeName   string
	Device     string
	NeedsCodec bool
	Registers  []regData
	Reads      []regData
	Writes     []regData
}

// regData holds pre-computed data for one register.
type regData struct {
	Name        string
	GoName      string
	GoType      string
	ConstName   string
	Address     string
	Unit        string
	Description string

	// ReadCall and WriteCall are registry method calls up to, but not
	// including, the value or callback argument.
	ReadCall  string
	WriteCall string
}

var templates = template.Must(template.New("").Parse(fileTmpl))

const fileTmpl = `{{define "file" -}}
// Code generated by mash-reggen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedsCodec}}
	"github.com/mash-protocol/mash-regs/pkg/codec"
{{- end}}
	"github.com/mash-protocol/mash-regs/pkg/scatter"
)

// Register addresses{{if .Device}} of {{.Device}}{{end}}.
const (
{{- range .Registers}}
	{{.ConstName}} = {{.Address}} // {{.Name}}
{{- end}}
)

// {{.TypeName}} holds the readable registers{{if .Device}} of {{.Device}}{{end}}.
type {{.TypeName}} struct {
{{- range .Reads}}
{{- if .Description}}
	// {{.GoName}}: {{.Description}}
{{- end}}
	{{.GoName}} {{.GoType}}{{if .Unit}} // {{.Unit}}{{end}}
{{- end}}
}

// Bind registers a read of every readable register into r.
func (r *{{.TypeName}}) Bind(reg *scatter.Registry) *scatter.Registry {
{{- if .Reads}}
	return reg.
{{- range $i, $reg := .Reads}}{{if $i}}.{{end}}
		{{$reg.ReadCall}}, func(v {{$reg.GoType}}) error {
			r.{{$reg.GoName}} = v
			return nil
		})
{{- end}}
{{- else}}
	return reg
{{- end}}
}
{{range .Writes}}
// Set{{.GoName}} registers a write of {{.Name}}{{if .Unit}} in {{.Unit}}{{end}}.
func Set{{.GoName}}(reg *scatter.Registry, v {{.GoType}}) *scatter.Registry {
	return reg.{{.WriteCall}}, v)
}
{{end -}}
{{end}}`
