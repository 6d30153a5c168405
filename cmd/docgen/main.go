// Copyright 2024 The CEL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command docgen renders the standard library's declarations as an HTML
// reference table, for publishing alongside the module's documentation.
package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/exprlang/celcheck/decls"
	"github.com/exprlang/celcheck/stdlib"
	"github.com/exprlang/celcheck/types"
)

var tmpl = *template.Must(template.New("standard_definitions").Parse(
	`These descriptions are automatically generated from the standard library's declarations.

<table style="width=100%" border="1">
	<col width="15%">
	<col width="40%">
	<col width="45%">
	<tr>
		<th>Symbol</th>
		<th>Type</th>
		<th>Description</th>
	</tr>
	{{- range $k,$func := . -}}
	{{- range $i, $ol := $func.Overloads}}
	<tr>
		{{- if not $i}}
		<th rowspan="{{len $func.Overloads}}">
			{{ $func.Symbol }}
		</th>
		{{- end}}
		<td>
			{{ $ol.Type }}
		</td>
		<td>
			{{ $ol.Description }}
		</td>
	</tr>
	{{- end}}
	{{- end}}
</table>
`))

// Function groups one or more overloads under a shared display symbol.
type Function struct {
	Symbol    string
	Overloads []*Overload
}

// Overload is a single declared signature rendered as a table row.
type Overload struct {
	Type        string
	Description string
}

func overloadSignature(o *decls.OverloadDecl) string {
	in := make([]string, len(o.ParamTypes))
	for i, p := range o.ParamTypes {
		in[i] = types.FormatType(p)
	}
	prefix := ""
	if o.IsInstanceFunction && len(in) > 0 {
		prefix = in[0] + "."
		in = in[1:]
	}
	return prefix + "(" + strings.Join(in, ", ") + ") -> " + types.FormatType(o.ResultType)
}

func main() {
	vars, funcs := stdlib.Declarations()

	functions := map[string]*Function{}
	order := []string{}
	add := func(symbol, typeDesc, doc string) {
		fn, ok := functions[symbol]
		if !ok {
			fn = &Function{Symbol: symbol}
			functions[symbol] = fn
			order = append(order, symbol)
		}
		fn.Overloads = append(fn.Overloads, &Overload{Type: typeDesc, Description: doc})
	}

	for _, v := range vars {
		if strings.HasPrefix(v.Name, "@") {
			continue
		}
		add(v.Name, types.FormatType(v.Type), "type denotation")
	}
	for _, f := range funcs {
		if strings.HasPrefix(f.Name, "@") {
			continue
		}
		for _, o := range f.Overloads {
			add(f.Name, overloadSignature(o), "")
		}
	}
	sort.Strings(order)

	buffer := bytes.NewBufferString("")
	ordered := make([]*Function, len(order))
	for i, name := range order {
		ordered[i] = functions[name]
	}
	if err := tmpl.Execute(buffer, ordered); err != nil {
		panic(err)
	}
	fmt.Println(buffer.String())
}
