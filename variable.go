/*
Copyright © 2019 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

package erddapxml

import (
	"fmt"
	"strings"
)

// A VariableOverride holds user-supplied settings for one source variable.
type VariableOverride struct {
	// DestinationName replaces the source name in ERDDAP if it is not "".
	DestinationName string

	// Attributes replace file attributes with the same name, in place,
	// or are added after the file attributes.
	Attributes []Attribute
}

// Overrides holds VariableOverrides keyed by source variable name.
type Overrides map[string]VariableOverride

// DestinationName returns the ERDDAP name of the source variable v.
func (o Overrides) DestinationName(v string) string {
	if ov, ok := o[v]; ok && ov.DestinationName != "" {
		return ov.DestinationName
	}
	return v
}

// attributes merges the override attributes for v into atts.
// atts is not modified.
func (o Overrides) attributes(v string, atts []Attribute) []Attribute {
	ov, ok := o[v]
	if !ok || len(ov.Attributes) == 0 {
		return atts
	}
	out := make([]Attribute, len(atts), len(atts)+len(ov.Attributes))
	copy(out, atts)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.Name] = i
	}
	for _, a := range ov.Attributes {
		if i, ok := index[a.Name]; ok {
			out[i] = a
			continue
		}
		index[a.Name] = len(out)
		out = append(out, a)
	}
	return out
}

// A Descriptor describes one ERDDAP <dataVariable>.
type Descriptor struct {
	SourceName      string
	DestinationName string
	DataType        string
	Attributes      []Attribute
}

// BuildDescriptor creates the descriptor of v.
func BuildDescriptor(v Variable, o Overrides) Descriptor {
	return Descriptor{
		SourceName:      v.Name,
		DestinationName: o.DestinationName(v.Name),
		DataType:        VariableType(v.Type),
		Attributes:      o.attributes(v.Name, v.Attributes),
	}
}

// BuildDescriptors creates descriptors for all variables in f, in
// file order.
func BuildDescriptors(f *SourceFile, o Overrides) []Descriptor {
	d := make([]Descriptor, len(f.Variables))
	for i, v := range f.Variables {
		d[i] = BuildDescriptor(v, o)
	}
	return d
}

// dataVariableFormat is left-justified; the attribute lines carry their
// own indentation.
const dataVariableFormat = `
<dataVariable>
  <sourceName>%s</sourceName>
  <destinationName>%s</destinationName>
  <dataType>%s</dataType>
  <addAttributes>
%s
  </addAttributes>
</dataVariable>`

// Render returns the <dataVariable> block for d, starting with a newline.
func (d Descriptor) Render() string {
	return fmt.Sprintf(dataVariableFormat,
		textEscaper.Replace(d.SourceName), textEscaper.Replace(d.DestinationName),
		d.DataType, RenderAttributes(d.Attributes))
}

// RenderDescriptors renders each descriptor and joins the blocks with
// newlines.
func RenderDescriptors(ds []Descriptor) string {
	blocks := make([]string, len(ds))
	for i, d := range ds {
		blocks[i] = d.Render()
	}
	return strings.Join(blocks, "\n")
}
