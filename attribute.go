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
	"math"
	"reflect"
	"strconv"
	"strings"
)

// An AttributeValue is the value of a netCDF or user-supplied attribute.
// It is one of ScalarNumber, NumberArray, List or ScalarText, and is
// classified once, when it is read.
type AttributeValue interface {
	// TypeTag returns the ERDDAP type of the value.
	TypeTag() string

	// String returns the text written between the <att> tags.
	String() string
}

// ScalarNumber is a single number, such as a one-element netCDF attribute.
type ScalarNumber struct {
	// Type is the source type identifier, e.g. "int32".
	Type string
	Text string
}

// TypeTag implements AttributeValue.
func (s ScalarNumber) TypeTag() string { return AttributeType(s.Type) }

func (s ScalarNumber) String() string { return s.Text }

// NumberArray is an array of numbers of a single type.
type NumberArray struct {
	// Type is the element type identifier.
	Type  string
	Elems []string
}

// TypeTag implements AttributeValue.
func (n NumberArray) TypeTag() string { return AttributeType(n.Type) }

func (n NumberArray) String() string { return strings.Join(n.Elems, " ") }

// List is a list of values that are not required to share a type.
// Its ERDDAP type is taken from the first element only.
type List struct {
	// FirstType is the runtime type identifier of the first element,
	// or "" if the list is empty.
	FirstType string
	Elems     []string
}

// TypeTag implements AttributeValue.
func (l List) TypeTag() string { return AttributeType(l.FirstType) }

func (l List) String() string { return strings.Join(l.Elems, " ") }

// ScalarText is any other value, most commonly a text attribute.
type ScalarText struct {
	// Type is the runtime type identifier; "str" for text.
	Type string
	Text string
}

// TypeTag implements AttributeValue.
func (s ScalarText) TypeTag() string { return AttributeType(s.Type) }

func (s ScalarText) String() string { return s.Text }

// Text returns a text attribute value.
func Text(s string) ScalarText { return ScalarText{Type: "str", Text: s} }

// NewAttributeValue classifies v. Numeric scalars and one-element
// numeric slices become ScalarNumber, longer or empty numeric slices
// become NumberArray, []string and []interface{} become List, and
// everything else becomes ScalarText.
func NewAttributeValue(v interface{}) AttributeValue {
	switch x := v.(type) {
	case AttributeValue:
		return x
	case string:
		return Text(x)
	case bool:
		return Text(strconv.FormatBool(x))
	case []string:
		l := List{Elems: x}
		if len(x) > 0 {
			l.FirstType = "str"
		}
		return l
	case []interface{}:
		l := List{Elems: make([]string, len(x))}
		for i, e := range x {
			l.Elems[i] = formatValue(e)
		}
		if len(x) > 0 {
			l.FirstType = typeName(x[0])
		}
		return l
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return ScalarText{Type: "nil"}
	}
	if isNumeric(rv.Kind()) {
		return ScalarNumber{Type: kindName(rv.Kind()), Text: formatNumber(rv)}
	}
	if rv.Kind() == reflect.Slice && isNumeric(rv.Type().Elem().Kind()) {
		t := kindName(rv.Type().Elem().Kind())
		if rv.Len() == 1 {
			return ScalarNumber{Type: t, Text: formatNumber(rv.Index(0))}
		}
		a := NumberArray{Type: t, Elems: make([]string, rv.Len())}
		for i := range a.Elems {
			a.Elems[i] = formatNumber(rv.Index(i))
		}
		return a
	}
	return ScalarText{Type: rv.Type().String(), Text: fmt.Sprint(v)}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// kindName returns the type identifier of a numeric kind.
// Platform-sized integers are reported as 64 bit.
func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Int:
		return "int64"
	case reflect.Uint:
		return "uint64"
	}
	return k.String()
}

// typeName returns the runtime type identifier of a list element.
func typeName(v interface{}) string {
	if _, ok := v.(string); ok {
		return "str"
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return "nil"
	}
	if isNumeric(rv.Kind()) {
		return kindName(rv.Kind())
	}
	return rv.Type().String()
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && isNumeric(rv.Kind()) {
		return formatNumber(rv)
	}
	return fmt.Sprint(v)
}

func formatNumber(rv reflect.Value) string {
	switch rv.Kind() {
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return strconv.FormatInt(rv.Int(), 10)
}

// formatFloat formats f the way Python's repr does: positional notation
// with at least one decimal for magnitudes in [1e-4, 1e16), exponent
// notation otherwise.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	a := math.Abs(f)
	if a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, bitSize)
	}
	s := strconv.FormatFloat(f, 'f', -1, bitSize)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// An Attribute is a named attribute value.
type Attribute struct {
	Name  string
	Value AttributeValue
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// RenderAttribute renders a as one ERDDAP <att> line.
func RenderAttribute(a Attribute) string {
	return fmt.Sprintf(`    <att name="%s" type="%s">%s</att>`,
		attrEscaper.Replace(a.Name), a.Value.TypeTag(), textEscaper.Replace(a.Value.String()))
}

// RenderAttributes renders atts one per line, in order.
func RenderAttributes(atts []Attribute) string {
	lines := make([]string, len(atts))
	for i, a := range atts {
		lines[i] = RenderAttribute(a)
	}
	return strings.Join(lines, "\n")
}
