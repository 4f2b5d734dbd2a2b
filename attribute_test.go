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
	"math"
	"reflect"
	"testing"
)

func TestNewAttributeValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want AttributeValue
		tag  string
		text string
	}{
		{
			name: "int32 array",
			in:   []int32{1, 2, 3},
			want: NumberArray{Type: "int32", Elems: []string{"1", "2", "3"}},
			tag:  "int", text: "1 2 3",
		},
		{
			name: "one-element array",
			in:   []float32{0.1},
			want: ScalarNumber{Type: "float32", Text: "0.1"},
			tag:  "float", text: "0.1",
		},
		{
			name: "empty array",
			in:   []float64{},
			want: NumberArray{Type: "float64", Elems: []string{}},
			tag:  "double", text: "",
		},
		{
			name: "float scalar",
			in:   float64(3),
			want: ScalarNumber{Type: "float64", Text: "3.0"},
			tag:  "double", text: "3.0",
		},
		{
			name: "int scalar",
			in:   42,
			want: ScalarNumber{Type: "int64", Text: "42"},
			tag:  "long", text: "42",
		},
		{
			name: "uint16 scalar",
			in:   []uint16{65},
			want: ScalarNumber{Type: "uint16", Text: "65"},
			tag:  "char", text: "65",
		},
		{
			name: "unsigned array",
			in:   []uint32{1, 4294967295},
			want: NumberArray{Type: "uint32", Elems: []string{"1", "4294967295"}},
			tag:  "float", text: "1 4294967295",
		},
		{
			name: "text",
			in:   "degC",
			want: ScalarText{Type: "str", Text: "degC"},
			tag:  "String", text: "degC",
		},
		{
			name: "bool",
			in:   true,
			want: ScalarText{Type: "str", Text: "true"},
			tag:  "String", text: "true",
		},
		{
			name: "string list",
			in:   []string{"a", "b"},
			want: List{FirstType: "str", Elems: []string{"a", "b"}},
			tag:  "String", text: "a b",
		},
		{
			name: "mixed list starting with text",
			in:   []interface{}{"a", 1, 2.5},
			want: List{FirstType: "str", Elems: []string{"a", "1", "2.5"}},
			tag:  "String", text: "a 1 2.5",
		},
		{
			name: "mixed list starting with a number",
			in:   []interface{}{1, "a"},
			want: List{FirstType: "int64", Elems: []string{"1", "a"}},
			tag:  "long", text: "1 a",
		},
		{
			name: "empty list",
			in:   []interface{}{},
			want: List{Elems: []string{}},
			tag:  "float", text: "",
		},
		{
			name: "nil",
			in:   nil,
			want: ScalarText{Type: "nil"},
			tag:  "float", text: "",
		},
		{
			name: "other",
			in:   map[string]int{},
			want: ScalarText{Type: "map[string]int", Text: "map[]"},
			tag:  "float", text: "map[]",
		},
		{
			name: "already classified",
			in:   ScalarNumber{Type: "int16", Text: "7"},
			want: ScalarNumber{Type: "int16", Text: "7"},
			tag:  "short", text: "7",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v := NewAttributeValue(test.in)
			if !reflect.DeepEqual(v, test.want) {
				t.Errorf("%#v != %#v", v, test.want)
			}
			if tag := v.TypeTag(); tag != test.tag {
				t.Errorf("type: %s != %s", tag, test.tag)
			}
			if text := v.String(); text != test.text {
				t.Errorf("value: %q != %q", text, test.text)
			}
		})
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		f       float64
		bitSize int
		want    string
	}{
		{0, 64, "0.0"},
		{-2.5, 64, "-2.5"},
		{1e-4, 64, "0.0001"},
		{1e-5, 64, "1e-05"},
		{123456789, 64, "123456789.0"},
		{1e15, 64, "1000000000000000.0"},
		{1e16, 64, "1e+16"},
		{1.5e300, 64, "1.5e+300"},
		{float64(float32(0.1)), 32, "0.1"},
		{float64(float32(9.96921e+36)), 32, "9.96921e+36"},
		{math.NaN(), 64, "NaN"},
		{math.Inf(1), 64, "Inf"},
		{math.Inf(-1), 64, "-Inf"},
	}
	for _, test := range tests {
		if have := formatFloat(test.f, test.bitSize); have != test.want {
			t.Errorf("%g: %s != %s", test.f, have, test.want)
		}
	}
}

func TestRenderAttribute(t *testing.T) {
	tests := []struct {
		a    Attribute
		want string
	}{
		{
			a:    Attribute{Name: "units", Value: Text("degC")},
			want: `    <att name="units" type="String">degC</att>`,
		},
		{
			a:    Attribute{Name: "valid_range", Value: NewAttributeValue([]int32{1, 2, 3})},
			want: `    <att name="valid_range" type="int">1 2 3</att>`,
		},
		{
			a:    Attribute{Name: `a"b`, Value: Text("x<y & z>w")},
			want: `    <att name="a&quot;b" type="String">x&lt;y &amp; z&gt;w</att>`,
		},
	}
	for _, test := range tests {
		if have := RenderAttribute(test.a); have != test.want {
			t.Errorf("\nhave %s\nwant %s", have, test.want)
		}
	}
}

func TestRenderAttributes(t *testing.T) {
	atts := []Attribute{
		{Name: "long_name", Value: Text("temperature")},
		{Name: "scale_factor", Value: NewAttributeValue([]float32{0.01})},
		{Name: "flags", Value: NewAttributeValue([]interface{}{"good", "bad"})},
	}
	want := `    <att name="long_name" type="String">temperature</att>
    <att name="scale_factor" type="float">0.01</att>
    <att name="flags" type="String">good bad</att>`
	if have := RenderAttributes(atts); have != want {
		t.Errorf("\nhave %s\nwant %s", have, want)
	}
	if have := RenderAttributes(nil); have != "" {
		t.Errorf("no attributes: %q", have)
	}
}
