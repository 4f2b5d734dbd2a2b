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
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/batchatco/go-native-netcdf/netcdf/util"
	"github.com/ctessum/cdf"
)

type testAttribute struct {
	name string
	val  interface{}
}

type testVariable struct {
	name string
	dims []string
	// typ is a value of the variable's type, as accepted by
	// cdf.Header.AddVariable.
	typ  interface{}
	atts []testAttribute
}

type testFile struct {
	dims    []string
	lengths []int
	vars    []testVariable
	globals []testAttribute
}

// writeClassic writes f as a classic netCDF file at path.
func writeClassic(t *testing.T, path string, f testFile) {
	t.Helper()
	h := cdf.NewHeader(f.dims, f.lengths)
	for _, a := range f.globals {
		h.AddAttribute("", a.name, a.val)
	}
	for _, v := range f.vars {
		h.AddVariable(v.name, v.dims, v.typ)
		for _, a := range v.atts {
			h.AddAttribute(v.name, a.name, a.val)
		}
	}
	h.Define()
	w, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	nc, err := cdf.Create(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range f.vars {
		if err := nc.Fill(v.name); err != nil {
			t.Fatal(err)
		}
	}
}

// profileFile is a small file with variables of every classic type.
var profileFile = testFile{
	dims:    []string{"profile", "z", "strlen"},
	lengths: []int{2, 3, 4},
	vars: []testVariable{
		{
			name: "temp", dims: []string{"profile", "z"}, typ: []float64{},
			atts: []testAttribute{
				{"units", "degC"},
				{"valid_range", []float32{-2, 40}},
				{"_FillValue", []float64{-999}},
			},
		},
		{
			name: "station", dims: []string{"profile", "strlen"}, typ: "",
			atts: []testAttribute{{"long_name", "station name"}},
		},
		{
			name: "qc", dims: []string{"profile", "z"}, typ: []uint8{},
			atts: []testAttribute{
				{"flag_values", []uint8{0, 1, 255}},
				{"missing", []uint8{255}},
			},
		},
		{name: "count", dims: []string{"profile"}, typ: []int32{}, atts: []testAttribute{{"scale", []int16{2}}}},
		{name: "depth", dims: []string{"z"}, typ: []float32{}},
		{name: "level", dims: []string{"z"}, typ: []int16{}},
	},
	globals: []testAttribute{
		{"title", "test profiles"},
		{"version", []int32{3}},
	},
}

// scalarFile is the smallest file ctessum/cdf can write: Define needs
// at least one variable.
var scalarFile = testFile{
	dims:    []string{"x"},
	lengths: []int{1},
	vars:    []testVariable{{name: "v", dims: []string{"x"}, typ: []float64{}}},
}

func TestOpenSource_classic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.nc")
	writeClassic(t, path, profileFile)

	f, err := OpenSource(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path != path {
		t.Errorf("path: %s != %s", f.Path, path)
	}
	want := []Variable{
		{
			Name: "temp", Type: "float64", Dimensions: []string{"profile", "z"},
			Attributes: []Attribute{
				{"units", Text("degC")},
				{"valid_range", NumberArray{Type: "float32", Elems: []string{"-2.0", "40.0"}}},
				{"_FillValue", ScalarNumber{Type: "float64", Text: "-999.0"}},
			},
		},
		{
			Name: "station", Type: "|S1", Dimensions: []string{"profile", "strlen"},
			Attributes: []Attribute{{"long_name", Text("station name")}},
		},
		{
			Name: "qc", Type: "int8", Dimensions: []string{"profile", "z"},
			Attributes: []Attribute{
				{"flag_values", NumberArray{Type: "int8", Elems: []string{"0", "1", "-1"}}},
				{"missing", ScalarNumber{Type: "int8", Text: "-1"}},
			},
		},
		{
			Name: "count", Type: "int32", Dimensions: []string{"profile"},
			Attributes: []Attribute{{"scale", ScalarNumber{Type: "int16", Text: "2"}}},
		},
		{Name: "depth", Type: "float32", Dimensions: []string{"z"}, Attributes: []Attribute{}},
		{Name: "level", Type: "int16", Dimensions: []string{"z"}, Attributes: []Attribute{}},
	}
	if len(f.Variables) != len(want) {
		t.Fatalf("have %d variables, want %d", len(f.Variables), len(want))
	}
	for i, v := range f.Variables {
		if !reflect.DeepEqual(v, want[i]) {
			t.Errorf("variable %d:\nhave %#v\nwant %#v", i, v, want[i])
		}
	}
	wantGlobals := []Attribute{
		{"title", Text("test profiles")},
		{"version", ScalarNumber{Type: "int32", Text: "3"}},
	}
	if !reflect.DeepEqual(f.Attributes, wantGlobals) {
		t.Errorf("global attributes:\nhave %#v\nwant %#v", f.Attributes, wantGlobals)
	}

	if v := findVariable(f, "qc"); v == nil || v.Name != "qc" {
		t.Errorf("qc = %v", v)
	}
}

// findVariable returns the variable named name in f, or nil.
func findVariable(f *SourceFile, name string) *Variable {
	for i := range f.Variables {
		if f.Variables[i].Name == name {
			return &f.Variables[i]
		}
	}
	return nil
}

// testdata/types.nc is a netCDF-4 file holding one scalar, one 1-D and
// one 2-D variable of each numeric type. Its HDF5 groups do not track
// creation order.
func TestOpenSource_netCDF4(t *testing.T) {
	f, err := OpenSource(filepath.Join("testdata", "types.nc"))
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, v := range f.Variables {
		names = append(names, v.Name)
	}
	wantNames := []string{
		"f32", "f32x1", "f32x2", "f64", "f64x1", "f64x2",
		"i16", "i16x1", "i16x2", "i32", "i32x1", "i32x2",
		"i64", "i64x1", "i64x2", "i8", "i8x1", "i8x2",
		"ui16", "ui16x1", "ui16x2", "ui32", "ui32x1", "ui32x2",
		"ui64", "ui64x1", "ui64x2", "ui8", "ui8x1", "ui8x2",
	}
	if !reflect.DeepEqual(names, wantNames) {
		t.Errorf("variables:\nhave %v\nwant %v", names, wantNames)
	}

	for name, want := range map[string]struct {
		typ, dataType string
	}{
		"f32x2":  {"float32", Float},
		"f64":    {"float64", Double},
		"i8x1":   {"int8", Byte},
		"i16":    {"int16", Short},
		"ui16x2": {"uint16", Char},
		"i32":    {"int32", Int},
		"i64x1":  {"int64", Long},
		"ui8":    {"uint8", VariableFallback},
		"ui32":   {"uint32", VariableFallback},
		"ui64x2": {"uint64", VariableFallback},
	} {
		v := findVariable(f, name)
		if v == nil {
			t.Errorf("missing variable %s", name)
			continue
		}
		if v.Type != want.typ {
			t.Errorf("%s type: %s != %s", name, v.Type, want.typ)
		}
		if d := BuildDescriptor(*v, nil); d.DataType != want.dataType {
			t.Errorf("%s data type: %s != %s", name, d.DataType, want.dataType)
		}
		if len(v.Attributes) != 0 {
			t.Errorf("%s attributes: %v", name, v.Attributes)
		}
	}

	// The order does not change between reads.
	for i := 0; i < 5; i++ {
		g, err := OpenSource(filepath.Join("testdata", "types.nc"))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(g.Variables, f.Variables) {
			t.Fatalf("read %d differs from the first read", i)
		}
	}
}

func TestNC4Attributes(t *testing.T) {
	am, err := util.NewOrderedMap(
		[]string{"valid_range", "units", "_FillValue", "long_name"},
		map[string]interface{}{
			"valid_range": []float32{-2, 40},
			"units":       "degC",
			"_FillValue":  float64(-999),
			"long_name":   "sea water temperature",
		})
	if err != nil {
		t.Fatal(err)
	}
	want := `    <att name="_FillValue" type="double">-999.0</att>
    <att name="long_name" type="String">sea water temperature</att>
    <att name="units" type="String">degC</att>
    <att name="valid_range" type="float">-2.0 40.0</att>`
	if have := RenderAttributes(nc4Attributes(am, true)); have != want {
		t.Errorf("lexical:\nhave %s\nwant %s", have, want)
	}

	var names []string
	for _, a := range nc4Attributes(am, false) {
		names = append(names, a.Name)
	}
	if want := []string{"valid_range", "units", "_FillValue", "long_name"}; !reflect.DeepEqual(names, want) {
		t.Errorf("header order: %v != %v", names, want)
	}
	if nc4Attributes(nil, true) != nil {
		t.Error("nil map should give no attributes")
	}
}

func TestOpenSource_unknownFormat(t *testing.T) {
	dir := t.TempDir()
	for name, contents := range map[string]string{
		"text.nc":  "this is not netCDF",
		"short.nc": "CD",
		"empty.nc": "",
		"cdf3.nc":  "CDF\x03 and more",
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := OpenSource(path); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("%s: err = %v, want ErrUnknownFormat", name, err)
		}
	}
}

func TestOpenSource_missing(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "missing.nc"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist error", err)
	}
}
