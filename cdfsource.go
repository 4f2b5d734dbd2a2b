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
	"os"

	"github.com/ctessum/cdf"
)

// readClassic reads the header of a classic or 64-bit offset netCDF file.
func readClassic(path string) (*SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	nc, err := cdf.Open(f)
	if err != nil {
		return nil, err
	}
	h := nc.Header

	sf := &SourceFile{Attributes: classicAttributes(h, "")}
	for _, v := range h.Variables() {
		t, err := classicType(h.ZeroValue(v, 0))
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v, err)
		}
		sf.Variables = append(sf.Variables, Variable{
			Name:       v,
			Type:       t,
			Dimensions: h.Dimensions(v),
			Attributes: classicAttributes(h, v),
		})
	}
	return sf, nil
}

// classicType returns the type identifier of a variable given a zero
// value of its type as returned by cdf.Header.ZeroValue.
func classicType(zero interface{}) (string, error) {
	switch zero.(type) {
	case []uint8:
		return "int8", nil
	case string:
		return "|S1", nil
	case []int16:
		return "int16", nil
	case []int32:
		return "int32", nil
	case []float32:
		return "float32", nil
	case []float64:
		return "float64", nil
	default:
		return "", fmt.Errorf("invalid netCDF type %T", zero)
	}
}

// classicAttributes returns the attributes of variable v, or the global
// attributes if v is "", in file order.
func classicAttributes(h *cdf.Header, v string) []Attribute {
	names := h.Attributes(v)
	atts := make([]Attribute, len(names))
	for i, a := range names {
		val := h.GetAttribute(v, a)
		if b, ok := val.([]uint8); ok {
			// netCDF bytes are signed.
			s := make([]int8, len(b))
			for j, bb := range b {
				s[j] = int8(bb)
			}
			val = s
		}
		atts[i] = Attribute{Name: a, Value: NewAttributeValue(val)}
	}
	return atts
}
