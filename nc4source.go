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
	"sort"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// readNetCDF4 reads the header of a netCDF-4 or CDF-5 file.
// Only the root group is read. CDF-5 headers are listed in file order.
// For HDF5 files lexical must be true: the reader only orders HDF5
// variables by creation order, which most files do not track, and
// returns their attributes in map order, so both are sorted by name.
func readNetCDF4(path string, lexical bool) (*SourceFile, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer g.Close()

	sf := &SourceFile{Attributes: nc4Attributes(g.Attributes(), lexical)}
	names := g.ListVariables()
	if lexical {
		sort.Strings(names)
	}
	for _, name := range names {
		vg, err := g.GetVarGetter(name)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", name, err)
		}
		sf.Variables = append(sf.Variables, Variable{
			Name:       name,
			Type:       vg.GoType(),
			Dimensions: vg.Dimensions(),
			Attributes: nc4Attributes(vg.Attributes(), lexical),
		})
	}
	return sf, nil
}

func nc4Attributes(am api.AttributeMap, lexical bool) []Attribute {
	if am == nil {
		return nil
	}
	keys := am.Keys()
	if lexical {
		keys = append([]string(nil), keys...)
		sort.Strings(keys)
	}
	atts := make([]Attribute, 0, len(keys))
	for _, k := range keys {
		v, ok := am.Get(k)
		if !ok {
			continue
		}
		atts = append(atts, Attribute{Name: k, Value: NewAttributeValue(v)})
	}
	return atts
}
