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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnknownFormat is returned by OpenSource for files that are neither
// classic netCDF nor netCDF-4.
var ErrUnknownFormat = errors.New("erddapxml: not a classic netCDF or netCDF-4 file")

// A Variable is a named data array in a SourceFile.
type Variable struct {
	Name string

	// Type is the storage type identifier, e.g. "float64" or "|S1".
	Type string

	Dimensions []string

	// Attributes are in the order they are stored in the file.
	Attributes []Attribute
}

// A SourceFile holds the header information of a netCDF file.
type SourceFile struct {
	Path      string
	Variables []Variable

	// Attributes holds the global attributes.
	Attributes []Attribute
}

var (
	magicCDF  = []byte("CDF")
	magicHDF5 = []byte("\x89HDF")
)

// OpenSource reads the header of the netCDF file at path. Classic and
// 64-bit offset files are read with github.com/ctessum/cdf; netCDF-4 and
// 64-bit data (CDF-5) files with github.com/batchatco/go-native-netcdf.
// netCDF-4 variables and attributes are listed in lexical order.
// The file is closed before OpenSource returns.
func OpenSource(path string) (*SourceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("erddapxml: opening source file: %w", err)
	}
	magic := make([]byte, 4)
	_, err = io.ReadFull(f, magic)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("erddapxml: reading %s: %w", path, ErrUnknownFormat)
	}

	var sf *SourceFile
	switch {
	case bytes.HasPrefix(magic, magicCDF) && (magic[3] == 1 || magic[3] == 2):
		sf, err = readClassic(path)
	case bytes.HasPrefix(magic, magicCDF) && magic[3] == 5:
		sf, err = readNetCDF4(path, false)
	case bytes.Equal(magic, magicHDF5):
		sf, err = readNetCDF4(path, true)
	default:
		return nil, fmt.Errorf("erddapxml: reading %s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("erddapxml: reading %s: %w", path, err)
	}
	sf.Path = path
	return sf, nil
}
