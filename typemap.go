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

// Package erddapxml assembles ERDDAP datasets.xml content from the
// variables and attributes stored in netCDF files.
package erddapxml

// ERDDAP data types.
const (
	Byte   = "byte"
	Short  = "short"
	Char   = "char"
	Int    = "int"
	Long   = "long"
	Float  = "float"
	Double = "double"
	String = "String"
)

// Fallback types for identifiers that are not in the type table.
// The variable fallback is the source type name float64 rather than
// an ERDDAP type; ERDDAP reports it when the dataset is loaded.
const (
	AttributeFallback = Float
	VariableFallback  = "float64"
)

// typeTable maps source type identifiers to ERDDAP data types.
// It is never modified.
var typeTable = map[string]string{
	"byte":    Byte,
	"int8":    Byte,
	"int16":   Short,
	"uint16":  Char,
	"int32":   Int,
	"int64":   Long,
	"float":   Float,
	"float32": Float,
	"float64": Double,
	"|S1":     String,
	"string":  String,
	"str":     String,
}

// DataType returns the ERDDAP type corresponding to the source type
// identifier id, and whether id was recognized.
func DataType(id string) (string, bool) {
	t, ok := typeTable[id]
	return t, ok
}

// AttributeType returns the ERDDAP type for an attribute value of
// type id, or AttributeFallback if id is not recognized.
func AttributeType(id string) string {
	if t, ok := typeTable[id]; ok {
		return t
	}
	return AttributeFallback
}

// VariableType returns the ERDDAP type for a variable stored as type id,
// or VariableFallback if id is not recognized.
func VariableType(id string) string {
	if t, ok := typeTable[id]; ok {
		return t
	}
	return VariableFallback
}
