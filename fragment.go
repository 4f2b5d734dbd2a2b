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
	"fmt"
	"os"
	"strings"
)

// Fragment placeholders.
const (
	FieldDatasetID      = "dataset_id"
	FieldFilename       = "filename"
	FieldDataVariables  = "dataVariables"
	FieldCDMVariables   = "cdm_variables"
	FieldSubsetVars     = "subsetVariables"
	FieldERDDAPDataPath = "erddap_datapath"
)

// Fields lists the placeholders a dataset fragment may use.
var Fields = []string{
	FieldDatasetID, FieldFilename, FieldDataVariables,
	FieldCDMVariables, FieldSubsetVars, FieldERDDAPDataPath,
}

var (
	// ErrUndefinedPlaceholder is returned when a template refers to a
	// placeholder that has no value.
	ErrUndefinedPlaceholder = errors.New("erddapxml: undefined template placeholder")

	// ErrTemplateSyntax is returned for unbalanced braces.
	ErrTemplateSyntax = errors.New("erddapxml: invalid template")
)

// A Fragment is a text template with {name} placeholders.
// {{ and }} stand for literal braces.
type Fragment struct {
	// literals has one more element than names; the output is
	// literals[0] + value(names[0]) + literals[1] + ...
	literals []string
	names    []string
}

// ParseFragment parses a template.
func ParseFragment(s string) (*Fragment, error) {
	f := new(Fragment)
	var lit strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{' && i+1 < len(s) && s[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(s) && s[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexAny(s[i+1:], "{}")
			if end < 0 || s[i+1+end] != '}' {
				return nil, fmt.Errorf("%w: unclosed '{' at offset %d", ErrTemplateSyntax, i)
			}
			f.literals = append(f.literals, lit.String())
			lit.Reset()
			f.names = append(f.names, s[i+1:i+1+end])
			i += end + 1
		case c == '}':
			return nil, fmt.Errorf("%w: single '}' at offset %d", ErrTemplateSyntax, i)
		default:
			lit.WriteByte(c)
		}
	}
	f.literals = append(f.literals, lit.String())
	return f, nil
}

// LoadFragment reads and parses the template file at path.
func LoadFragment(path string) (*Fragment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erddapxml: loading template: %w", err)
	}
	f, err := ParseFragment(string(b))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return f, nil
}

// Check returns an error wrapping ErrUndefinedPlaceholder if the
// template uses a placeholder that is not in names.
func (f *Fragment) Check(names []string) error {
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, n := range f.names {
		if !known[n] {
			return fmt.Errorf("%w: {%s}", ErrUndefinedPlaceholder, n)
		}
	}
	return nil
}

// Fill substitutes values into the template. Values that the template
// does not use are ignored.
func (f *Fragment) Fill(values map[string]string) (string, error) {
	var b strings.Builder
	for i, n := range f.names {
		v, ok := values[n]
		if !ok {
			return "", fmt.Errorf("%w: {%s}", ErrUndefinedPlaceholder, n)
		}
		b.WriteString(f.literals[i])
		b.WriteString(v)
	}
	b.WriteString(f.literals[len(f.literals)-1])
	return b.String(), nil
}
