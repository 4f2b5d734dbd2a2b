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

// A DimensionGroup is a named set of dimensions, such as the dimensions
// along which the variables of a CDM profile vary.
type DimensionGroup struct {
	Name       string
	Dimensions []string
}

// DimensionGroups are kept in configuration order; the first group
// supplies the subsetVariables list.
type DimensionGroups []DimensionGroup

// A GroupMatch holds the destination names of the variables that vary
// along at least one dimension of a group.
type GroupMatch struct {
	Name      string
	Variables []string
}

// Joined returns the comma-separated variable list.
func (m GroupMatch) Joined() string { return strings.Join(m.Variables, ",") }

// MatchGroups returns, for each group in order, the destination names
// of the variables in f that have any of the group's dimensions.
// Each variable is listed at most once per group, in file order.
func MatchGroups(groups DimensionGroups, f *SourceFile, o Overrides) []GroupMatch {
	out := make([]GroupMatch, len(groups))
	for i, g := range groups {
		dims := make(map[string]bool, len(g.Dimensions))
		for _, d := range g.Dimensions {
			dims[d] = true
		}
		out[i].Name = g.Name
		for _, v := range f.Variables {
			for _, d := range v.Dimensions {
				if dims[d] {
					out[i].Variables = append(out[i].Variables, o.DestinationName(v.Name))
					break
				}
			}
		}
	}
	return out
}

// CDMTags renders one cdm_<group>_variables attribute per match, one
// per line.
func CDMTags(matches []GroupMatch) string {
	tags := make([]string, len(matches))
	for i, m := range matches {
		tags[i] = fmt.Sprintf(`<att name="cdm_%s_variables">%s</att>`,
			attrEscaper.Replace(m.Name), textEscaper.Replace(m.Joined()))
	}
	return strings.Join(tags, "\n")
}

// SubsetTag renders the subsetVariables attribute from the first match
// only. It returns "" if enabled is false or there are no matches.
func SubsetTag(matches []GroupMatch, enabled bool) string {
	if !enabled || len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(`<att name="subsetVariables">%s</att>`, textEscaper.Replace(matches[0].Joined()))
}
