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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Footer closes a complete datasets.xml document.
const Footer = "</erddapDatasets>"

// SourceExt is the extension of the source files read from DataDir.
const SourceExt = ".nc"

// Assembler creates datasets.xml content for every netCDF file in a
// directory.
type Assembler struct {
	// FragmentTemplate is the path to the per-dataset template.
	FragmentTemplate string

	// HeaderTemplate is the path to the document header. It is only
	// read when AddHeaderFooter is true.
	HeaderTemplate string

	// DataDir holds the source files.
	DataDir string

	// ERDDAPDataPath is substituted for {erddap_datapath}.
	ERDDAPDataPath string

	// OutputDir and OutName determine OutputPath.
	OutputDir string
	OutName   string

	Groups    DimensionGroups
	Overrides Overrides

	AddHeaderFooter bool

	// SubsetFromGroups fills {subsetVariables} with the variables of
	// the first dimension group.
	SubsetFromGroups bool

	// Log receives progress messages. If nil, the standard logrus
	// logger is used.
	Log logrus.FieldLogger
}

func (a *Assembler) log() logrus.FieldLogger {
	if a.Log == nil {
		return logrus.StandardLogger()
	}
	return a.Log
}

// OutputPath returns the location of the assembled document.
func (a *Assembler) OutputPath() string {
	name := fmt.Sprintf("datasets.%s.xml", a.OutName)
	if IsURL(a.OutputDir) {
		return strings.TrimSuffix(a.OutputDir, "/") + "/" + name
	}
	return filepath.Join(a.OutputDir, name)
}

// IsURL returns whether path has a URL scheme such as file:// or gs://.
func IsURL(path string) bool {
	i := strings.Index(path, "://")
	return i > 0 && !strings.ContainsAny(path[:i], `/\`)
}

// SourceFiles returns the source files in DataDir in lexical order.
func (a *Assembler) SourceFiles() ([]string, error) {
	if _, err := os.Stat(a.DataDir); err != nil {
		return nil, fmt.Errorf("erddapxml: listing source files: %w", err)
	}
	matches, err := filepath.Glob(filepath.Join(a.DataDir, "*"+SourceExt))
	if err != nil {
		return nil, fmt.Errorf("erddapxml: listing source files: %w", err)
	}
	var files []string
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil {
			return nil, fmt.Errorf("erddapxml: listing source files: %w", err)
		}
		if fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

// DatasetID returns the dataset identifier for a source file name: the
// part of the name before the first ".nc".
func DatasetID(filename string) string {
	return strings.SplitN(filepath.Base(filename), SourceExt, 2)[0]
}

// Dataset fills the fragment template for one source file. The dataset
// id, file name and ERDDAP data path are XML-escaped.
func (a *Assembler) Dataset(frag *Fragment, f *SourceFile) (string, error) {
	matches := MatchGroups(a.Groups, f, a.Overrides)
	name := filepath.Base(f.Path)
	return frag.Fill(map[string]string{
		FieldDatasetID:      attrEscaper.Replace(DatasetID(name)),
		FieldFilename:       attrEscaper.Replace(name),
		FieldDataVariables:  RenderDescriptors(BuildDescriptors(f, a.Overrides)),
		FieldCDMVariables:   CDMTags(matches),
		FieldSubsetVars:     SubsetTag(matches, a.SubsetFromGroups),
		FieldERDDAPDataPath: attrEscaper.Replace(a.ERDDAPDataPath),
	})
}

// Assemble returns the complete document. Any error aborts the whole
// run.
func (a *Assembler) Assemble(ctx context.Context) (string, error) {
	frag, err := LoadFragment(a.FragmentTemplate)
	if err != nil {
		return "", err
	}
	if err := frag.Check(Fields); err != nil {
		return "", fmt.Errorf("%w (%s)", err, a.FragmentTemplate)
	}
	var header string
	if a.AddHeaderFooter {
		b, err := os.ReadFile(a.HeaderTemplate)
		if err != nil {
			return "", fmt.Errorf("erddapxml: loading header: %w", err)
		}
		header = string(b)
	}

	files, err := a.SourceFiles()
	if err != nil {
		return "", err
	}
	datasets := make([]string, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		f, err := OpenSource(path)
		if err != nil {
			return "", err
		}
		d, err := a.Dataset(frag, f)
		if err != nil {
			return "", fmt.Errorf("erddapxml: filling template for %s: %w", path, err)
		}
		datasets = append(datasets, d)
		a.log().WithFields(logrus.Fields{
			"dataset":   DatasetID(path),
			"file":      path,
			"variables": len(f.Variables),
		}).Info("assembled dataset")
	}

	body := strings.Join(datasets, "\n")
	if a.AddHeaderFooter {
		return header + "\n" + body + "\n" + Footer, nil
	}
	return body, nil
}

// An OutputWriter stores the assembled document.
type OutputWriter interface {
	WriteOutput(ctx context.Context, path string, data []byte) error
}

// FileWriter writes output to the local filesystem.
type FileWriter struct{}

// WriteOutput implements OutputWriter.
func (FileWriter) WriteOutput(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("erddapxml: writing output: %w", err)
	}
	return nil
}

// Run assembles the document and writes it to OutputPath using w.
// Nothing is written if assembly fails.
func (a *Assembler) Run(ctx context.Context, w OutputWriter) error {
	out, err := a.Assemble(ctx)
	if err != nil {
		return err
	}
	path := a.OutputPath()
	if err := w.WriteOutput(ctx, path, []byte(out)); err != nil {
		return err
	}
	a.log().WithField("output", path).Info("wrote datasets.xml")
	return nil
}
