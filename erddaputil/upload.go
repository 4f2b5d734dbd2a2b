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

package erddaputil

import (
	"context"
	"fmt"

	"github.com/spatialmodel/erddapxml"
	"github.com/spatialmodel/erddapxml/cloud"
)

// BlobWriter writes output to blob storage.
type BlobWriter struct{}

// WriteOutput implements erddapxml.OutputWriter. path must be a blob
// URL such as gs://bucket/datasets.x.xml.
func (BlobWriter) WriteOutput(ctx context.Context, path string, data []byte) error {
	if err := cloud.WriteBlob(ctx, path, data); err != nil {
		return fmt.Errorf("erddaputil: uploading output to '%s': %v", path, err)
	}
	return nil
}

// NewWriter returns a writer suitable for the given output location:
// a BlobWriter for blob storage URLs and an erddapxml.FileWriter
// otherwise.
func NewWriter(outputPath string) erddapxml.OutputWriter {
	if cloud.IsBlob(outputPath) {
		return BlobWriter{}
	}
	return erddapxml.FileWriter{}
}
