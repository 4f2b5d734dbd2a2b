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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spatialmodel/erddapxml/cloud"
)

// maybeDownload checks if the input is an existing local file.
// If not, and it is an http(s) or blob storage URL, it downloads the
// file and returns the path to the downloaded copy. Other paths are
// returned unchanged.
func maybeDownload(ctx context.Context, p string) (string, error) {
	// Check if local file exists. If it does, return the given path.
	if _, err := os.Stat(p); !os.IsNotExist(err) {
		return p, nil
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return downloadHTTP(ctx, p)
	}
	if cloud.IsBlob(p) {
		return downloadBlob(ctx, p)
	}
	return p, nil
}

// downloadHTTP downloads a file from the specified URL and returns
// the path to the downloaded file.
func downloadHTTP(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("erddaputil: downloading %s: %v", u, err)
	}
	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("erddaputil: downloading %s: %v", u, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("erddaputil: downloading %s: %s", u, resp.Status)
	}
	return saveDownload(path.Base(req.URL.Path), resp.Body)
}

// downloadBlob downloads the specified file from blob storage.
func downloadBlob(ctx context.Context, u string) (string, error) {
	b, err := cloud.ReadBlob(ctx, u)
	if err != nil {
		return "", fmt.Errorf("erddaputil: downloading %s: %v", u, err)
	}
	_, key, err := cloud.SplitURL(u)
	if err != nil {
		return "", err
	}
	return saveDownload(path.Base(key), bytes.NewReader(b))
}

// saveDownload writes r to a file called name in a new temporary
// directory.
func saveDownload(name string, r io.Reader) (string, error) {
	dir, err := os.MkdirTemp("", "erddapxml")
	if err != nil {
		return "", fmt.Errorf("erddaputil: failed creating temporary download directory: %v", err)
	}
	p := filepath.Join(dir, name)
	w, err := os.Create(p)
	if err != nil {
		return "", fmt.Errorf("erddaputil: failed creating file for download: %v", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("erddaputil: saving download %s: %v", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("erddaputil: saving download %s: %v", name, err)
	}
	return p, nil
}
