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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/erddapxml"
	"github.com/spatialmodel/erddapxml/cloud"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ErrMissingKey is returned when a required configuration key is not set.
var ErrMissingKey = errors.New("erddaputil: missing required configuration key")

// Configuration keys.
const (
	keyFragmentsPath    = "fragments_path"
	keyDataPath         = "datapath"
	keyERDDAPDataPath   = "erddap_datapath"
	keyOutName          = "outname"
	keyAddHeaderFooter  = "add_header_footer"
	keyGroups           = "cdm_data_type_dims"
	keyOverrides        = "user_config_variable_attrs"
	keySubset           = "use_cdm_vars_as_subset"
	keyFragmentTemplate = "fragment_template"
	keyHeaderTemplate   = "header_template"
	keyOutputPath       = "output_path"
	keyLogLevel         = "log_level"
)

// Default template file names within fragments_path.
const (
	FragmentFile = "datasets.fragment.xml"
	HeaderFile   = "datasets.header.xml"
)

// Config holds the settings for one run.
type Config struct {
	FragmentsPath   string
	DataPath        string
	ERDDAPDataPath  string
	OutName         string
	AddHeaderFooter bool

	Groups    erddapxml.DimensionGroups
	Overrides erddapxml.Overrides

	SubsetFromGroups bool

	// FragmentTemplate and HeaderTemplate may be local paths or
	// http(s) or blob URLs.
	FragmentTemplate string
	HeaderTemplate   string

	// OutputPath is a local directory or a blob storage URL.
	OutputPath string

	LogLevel string
}

// LoadConfig reads the YAML configuration file at path into cfg and
// checks it. Scalar values come from cfg, so environment variables and
// bound flags take precedence over the file. The dimension groups and
// variable overrides are read from the file directly, because their
// keys are case-sensitive and their order matters.
func LoadConfig(cfg *viper.Viper, path string) (*Config, error) {
	cfg.SetConfigFile(path)
	cfg.SetConfigType("yaml")
	if err := cfg.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("erddaputil: problem reading configuration file: %v", err)
	}

	c := new(Config)
	var err error
	for _, r := range []struct {
		key string
		dst *string
	}{
		{keyFragmentsPath, &c.FragmentsPath},
		{keyDataPath, &c.DataPath},
		{keyERDDAPDataPath, &c.ERDDAPDataPath},
		{keyOutName, &c.OutName},
	} {
		if *r.dst, err = requiredString(cfg, r.key); err != nil {
			return nil, err
		}
	}
	if !cfg.IsSet(keyAddHeaderFooter) {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, keyAddHeaderFooter)
	}
	if c.AddHeaderFooter, err = cast.ToBoolE(cfg.Get(keyAddHeaderFooter)); err != nil {
		return nil, fmt.Errorf("erddaputil: %s: %v", keyAddHeaderFooter, err)
	}
	if cfg.IsSet(keySubset) {
		if c.SubsetFromGroups, err = cast.ToBoolE(cfg.Get(keySubset)); err != nil {
			return nil, fmt.Errorf("erddaputil: %s: %v", keySubset, err)
		}
	}

	c.FragmentTemplate = optionalString(cfg, keyFragmentTemplate, filepath.Join(c.FragmentsPath, FragmentFile))
	c.HeaderTemplate = optionalString(cfg, keyHeaderTemplate, filepath.Join(c.FragmentsPath, HeaderFile))
	c.OutputPath = optionalString(cfg, keyOutputPath, c.FragmentsPath)
	if erddapxml.IsURL(c.OutputPath) && !cloud.IsBlob(c.OutputPath) {
		return nil, fmt.Errorf("erddaputil: %s '%s': must be a local directory or a file://, gs:// or s3:// location",
			keyOutputPath, c.OutputPath)
	}
	c.LogLevel = optionalString(cfg, keyLogLevel, "info")
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return nil, fmt.Errorf("erddaputil: %s: %v", keyLogLevel, err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("erddaputil: problem reading configuration file: %v", err)
	}
	if c.Groups, c.Overrides, err = parseSections(b); err != nil {
		return nil, err
	}
	return c, nil
}

// requiredString returns the environment-expanded value of key, or an
// error wrapping ErrMissingKey if it is unset or empty.
func requiredString(cfg *viper.Viper, key string) (string, error) {
	if !cfg.IsSet(key) {
		return "", fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	s, err := cast.ToStringE(cfg.Get(key))
	if err != nil {
		return "", fmt.Errorf("erddaputil: %s: %v", key, err)
	}
	s = os.ExpandEnv(s)
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingKey, key)
	}
	return s, nil
}

func optionalString(cfg *viper.Viper, key, def string) string {
	if s := os.ExpandEnv(cfg.GetString(key)); s != "" {
		return s
	}
	return def
}

// Assembler returns an assembler for the configured run. Templates
// are expected to be local files.
func (c *Config) Assembler(log logrus.FieldLogger) *erddapxml.Assembler {
	return &erddapxml.Assembler{
		FragmentTemplate: c.FragmentTemplate,
		HeaderTemplate:   c.HeaderTemplate,
		DataDir:          c.DataPath,
		ERDDAPDataPath:   c.ERDDAPDataPath,
		OutputDir:        c.OutputPath,
		OutName:          c.OutName,
		Groups:           c.Groups,
		Overrides:        c.Overrides,
		AddHeaderFooter:  c.AddHeaderFooter,
		SubsetFromGroups: c.SubsetFromGroups,
		Log:              log,
	}
}

// parseSections decodes the dimension group and variable override
// sections of a YAML configuration document, keeping the order in
// which they are written.
func parseSections(b []byte) (erddapxml.DimensionGroups, erddapxml.Overrides, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, nil, fmt.Errorf("erddaputil: problem reading configuration file: %v", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("erddaputil: configuration file must be a YAML mapping")
	}
	var groups erddapxml.DimensionGroups
	var overrides erddapxml.Overrides
	for i := 0; i+1 < len(root.Content); i += 2 {
		var err error
		switch root.Content[i].Value {
		case keyGroups:
			groups, err = parseGroups(root.Content[i+1])
		case keyOverrides:
			overrides, err = parseOverrides(root.Content[i+1])
		}
		if err != nil {
			return nil, nil, err
		}
	}
	return groups, overrides, nil
}

// parseGroups decodes a mapping of group name to a list of dimension
// names.
func parseGroups(n *yaml.Node) (erddapxml.DimensionGroups, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("erddaputil: %s (line %d): must be a mapping of group name to dimensions", keyGroups, n.Line)
	}
	var groups erddapxml.DimensionGroups
	for i := 0; i+1 < len(n.Content); i += 2 {
		g := erddapxml.DimensionGroup{Name: n.Content[i].Value}
		v := n.Content[i+1]
		switch {
		case isNull(v):
		case v.Kind == yaml.ScalarNode:
			g.Dimensions = []string{v.Value}
		default:
			if err := v.Decode(&g.Dimensions); err != nil {
				return nil, fmt.Errorf("erddaputil: %s.%s (line %d): %v", keyGroups, g.Name, v.Line, err)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// parseOverrides decodes a mapping of variable name to override
// settings. Each entry may have a destinationName and an attributes
// mapping.
func parseOverrides(n *yaml.Node) (erddapxml.Overrides, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("erddaputil: %s (line %d): must be a mapping of variable name to settings", keyOverrides, n.Line)
	}
	o := make(erddapxml.Overrides, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name, v := n.Content[i].Value, n.Content[i+1]
		var ov erddapxml.VariableOverride
		if isNull(v) {
			o[name] = ov
			continue
		}
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("erddaputil: %s.%s (line %d): must be a mapping", keyOverrides, name, v.Line)
		}
		for j := 0; j+1 < len(v.Content); j += 2 {
			field, fv := v.Content[j].Value, v.Content[j+1]
			switch field {
			case "destinationName":
				ov.DestinationName = os.ExpandEnv(fv.Value)
			case "attributes":
				atts, err := parseAttributes(fv)
				if err != nil {
					return nil, fmt.Errorf("erddaputil: %s.%s: %v", keyOverrides, name, err)
				}
				ov.Attributes = atts
			default:
				return nil, fmt.Errorf("erddaputil: %s.%s (line %d): unknown setting %q", keyOverrides, name, fv.Line, field)
			}
		}
		o[name] = ov
	}
	return o, nil
}

func parseAttributes(n *yaml.Node) ([]erddapxml.Attribute, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("attributes (line %d): must be a mapping", n.Line)
	}
	atts := make([]erddapxml.Attribute, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v interface{}
		if err := n.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("attribute %s (line %d): %v", n.Content[i].Value, n.Content[i+1].Line, err)
		}
		atts = append(atts, erddapxml.Attribute{
			Name:  n.Content[i].Value,
			Value: erddapxml.NewAttributeValue(v),
		})
	}
	return atts, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
