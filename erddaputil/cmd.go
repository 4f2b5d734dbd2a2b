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

// Package erddaputil contains the command-line interface and
// configuration handling for erddapxml.
package erddaputil

import (
	"context"
	"fmt"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/erddapxml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options that can also be set
	// from the command line. Required options are only read from
	// the configuration file or the environment.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "output_path",
			usage: `
              output_path specifies the directory or blob storage location
              (file://, gs://, or s3://) where datasets.<outname>.xml is written.
              The default is fragments_path.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
		{
			name: "log_level",
			usage: `
              log_level specifies the minimum level of log messages
              (debug, info, warning, or error).`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.Flags()},
		},
	}

	Cfg = newConfig()

	for _, option := range options {
		for _, set := range option.flagsets {
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				set.Bool(option.name, option.defaultVal.(bool), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	// Link the commands together.
	Root.AddCommand(versionCmd)
}

// newConfig returns a configuration holder that also reads
// environment variables in the format 'ERDDAPXML_var'.
func newConfig() *viper.Viper {
	cfg := viper.New()
	cfg.SetEnvPrefix("ERDDAPXML")
	cfg.AutomaticEnv()
	return cfg
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "erddapxml <config.yaml>",
	Short: "Assemble an ERDDAP datasets.xml file from netCDF files.",
	Long: `erddapxml reads every netCDF file in the configured data directory and
creates one ERDDAP <dataset> block per file from a fragment template, with
one <dataVariable> block per variable in the file. The blocks are written
to datasets.<outname>.xml, optionally wrapped in a header and the closing
</erddapDatasets> tag.

The only argument is the path to a YAML configuration file. Scalar
configuration values can also be set using environment variables in the
format 'ERDDAPXML_var' where 'var' is the name of the variable to be set,
and may themselves contain environment variables.`,
	Args:              cobra.ExactArgs(1),
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(Cfg, args[0])
		if err != nil {
			return err
		}
		log, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		return Run(context.Background(), cfg, log)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of erddapxml.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("erddapxml v%s\n", erddapxml.Version)
	},
	DisableAutoGenTag: true,
}

// newLogger returns a logger writing text-formatted messages at or
// above the given level.
func newLogger(level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("erddaputil: log_level: %v", err)
	}
	log := logrus.New()
	log.Level = lvl
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}
	return log, nil
}

// Run assembles the datasets.xml document described by cfg and
// writes it to its output location.
func Run(ctx context.Context, cfg *Config, log logrus.FieldLogger) error {
	fragment, err := maybeDownload(ctx, cfg.FragmentTemplate)
	if err != nil {
		return err
	}
	a := cfg.Assembler(log)
	a.FragmentTemplate = fragment
	if cfg.AddHeaderFooter {
		if a.HeaderTemplate, err = maybeDownload(ctx, cfg.HeaderTemplate); err != nil {
			return err
		}
	}
	return a.Run(ctx, NewWriter(cfg.OutputPath))
}
