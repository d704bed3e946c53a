// Copyright 2021 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"go.fuchsia.dev/fbsgen/tools/fbs/fbsgen_lua/codegen"
	"go.fuchsia.dev/fbsgen/tools/fbs/lib/fbsgen"
	"go.fuchsia.dev/fbsgen/tools/lib/command"
)

// Config is the contents of a -config file. Flags set on the command line
// take precedence over it.
type Config struct {
	codegen.Options `yaml:",inline"`
	OutputDir       string   `yaml:"output_dir"`
	Formatter       string   `yaml:"formatter"`
	FormatterArgs   []string `yaml:"formatter_args"`
}

func loadConfig(path string) (Config, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("Error reading config: %w", err)
	}
	var cfg Config
	if err := yaml.UnmarshalStrict(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("Error parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// newFormatter builds the formatter the config names. Arguments written
// inline in the formatter command come before formatter_args.
func (c *Config) newFormatter() (fbsgen.Formatter, error) {
	if c.Formatter == "" {
		return fbsgen.NewFormatter(""), nil
	}
	words, err := command.SplitCommand(c.Formatter)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty formatter command %q", c.Formatter)
	}
	args := append(words[1:len(words):len(words)], c.FormatterArgs...)
	return fbsgen.NewFormatter(words[0], args...), nil
}

func (c *Config) String() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(b)
}

// configFlags are the flags shared by the subcommands that generate code.
type configFlags struct {
	path          string
	cfg           Config
	formatterArgs command.StringsFlag
}

func (c *configFlags) register(f *flag.FlagSet, withOutput bool) {
	f.StringVar(&c.path, "config", "", "YAML config file; flags set on the command line override it")
	f.BoolVar(&c.cfg.GenerateObjectAPI, "object-api", false, "also generate the object API (T, UnPack, Pack)")
	f.BoolVar(&c.cfg.EmptyVectorsAsAbsent, "empty-vectors-as-absent", false, "leave vectors of new objects unset instead of empty")
	if withOutput {
		f.StringVar(&c.cfg.OutputDir, "output-dir", ".", "directory the Lua modules are written under")
		f.StringVar(&c.cfg.Formatter, "formatter", "", "command generated sources are piped through, e.g. \"stylua -\"")
		f.Var(&c.formatterArgs, "formatter-arg", "extra argument of the formatter, may be repeated")
	}
}

// resolve merges the config file with the flags that were set explicitly.
func (c *configFlags) resolve(f *flag.FlagSet) (Config, error) {
	cfg := Config{OutputDir: c.cfg.OutputDir}
	if c.path != "" {
		var err error
		if cfg, err = loadConfig(c.path); err != nil {
			return Config{}, err
		}
		if cfg.OutputDir == "" {
			cfg.OutputDir = c.cfg.OutputDir
		}
	}
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "object-api":
			cfg.GenerateObjectAPI = c.cfg.GenerateObjectAPI
		case "empty-vectors-as-absent":
			cfg.EmptyVectorsAsAbsent = c.cfg.EmptyVectorsAsAbsent
		case "output-dir":
			cfg.OutputDir = c.cfg.OutputDir
		case "formatter":
			cfg.Formatter = c.cfg.Formatter
		case "formatter-arg":
			cfg.FormatterArgs = c.formatterArgs
		}
	})
	return cfg, nil
}
