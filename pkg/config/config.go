// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config holds the run configuration and its file loader. Values
// come from defaults, then an optional config file, then command-line flags,
// each layer overriding the previous one.
package config

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// DefaultReplacement is the brand string substituted for every matched token
// when no override is configured.
const DefaultReplacement = "Samsoft OS X Beta 2.0 MARIO OS"

// 🔧 Config is the full configuration for one run. The apply/dry-run switch
// is deliberately not part of it: a config file must never be able to turn a
// preview into a mutation, so apply stays flag-only.
type Config struct {
	Root        string   `json:"root,omitempty" yaml:"root,omitempty" toml:"root,omitempty" hcl:"root,optional"`
	Replacement string   `json:"replacement,omitempty" yaml:"replacement,omitempty" toml:"replacement,omitempty" hcl:"replacement,optional"`
	Contents    bool     `json:"contents,omitempty" yaml:"contents,omitempty" toml:"contents,omitempty" hcl:"contents,optional"`
	Excludes    []string `json:"excludes,omitempty" yaml:"excludes,omitempty" toml:"excludes,omitempty" hcl:"excludes,optional"`
	Verbose     bool     `json:"verbose,omitempty" yaml:"verbose,omitempty" toml:"verbose,omitempty" hcl:"verbose,optional"`

	location string // file this config was loaded from, empty for defaults
}

// 🏭 Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Root:        ".",
		Replacement: DefaultReplacement,
	}
}

// Location returns the path of the config file this was loaded from, or an
// empty string when defaults applied.
func (c *Config) Location() string {
	return c.location
}

// ✅ Validate checks the configuration for usability.
func (c *Config) Validate(ctx context.Context) error {
	if c.Root == "" {
		return errors.Errorf("root is required")
	}
	if c.Replacement == "" {
		return errors.Errorf("replacement is required")
	}
	for _, pattern := range c.Excludes {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// String returns a one-line summary for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("root=%s replacement=%q contents=%t excludes=%d verbose=%t",
		c.Root, c.Replacement, c.Contents, len(c.Excludes), c.Verbose)
}

// applyDefaults fills unset fields on a file-loaded config.
func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "."
	}
	if c.Replacement == "" {
		c.Replacement = DefaultReplacement
	}
}
