/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"dirpx.dev/cmodel/apis"
)

const (
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultLogVerbosity represents the default for LogVerbosity.
	// Per-element construction logs are debug-level noise in a large build.
	DefaultLogVerbosity = 1
	// EnvPrefix is the environment prefix honored by Load.
	EnvPrefix = "CMODEL"
)

// Viper keys read by Load.
const (
	KeyMaxUnwrap    = "max_unwrap"
	KeyLogVerbosity = "log_verbosity"
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.LogVerbosity < 0 {
		cfg.LogVerbosity = DefaultLogVerbosity
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		MaxUnwrap:    DefaultMaxUnwrap,
		LogVerbosity: DefaultLogVerbosity,
		Logger:       logr.Discard(),
	}
}

// Load builds an apis.Config from v, layered over the defaults.
// Environment variables prefixed with CMODEL_ override file values.
// A nil v reads from the environment only.
func Load(v *viper.Viper, opts ...Option) apis.Config {
	if v == nil {
		v = viper.New()
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyMaxUnwrap, DefaultMaxUnwrap)
	v.SetDefault(KeyLogVerbosity, DefaultLogVerbosity)

	base := []Option{
		WithMaxUnwrap(v.GetInt(KeyMaxUnwrap)),
		WithLogVerbosity(v.GetInt(KeyLogVerbosity)),
	}
	return NewConfig(append(base, opts...)...)
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithMaxUnwrap sets the MaxUnwrap option.
// A non-positive value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max <= 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithLogVerbosity sets the V-level of per-element construction logs.
// A negative value resets to the default.
func WithLogVerbosity(level int) Option {
	return func(c *apis.Config) {
		if level < 0 {
			c.LogVerbosity = DefaultLogVerbosity
			return
		}
		c.LogVerbosity = level
	}
}

// WithLogger sets the logger.
func WithLogger(logger logr.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = logger
	}
}

// WithZapLogger sets the logger to a logr adapter over z.
// A nil z leaves the current logger unchanged.
func WithZapLogger(z *zap.Logger) Option {
	return func(c *apis.Config) {
		if z == nil {
			return
		}
		c.Logger = zapr.NewLogger(z)
	}
}

// WithTracerProvider sets the tracer provider used around element creation.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *apis.Config) {
		c.TracerProvider = tp
	}
}
