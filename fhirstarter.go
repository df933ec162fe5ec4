// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fhirstarter provides the base config and logging for FHIR facade apps.
package fhirstarter

import (
	"io"
	"log/slog"
	"os"

	"github.com/z5labs/bedrock/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// Logger returns a [slog.Logger] which emits records over the
// OTel log bridge under the given instrumentation scope name.
func Logger(name string) *slog.Logger {
	return otelslog.NewLogger(name)
}

// ConfigSource standardizes the template for configuration of fhirstarter applications.
// The [io.Reader] is expected to be YAML with support for Go templating. Currently,
// only 2 template functions are supported:
//   - env - this allows environment variables to be substituted into the YAML
//   - default - define a default value in case the original value is nil
func ConfigSource(r io.Reader) config.Source {
	return config.FromYaml(
		config.RenderTextTemplate(
			r,
			config.TemplateFunc("env", func(key string) any {
				v, ok := os.LookupEnv(key)
				if ok {
					return v
				}
				return nil
			}),
			config.TemplateFunc("default", func(def, v any) any {
				if v == nil {
					return def
				}
				return v
			}),
		),
	)
}
