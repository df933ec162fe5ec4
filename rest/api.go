// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	fhirstarter "github.com/canvas-medical/fhirstarter-go"
	"github.com/canvas-medical/fhirstarter-go/fhir"
	"github.com/canvas-medical/fhirstarter-go/health"
	"github.com/canvas-medical/fhirstarter-go/search"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/openapi-go/openapi3"
)

// ApiOptions holds configuration values used when constructing an [Api]:
// the router, the OpenAPI document, the interaction registry and the
// search parameter catalog.
type ApiOptions struct {
	mux *chi.Mux
	def *openapi3.Spec
	log *slog.Logger

	name    string
	version string

	registry *Registry
	catalog  *search.Catalog
	hook     CapabilityHook

	readiness http.Handler
	liveness  http.Handler
}

// ApiOption is an interface for configuring an [Api].
//
// Common implementations include:
//   - [Create], [Read], [Search], [Update] - register interaction handlers
//   - [WithCatalog] - supply the search parameter catalog
//   - [CustomizeCapability] - hook into capability statement assembly
//   - [Readiness], [Liveness] - configure health probe endpoints
type ApiOption interface {
	ApplyApiOption(*ApiOptions)
}

type apiOptionFunc func(*ApiOptions)

func (f apiOptionFunc) ApplyApiOption(ao *ApiOptions) {
	f(ao)
}

// WithCatalog supplies the catalog search registrations resolve their
// declared parameters against.
func WithCatalog(cat *search.Catalog) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.catalog = cat
	})
}

// CustomizeCapability registers a [CapabilityHook] which is applied to
// every capability statement before it is served.
func CustomizeCapability(hook CapabilityHook) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.hook = hook
	})
}

// Readiness configures a custom readiness probe endpoint at GET /health/readiness.
func Readiness(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.readiness = h
	})
}

// Liveness configures a custom liveness probe endpoint at GET /health/liveness.
func Liveness(h http.Handler) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		ao.liveness = h
	})
}

// Api is a FHIR facade [http.Handler].
//
// Every Api automatically provides:
//   - Capability statement at GET /metadata
//   - OpenAPI 3.0 document at GET /openapi.json
//   - Liveness and readiness probes under /health
//   - OperationOutcome responses for unknown routes and methods
//
// Interactions are registered via [Create], [Read], [Search] and
// [Update] options; registration happens strictly before the Api serves
// its first request and the registry is frozen from then on.
type Api struct {
	router *chi.Mux
}

// NewApi creates a new [Api] with the given server name and version,
// both of which appear in the capability statement and the OpenAPI
// document. It panics with a [*ConfigurationError] if any registration
// is invalid: a misconfigured facade must never start serving.
func NewApi(name, version string, opts ...ApiOption) *Api {
	log := fhirstarter.Logger("github.com/canvas-medical/fhirstarter-go/rest")

	alwaysHealthy := health.CheckerFunc(func(context.Context) error {
		return nil
	})

	ao := &ApiOptions{
		mux: chi.NewMux(),
		def: &openapi3.Spec{
			Openapi: "3.0",
			Info: openapi3.Info{
				Title:   name,
				Version: version,
			},
		},
		log:       log,
		name:      name,
		version:   version,
		registry:  NewRegistry(),
		readiness: health.NewHandler(alwaysHealthy),
		liveness:  health.NewHandler(alwaysHealthy),
	}
	for _, opt := range opts {
		opt.ApplyApiOption(ao)
	}

	synthesizeRoutes(ao)

	ao.mux.Get("/metadata", capabilityHandler(ao, log))
	ao.mux.Get("/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		enc := json.NewEncoder(w)
		err := enc.Encode(ao.def)
		if err == nil {
			return
		}
		log.ErrorContext(
			r.Context(),
			"failed to encode openapi schema to json",
			slog.Any("error", err),
		)
	})
	ao.mux.Method(http.MethodGet, "/health/readiness", ao.readiness)
	ao.mux.Method(http.MethodGet, "/health/liveness", ao.liveness)

	errHandler := &outcomeHandler{log: log}
	ao.mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		err := outcomeError(http.StatusNotFound, fhir.Issue{
			Severity: fhir.SeverityError,
			Code:     fhir.IssueNotFound,
			Details:  fhir.IssueDetails{Text: "Unknown resource path"},
		})
		errHandler.OnError(r.Context(), w, err, negotiateFormat(r))
	})
	ao.mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		err := outcomeError(http.StatusMethodNotAllowed, fhir.Issue{
			Severity: fhir.SeverityError,
			Code:     fhir.IssueNotSupported,
			Details:  fhir.IssueDetails{Text: "Interaction not supported"},
		})
		errHandler.OnError(r.Context(), w, err, negotiateFormat(r))
	})

	return &Api{
		router: ao.mux,
	}
}

// ServeHTTP implements the [http.Handler] interface.
func (api *Api) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	api.router.ServeHTTP(w, req)
}
