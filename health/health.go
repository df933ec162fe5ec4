// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health provides utilities for monitoring the healthiness of a facade.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/canvas-medical/fhirstarter-go/fhir"
)

// Checker represents anything which can report its current state of health.
type Checker interface {
	CheckHealth(context.Context) error
}

// CheckerFunc is an adapter to allow the use of ordinary functions as [Checker]s.
type CheckerFunc func(context.Context) error

// CheckHealth implements the [Checker] interface.
func (f CheckerFunc) CheckHealth(ctx context.Context) error {
	return f(ctx)
}

// Toggle is a [Checker] with 2 states: healthy or unhealthy. It is safe
// for concurrent use. The zero value reports unhealthy.
type Toggle struct {
	healthy atomic.Bool
}

// MarkHealthy changes the state to healthy.
func (t *Toggle) MarkHealthy() {
	t.healthy.Store(true)
}

// MarkUnhealthy changes the state to unhealthy.
func (t *Toggle) MarkUnhealthy() {
	t.healthy.Store(false)
}

// ErrUnhealthy reports that a [Checker] considers the facade unhealthy.
var ErrUnhealthy = errors.New("health: unhealthy")

// CheckHealth implements the [Checker] interface.
func (t *Toggle) CheckHealth(ctx context.Context) error {
	if t.healthy.Load() {
		return nil
	}
	return ErrUnhealthy
}

// All folds multiple [Checker]s with logical AND semantics, failing fast
// on the first unhealthy checker.
type All []Checker

// CheckHealth implements the [Checker] interface.
func (cs All) CheckHealth(ctx context.Context) error {
	for _, c := range cs {
		err := c.CheckHealth(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// NewHandler wraps a [Checker] in a [http.Handler] which responds with an
// OperationOutcome document: 200 when healthy, 503 otherwise. Checker
// failure detail is never exposed to the caller.
func NewHandler(c Checker) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		issue := fhir.Issue{
			Severity: fhir.SeverityInformation,
			Code:     fhir.IssueInformational,
			Details:  fhir.IssueDetails{Text: "Healthy"},
		}

		err := c.CheckHealth(r.Context())
		if err != nil {
			status = http.StatusServiceUnavailable
			issue = fhir.Issue{
				Severity: fhir.SeverityError,
				Code:     fhir.IssueProcessing,
				Details:  fhir.IssueDetails{Text: "Service unavailable"},
			}
		}

		doc, err := fhir.Document(fhir.NewOperationOutcome(issue))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body, err := json.Marshal(doc)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/fhir+json")
		w.WriteHeader(status)
		w.Write(body)
	})
}
