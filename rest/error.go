// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"fmt"
	"net/http"

	"github.com/canvas-medical/fhirstarter-go/fhir"
)

// ConfigurationError reports an invalid registration: a duplicate
// (resource type, operation) pair, a search parameter missing from the
// catalog, or a reserved parameter name. It is raised as a panic from
// [NewApi] so a misconfigured facade never starts serving.
type ConfigurationError struct {
	Detail string
}

func (e *ConfigurationError) Error() string {
	return "rest: " + e.Detail
}

func configErrorf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{
		Detail: fmt.Sprintf(format, args...),
	}
}

// OutcomeError is the result type for every request-time failure. It
// carries the HTTP status together with the fully built OperationOutcome,
// so no context needs to be attached after the point of failure.
type OutcomeError struct {
	Status  int
	Outcome *fhir.OperationOutcome
}

func (e *OutcomeError) Error() string {
	if len(e.Outcome.Issue) == 0 {
		return http.StatusText(e.Status)
	}
	return e.Outcome.Issue[0].Details.Text
}

func outcomeError(status int, issues ...fhir.Issue) *OutcomeError {
	return &OutcomeError{
		Status:  status,
		Outcome: fhir.NewOperationOutcome(issues...),
	}
}

// NotFoundError signals that no resource of the given type exists under
// the given id. Read and update handlers return it for unknown ids.
func NotFoundError(resourceType, id string) *OutcomeError {
	return outcomeError(http.StatusNotFound, fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueNotFound,
		Details: fhir.IssueDetails{
			Text: fmt.Sprintf("Unknown %s resource '%s'", resourceType, id),
		},
	})
}

// BadRequestError signals a malformed or inconsistent request.
func BadRequestError(detail string) *OutcomeError {
	return outcomeError(http.StatusBadRequest, fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueInvalid,
		Details:  fhir.IssueDetails{Text: detail},
	})
}

// InvalidResourceError signals a request body which could not be parsed
// as a resource of the expected type.
func InvalidResourceError(detail string) *OutcomeError {
	return outcomeError(http.StatusBadRequest, fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueStructure,
		Details:  fhir.IssueDetails{Text: detail},
	})
}

// ValidationError aggregates the issues reported by an upstream resource
// validator into a single 400 outcome. Issue order on the wire is the
// sorted order from [fhir.NewOperationOutcome] regardless of the order
// the validator reported them in.
func ValidationError(issues ...fhir.Issue) *OutcomeError {
	return outcomeError(http.StatusBadRequest, issues...)
}

// UnauthorizedError signals that the request carries no acceptable
// proof of identity. Guards return it to short-circuit an interaction.
func UnauthorizedError(detail string) *OutcomeError {
	return outcomeError(http.StatusUnauthorized, fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueLogin,
		Details:  fhir.IssueDetails{Text: detail},
	})
}

// ForbiddenError signals that the authenticated caller may not perform
// the interaction.
func ForbiddenError(detail string) *OutcomeError {
	return outcomeError(http.StatusForbidden, fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueForbidden,
		Details:  fhir.IssueDetails{Text: detail},
	})
}
