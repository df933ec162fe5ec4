// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/canvas-medical/fhirstarter-go/fhir"
)

// outcomeHandler converts every error which escapes an interaction into
// an OperationOutcome response. Errors of type [*OutcomeError] already
// carry their status and document; anything else is downgraded to a
// generic processing outcome so internal detail never reaches the caller.
type outcomeHandler struct {
	log *slog.Logger
}

func (h *outcomeHandler) OnError(ctx context.Context, w http.ResponseWriter, err error, f Format) {
	h.log.ErrorContext(ctx, "sending outcome response", slog.Any("error", err))

	status := http.StatusInternalServerError
	outcome := fhir.NewOperationOutcome(fhir.Issue{
		Severity: fhir.SeverityError,
		Code:     fhir.IssueProcessing,
		Details:  fhir.IssueDetails{Text: "Internal server error"},
	})

	var oe *OutcomeError
	if errors.As(err, &oe) {
		status = oe.Status
		outcome = oe.Outcome
	}

	renderErr := renderResource(w, status, outcome, f, nil)
	if renderErr == nil {
		return
	}

	h.log.ErrorContext(ctx, "failed to render outcome", slog.Any("error", renderErr))
	w.WriteHeader(http.StatusInternalServerError)
}
