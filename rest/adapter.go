// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/canvas-medical/fhirstarter-go/fhir"
	"github.com/canvas-medical/fhirstarter-go/search"

	"github.com/go-chi/chi/v5"
	"github.com/z5labs/sdk-go/try"
	"go.opentelemetry.io/otel/trace"
)

// adapter binds one registration into a [http.Handler]. It resolves the
// representation preference, runs the guard chain, invokes the handler
// variant matching the registration kind and renders the result. Every
// failure is funneled through the outcome handler; nothing escapes to
// the transport layer.
type adapter struct {
	tracer     trace.Tracer
	reg        *Registration
	errHandler *outcomeHandler
}

func (a *adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	f := negotiateFormat(r)

	var err error
	defer func() {
		if err == nil {
			return
		}
		a.errHandler.OnError(ctx, w, err, f)
	}()
	defer try.Recover(&err)

	for _, g := range a.reg.guards {
		r, err = g(r)
		if err != nil {
			return
		}
	}
	ctx = r.Context()

	switch a.reg.Kind {
	case KindCreate:
		err = a.create(ctx, w, r, f)
	case KindRead:
		err = a.read(ctx, w, r, f)
	case KindSearch:
		err = a.search(ctx, w, r, f)
	case KindUpdate:
		err = a.update(ctx, w, r, f)
	}
}

func (a *adapter) create(ctx context.Context, w http.ResponseWriter, r *http.Request, f Format) error {
	res, err := a.readBody(ctx, r)
	if err != nil {
		return err
	}

	created, err := a.reg.create(ctx, res)
	if err != nil {
		return err
	}

	headers := http.Header{}
	headers.Set("Location", fmt.Sprintf("/%s/%s/_history/1", a.reg.ResourceType, created.ResourceID()))
	return a.render(ctx, w, http.StatusCreated, created, f, headers)
}

func (a *adapter) read(ctx context.Context, w http.ResponseWriter, r *http.Request, f Format) error {
	res, err := a.reg.read(ctx, chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	return a.render(ctx, w, http.StatusOK, res, f, nil)
}

func (a *adapter) search(ctx context.Context, w http.ResponseWriter, r *http.Request, f Format) error {
	// Form was already parsed while negotiating the format, merging the
	// URL query with the urlencoded body of the POST verb.
	values := make(search.Values, len(a.reg.searchParams))
	for _, d := range a.reg.searchParams {
		vs := r.Form[d.Alias]
		if len(vs) == 0 {
			continue
		}
		if !d.Multiple {
			vs = vs[:1]
		}
		values[d.Name] = vs
	}

	bundle, err := a.reg.search(ctx, values)
	if err != nil {
		return err
	}
	return a.render(ctx, w, http.StatusOK, bundle, f, nil)
}

func (a *adapter) update(ctx context.Context, w http.ResponseWriter, r *http.Request, f Format) error {
	id := chi.URLParam(r, "id")

	res, err := a.readBody(ctx, r)
	if err != nil {
		return err
	}

	// Identity consistency is enforced before the handler ever runs.
	if bodyID := res.ResourceID(); bodyID != "" && bodyID != id {
		return BadRequestError(fmt.Sprintf("Body id '%s' does not match path id '%s'", bodyID, id))
	}
	res.SetResourceID(id)

	updated, err := a.reg.update(ctx, id, res)
	if err != nil {
		return err
	}
	return a.render(ctx, w, http.StatusOK, updated, f, nil)
}

func (a *adapter) readBody(ctx context.Context, r *http.Request) (_ fhir.Resource, err error) {
	_, span := a.tracer.Start(ctx, "adapter.readBody")
	defer span.End()

	defer try.Close(&err, r.Body)

	res, err := a.reg.decode(json.NewDecoder(r.Body))
	if err != nil {
		return nil, InvalidResourceError(fmt.Sprintf("Malformed %s resource body", a.reg.ResourceType))
	}
	return res, nil
}

func (a *adapter) render(ctx context.Context, w http.ResponseWriter, status int, res fhir.Resource, f Format, headers http.Header) error {
	_, span := a.tracer.Start(ctx, "adapter.writeResponse")
	defer span.End()

	return renderResource(w, status, res, f, headers)
}
