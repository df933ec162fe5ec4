// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/canvas-medical/fhirstarter-go/fhir"
)

// CapabilityHook customizes the capability statement before it is
// served. It receives the freshly assembled statement and the request
// context; its return value is used verbatim.
type CapabilityHook func(context.Context, *fhir.CapabilityStatement) *fhir.CapabilityStatement

// BuildCapabilityStatement projects the registry into a capability
// statement. Resource types are emitted in sorted order, interactions in
// the fixed create, read, search, update order, and search parameters in
// the order synthesized from the catalog. Hidden registrations are
// omitted entirely. The registry is frozen once serving begins, so the
// statement is simply recomputed per request.
func BuildCapabilityStatement(registry *Registry, name, version string, date time.Time) *fhir.CapabilityStatement {
	byType := make(map[string][]*Registration)
	for _, reg := range registry.All() {
		if !reg.SchemaVisible {
			continue
		}
		byType[reg.ResourceType] = append(byType[reg.ResourceType], reg)
	}

	types := make([]string, 0, len(byType))
	for rt := range byType {
		types = append(types, rt)
	}
	slices.Sort(types)

	resources := make([]fhir.CapabilityResource, 0, len(types))
	for _, rt := range types {
		regs := byType[rt]
		slices.SortFunc(regs, func(a, b *Registration) int {
			return kindPriority[a.Kind] - kindPriority[b.Kind]
		})

		res := fhir.CapabilityResource{Type: rt}
		for _, reg := range regs {
			res.Interaction = append(res.Interaction, fhir.CapabilityInteraction{
				Code: string(reg.Kind),
			})

			if reg.Kind != KindSearch {
				continue
			}
			for _, d := range reg.searchParams {
				res.SearchParam = append(res.SearchParam, fhir.CapabilitySearchParam{
					Name:          d.Alias,
					Definition:    d.Definition,
					Type:          string(d.Type),
					Documentation: d.Description,
				})
			}
		}
		resources = append(resources, res)
	}

	return &fhir.CapabilityStatement{
		Status: "active",
		Date:   date.Format(time.RFC3339),
		Kind:   "instance",
		Software: &fhir.CapabilitySoftware{
			Name:    name,
			Version: version,
		},
		Format: []string{"json", "xml"},
		Rest: []fhir.CapabilityRest{
			{Mode: "server", Resource: resources},
		},
	}
}

func capabilityHandler(ao *ApiOptions, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := negotiateFormat(r)

		cs := BuildCapabilityStatement(ao.registry, ao.name, ao.version, time.Now().UTC())
		if ao.hook != nil {
			cs = ao.hook(r.Context(), cs)
		}

		err := renderResource(w, http.StatusOK, cs, f, nil)
		if err == nil {
			return
		}
		log.ErrorContext(r.Context(), "failed to render capability statement", slog.Any("error", err))
	}
}
