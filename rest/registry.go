// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/canvas-medical/fhirstarter-go/fhir"
	"github.com/canvas-medical/fhirstarter-go/search"

	"github.com/swaggest/openapi-go/openapi3"
)

// Kind identifies one of the supported interaction types. The values are
// the interaction codes used in the capability statement.
type Kind string

const (
	KindCreate Kind = "create"
	KindRead   Kind = "read"
	KindSearch Kind = "search-type"
	KindUpdate Kind = "update"
)

// kindPriority is the fixed ordering of interaction codes in generated
// documents: create, read, search, update.
var kindPriority = map[Kind]int{
	KindCreate: 0,
	KindRead:   1,
	KindSearch: 2,
	KindUpdate: 3,
}

// Guard is a pre-handler check. It may enrich the request context or
// short-circuit the interaction by returning an error, typically
// [UnauthorizedError] or [ForbiddenError].
type Guard func(*http.Request) (*http.Request, error)

// Tagged handler variants. The registration stores exactly one of these
// and dispatch happens on [Registration.Kind], never on runtime shape.
type (
	createHandler func(context.Context, fhir.Resource) (fhir.Resource, error)
	readHandler   func(context.Context, string) (fhir.Resource, error)
	searchHandler func(context.Context, search.Values) (*fhir.Bundle, error)
	updateHandler func(context.Context, string, fhir.Resource) (fhir.Resource, error)
)

// Registration is one registered (resource type, interaction) pair.
// Registrations are created only while [NewApi] applies its options and
// are immutable afterwards.
type Registration struct {
	ResourceType string
	Kind         Kind

	// SchemaVisible controls whether the registration appears in the
	// capability statement and the OpenAPI document.
	SchemaVisible bool

	guards []Guard

	// declaredParams is the search handler's capability set: the catalog
	// attribute names it accepts. Only set for KindSearch.
	declaredParams []string

	// searchParams is populated during route synthesis with the sorted
	// catalog descriptors backing declaredParams.
	searchParams []search.Descriptor

	create createHandler
	read   readHandler
	search searchHandler
	update updateHandler

	// decode parses a request body into a freshly allocated resource of
	// the registered type. Set for KindCreate and KindUpdate.
	decode func(*json.Decoder) (fhir.Resource, error)

	// bodySchema is the OpenAPI request body derived from the resource
	// type. Set for KindCreate and KindUpdate.
	bodySchema *openapi3.RequestBodyOrRef
}

type registryKey struct {
	resourceType string
	kind         Kind
}

// Registry is the append-only collection of interaction registrations.
// It is written only during the registration phase and read-only once
// route synthesis has run, so request handling reads it without locking.
type Registry struct {
	registrations []*Registration
	index         map[registryKey]struct{}
}

// NewRegistry initializes an empty [Registry].
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[registryKey]struct{}),
	}
}

// Register appends a registration. Registering the same
// (resource type, interaction) pair twice is a configuration error.
func (r *Registry) Register(reg *Registration) error {
	key := registryKey{resourceType: reg.ResourceType, kind: reg.Kind}
	if _, ok := r.index[key]; ok {
		return configErrorf("%s %s interaction registered twice", reg.ResourceType, reg.Kind)
	}

	r.index[key] = struct{}{}
	r.registrations = append(r.registrations, reg)
	return nil
}

// All returns every registration in stable insertion order.
func (r *Registry) All() []*Registration {
	return slices.Clone(r.registrations)
}
