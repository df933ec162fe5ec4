// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"context"
	"encoding/json"

	"github.com/canvas-medical/fhirstarter-go/fhir"
	"github.com/canvas-medical/fhirstarter-go/search"

	"github.com/swaggest/jsonschema-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
)

// ResourcePtr embeds [fhir.Resource] but adds *T support.
type ResourcePtr[T any] interface {
	*T
	fhir.Resource
}

// InteractionOptions holds per-registration configuration.
type InteractionOptions struct {
	guards []Guard
	hidden bool
	params []string
}

// InteractionOption configures a registration created by [Create],
// [Read], [Search] or [Update].
type InteractionOption func(*InteractionOptions)

// Guards appends to the registration's guard chain. Guards run in
// order before the handler; the first failing guard wins.
func Guards(gs ...Guard) InteractionOption {
	return func(io *InteractionOptions) {
		io.guards = append(io.guards, gs...)
	}
}

// Hidden excludes the registration from the capability statement and
// the OpenAPI document. The route itself still serves.
func Hidden() InteractionOption {
	return func(io *InteractionOptions) {
		io.hidden = true
	}
}

// Params declares the catalog attribute names a search handler accepts.
// Every name must exist in the catalog for the resource type; that is
// verified during route synthesis.
func Params(names ...string) InteractionOption {
	return func(io *InteractionOptions) {
		io.params = append(io.params, names...)
	}
}

func applyInteractionOptions(opts []InteractionOption) *InteractionOptions {
	io := &InteractionOptions{}
	for _, opt := range opts {
		opt(io)
	}
	return io
}

func resourceTypeOf[T any, R ResourcePtr[T]]() string {
	var t T
	return R(&t).ResourceType()
}

func decodeResource[T any, R ResourcePtr[T]](dec *json.Decoder) (fhir.Resource, error) {
	var t T
	r := R(&t)
	err := dec.Decode(r)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func requestBodySpec[T any]() (openapi3.RequestBodyOrRef, error) {
	var t T
	var reflector jsonschema.Reflector

	jsonSchema, err := reflector.Reflect(t, jsonschema.InlineRefs)
	if err != nil {
		return openapi3.RequestBodyOrRef{}, err
	}

	var schemaOrRef openapi3.SchemaOrRef
	schemaOrRef.FromJSONSchema(jsonSchema.ToSchemaOrBool())

	spec := &openapi3.RequestBody{
		Required: ptr.Ref(true),
		Content: map[string]openapi3.MediaType{
			fhirJSONType: {
				Schema: &schemaOrRef,
			},
		},
	}

	return openapi3.RequestBodyOrRef{
		RequestBody: spec,
	}, nil
}

func register(ao *ApiOptions, reg *Registration) {
	err := ao.registry.Register(reg)
	if err != nil {
		panic(err)
	}
}

// Create registers a create handler for the resource type of R.
func Create[T any, R ResourcePtr[T]](h func(context.Context, R) (R, error), opts ...InteractionOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		io := applyInteractionOptions(opts)
		rt := resourceTypeOf[T, R]()

		body, err := requestBodySpec[T]()
		if err != nil {
			panic(configErrorf("%s create: reflecting body schema: %v", rt, err))
		}

		register(ao, &Registration{
			ResourceType:  rt,
			Kind:          KindCreate,
			SchemaVisible: !io.hidden,
			guards:        io.guards,
			decode:        decodeResource[T, R],
			bodySchema:    &body,
			create: func(ctx context.Context, res fhir.Resource) (fhir.Resource, error) {
				out, err := h(ctx, res.(R))
				if err != nil {
					return nil, err
				}
				return out, nil
			},
		})
	})
}

// Read registers a read handler for the resource type of R.
func Read[T any, R ResourcePtr[T]](h func(context.Context, string) (R, error), opts ...InteractionOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		io := applyInteractionOptions(opts)

		register(ao, &Registration{
			ResourceType:  resourceTypeOf[T, R](),
			Kind:          KindRead,
			SchemaVisible: !io.hidden,
			guards:        io.guards,
			read: func(ctx context.Context, id string) (fhir.Resource, error) {
				out, err := h(ctx, id)
				if err != nil {
					return nil, err
				}
				return out, nil
			},
		})
	})
}

// Search registers a search handler for the resource type of R. The
// handler's capability set is declared with [Params] and resolved
// against the catalog during route synthesis.
func Search[T any, R ResourcePtr[T]](h func(context.Context, search.Values) (*fhir.Bundle, error), opts ...InteractionOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		io := applyInteractionOptions(opts)

		register(ao, &Registration{
			ResourceType:   resourceTypeOf[T, R](),
			Kind:           KindSearch,
			SchemaVisible:  !io.hidden,
			guards:         io.guards,
			declaredParams: io.params,
			search:         h,
		})
	})
}

// Update registers an update handler for the resource type of R.
func Update[T any, R ResourcePtr[T]](h func(context.Context, string, R) (R, error), opts ...InteractionOption) ApiOption {
	return apiOptionFunc(func(ao *ApiOptions) {
		io := applyInteractionOptions(opts)
		rt := resourceTypeOf[T, R]()

		body, err := requestBodySpec[T]()
		if err != nil {
			panic(configErrorf("%s update: reflecting body schema: %v", rt, err))
		}

		register(ao, &Registration{
			ResourceType:  rt,
			Kind:          KindUpdate,
			SchemaVisible: !io.hidden,
			guards:        io.guards,
			decode:        decodeResource[T, R],
			bodySchema:    &body,
			update: func(ctx context.Context, id string, res fhir.Resource) (fhir.Resource, error) {
				out, err := h(ctx, id, res.(R))
				if err != nil {
					return nil, err
				}
				return out, nil
			},
		})
	})
}
