// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"go/token"
	"net/http"
	"slices"
	"strconv"

	"github.com/canvas-medical/fhirstarter-go/search"

	"github.com/swaggest/openapi-go/openapi3"
	"github.com/z5labs/sdk-go/ptr"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

// Parameter names which can never be claimed by a catalog attribute:
// the universal parameters plus the identifiers the adapter itself binds.
var reservedParamNames = map[string]struct{}{
	"context":  {},
	"format":   {},
	"resource": {},
	"type":     {},
}

// buildSearchParams resolves a search registration's declared capability
// set against the catalog. The returned descriptors are sorted with
// [search.Compare]; map iteration order never reaches the route table or
// the generated documents.
func buildSearchParams(reg *Registration, cat *search.Catalog) ([]search.Descriptor, error) {
	if len(reg.declaredParams) > 0 && cat == nil {
		return nil, configErrorf("%s search declares parameters but no catalog is configured", reg.ResourceType)
	}

	seen := make(map[string]struct{}, len(reg.declaredParams))
	descs := make([]search.Descriptor, 0, len(reg.declaredParams))
	for _, name := range reg.declaredParams {
		if _, ok := seen[name]; ok {
			return nil, configErrorf("%s search declares parameter %q twice", reg.ResourceType, name)
		}
		seen[name] = struct{}{}

		if _, ok := reservedParamNames[name]; ok {
			return nil, configErrorf("%s search declares reserved parameter name %q", reg.ResourceType, name)
		}
		if token.IsKeyword(name) {
			return nil, configErrorf("%s search declares parameter %q which is a language keyword", reg.ResourceType, name)
		}

		d, ok := cat.Lookup(reg.ResourceType, name)
		if !ok {
			return nil, configErrorf("%s search declares parameter %q which is absent from the catalog", reg.ResourceType, name)
		}
		descs = append(descs, d)
	}

	slices.SortFunc(descs, search.Compare)
	return descs, nil
}

// synthesizeRoutes consumes the frozen registry and catalog once, wiring
// one request adapter per registration into the router and the OpenAPI
// document. Configuration errors abort startup via panic.
func synthesizeRoutes(ao *ApiOptions) {
	errHandler := &outcomeHandler{
		log: ao.log,
	}

	for _, reg := range ao.registry.All() {
		if reg.Kind == KindSearch {
			descs, err := buildSearchParams(reg, ao.catalog)
			if err != nil {
				panic(err)
			}
			reg.searchParams = descs
		}

		a := &adapter{
			tracer:     otel.Tracer("github.com/canvas-medical/fhirstarter-go/rest"),
			reg:        reg,
			errHandler: errHandler,
		}

		for _, route := range registrationRoutes(reg) {
			ao.mux.Method(route.method, route.pattern, otelhttp.WithRouteTag(route.pattern, a))

			if !reg.SchemaVisible {
				continue
			}
			err := ao.def.AddOperation(route.method, route.pattern, operationSpec(reg, route))
			if err != nil {
				panic(configErrorf("%s %s: adding OpenAPI operation: %v", reg.ResourceType, reg.Kind, err))
			}
		}
	}
}

type route struct {
	method  string
	pattern string
	form    bool
}

// registrationRoutes maps a registration onto its route table entries.
// Search serves both the query form and the POST form of the verb.
func registrationRoutes(reg *Registration) []route {
	rt := reg.ResourceType
	switch reg.Kind {
	case KindCreate:
		return []route{{method: http.MethodPost, pattern: "/" + rt}}
	case KindRead:
		return []route{{method: http.MethodGet, pattern: "/" + rt + "/{id}"}}
	case KindSearch:
		return []route{
			{method: http.MethodGet, pattern: "/" + rt},
			{method: http.MethodPost, pattern: "/" + rt + "/_search", form: true},
		}
	case KindUpdate:
		return []route{{method: http.MethodPut, pattern: "/" + rt + "/{id}"}}
	default:
		panic(configErrorf("%s: unsupported interaction kind %q", rt, reg.Kind))
	}
}

func operationSpec(reg *Registration, ro route) openapi3.Operation {
	op := openapi3.Operation{
		Responses: openapi3.Responses{
			MapOfResponseOrRefValues: map[string]openapi3.ResponseOrRef{
				strconv.Itoa(successStatus(reg.Kind)): resourceResponse(),
			},
		},
	}

	if reg.Kind == KindRead || reg.Kind == KindUpdate {
		op.Parameters = append(op.Parameters, pathIDParam())
	}
	if reg.bodySchema != nil {
		op.RequestBody = reg.bodySchema
	}

	if ro.form {
		body := searchFormBody(reg.searchParams)
		op.RequestBody = &body
		return op
	}

	// Universal parameters hold their pinned positions ahead of the
	// catalog-derived set, which is already sorted by alias.
	op.Parameters = append(op.Parameters, universalParams()...)
	for _, d := range reg.searchParams {
		op.Parameters = append(op.Parameters, queryParam(d))
	}
	return op
}

func successStatus(kind Kind) int {
	if kind == KindCreate {
		return http.StatusCreated
	}
	return http.StatusOK
}

func resourceResponse() openapi3.ResponseOrRef {
	objectType := openapi3.SchemaTypeObject
	return openapi3.ResponseOrRef{
		Response: &openapi3.Response{
			Content: map[string]openapi3.MediaType{
				fhirJSONType: {
					Schema: &openapi3.SchemaOrRef{
						Schema: &openapi3.Schema{Type: &objectType},
					},
				},
			},
		},
	}
}

func pathIDParam() openapi3.ParameterOrRef {
	stringType := openapi3.SchemaTypeString
	return openapi3.ParameterOrRef{
		Parameter: &openapi3.Parameter{
			Name:     "id",
			In:       openapi3.ParameterInPath,
			Required: ptr.Ref(true),
			Schema: &openapi3.SchemaOrRef{
				Schema: &openapi3.Schema{Type: &stringType},
			},
		},
	}
}

func universalParams() []openapi3.ParameterOrRef {
	stringType := openapi3.SchemaTypeString
	booleanType := openapi3.SchemaTypeBoolean

	return []openapi3.ParameterOrRef{
		{
			Parameter: &openapi3.Parameter{
				Name:        formatParam,
				In:          openapi3.ParameterInQuery,
				Description: ptr.Ref("Override the response representation negotiated from the Accept header."),
				Schema: &openapi3.SchemaOrRef{
					Schema: &openapi3.Schema{Type: &stringType},
				},
			},
		},
		{
			Parameter: &openapi3.Parameter{
				Name:        prettyParam,
				In:          openapi3.ParameterInQuery,
				Description: ptr.Ref("Apply human readable indentation to the response."),
				Schema: &openapi3.SchemaOrRef{
					Schema: &openapi3.Schema{Type: &booleanType},
				},
			},
		},
	}
}

func queryParam(d search.Descriptor) openapi3.ParameterOrRef {
	return openapi3.ParameterOrRef{
		Parameter: &openapi3.Parameter{
			Name:        d.Alias,
			In:          openapi3.ParameterInQuery,
			Description: ptr.Ref(d.Description),
			Schema:      paramSchema(d),
		},
	}
}

func paramSchema(d search.Descriptor) *openapi3.SchemaOrRef {
	stringType := openapi3.SchemaTypeString
	value := &openapi3.SchemaOrRef{
		Schema: &openapi3.Schema{Type: &stringType},
	}
	if !d.Multiple {
		return value
	}

	arrayType := openapi3.SchemaTypeArray
	return &openapi3.SchemaOrRef{
		Schema: &openapi3.Schema{
			Type:  &arrayType,
			Items: value,
		},
	}
}

func searchFormBody(descs []search.Descriptor) openapi3.RequestBodyOrRef {
	stringType := openapi3.SchemaTypeString
	booleanType := openapi3.SchemaTypeBoolean

	properties := map[string]openapi3.SchemaOrRef{
		formatParam: {Schema: &openapi3.Schema{Type: &stringType}},
		prettyParam: {Schema: &openapi3.Schema{Type: &booleanType}},
	}
	for _, d := range descs {
		properties[d.Alias] = *paramSchema(d)
	}

	objectType := openapi3.SchemaTypeObject
	return openapi3.RequestBodyOrRef{
		RequestBody: &openapi3.RequestBody{
			Content: map[string]openapi3.MediaType{
				"application/x-www-form-urlencoded": {
					Schema: &openapi3.SchemaOrRef{
						Schema: &openapi3.Schema{
							Type:       &objectType,
							Properties: properties,
						},
					},
				},
			},
		},
	}
}
