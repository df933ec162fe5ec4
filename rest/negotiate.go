// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"net/http"

	"github.com/elnormous/contenttype"
)

const (
	fhirJSONType = "application/fhir+json"
	fhirXMLType  = "application/fhir+xml"
)

const (
	formatParam = "format"
	prettyParam = "pretty"
)

// Format is the per-request representation preference. It is derived
// once before the handler runs and never persisted.
type Format struct {
	// XML selects the markup representation; JSON otherwise.
	XML bool

	// Pretty applies human readable indentation.
	Pretty bool
}

// ContentType returns the response media type for the preference.
func (f Format) ContentType() string {
	if f.XML {
		return fhirXMLType
	}
	return fhirJSONType
}

var acceptableMediaTypes = []contenttype.MediaType{
	contenttype.NewMediaType(fhirJSONType),
	contenttype.NewMediaType("application/json"),
	contenttype.NewMediaType(fhirXMLType),
	contenttype.NewMediaType("application/xml"),
}

// negotiateFormat resolves the representation preference of a request.
// The format and pretty parameters (query on GET style verbs, form
// fields on the POST search verb) take precedence over Accept header
// negotiation; unspecified values fall back to JSON without indentation.
func negotiateFormat(r *http.Request) Format {
	// Merges the URL query with any urlencoded body, which is exactly
	// the precedence order the parameters are defined with.
	r.ParseForm()

	f := Format{
		Pretty: r.Form.Get(prettyParam) == "true",
	}

	switch r.Form.Get(formatParam) {
	case "json", "application/json", fhirJSONType:
		return f
	case "xml", "text/xml", "application/xml", fhirXMLType:
		f.XML = true
		return f
	}

	if r.Header.Get("Accept") == "" {
		return f
	}

	accepted, _, err := contenttype.GetAcceptableMediaType(r, acceptableMediaTypes)
	if err != nil {
		return f
	}
	f.XML = accepted.Subtype == "fhir+xml" || accepted.Subtype == "xml"
	return f
}
