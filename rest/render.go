// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"encoding/json"
	"net/http"

	"github.com/canvas-medical/fhirstarter-go/fhir"
)

// renderResource serializes a resource in the negotiated representation
// and writes it as the response. The body is built completely before any
// header or status is touched, so a serialization failure never leaves a
// partially written response behind.
func renderResource(w http.ResponseWriter, status int, res fhir.Resource, f Format, headers http.Header) error {
	doc, err := fhir.Document(res)
	if err != nil {
		return err
	}

	var body []byte
	switch {
	case f.XML:
		body, err = fhir.MarshalXML(doc, f.Pretty)
	case f.Pretty:
		body, err = json.MarshalIndent(doc, "", "  ")
	default:
		body, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	for name, values := range headers {
		for _, v := range values {
			w.Header().Add(name, v)
		}
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.WriteHeader(status)

	_, err = w.Write(body)
	return err
}
