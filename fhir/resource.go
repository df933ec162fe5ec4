// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package fhir defines the resource model owned by the framework along
// with the standard documents it serializes on the wire.
package fhir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resource is implemented by any type which can be served as a FHIR resource.
type Resource interface {
	ResourceType() string
	ResourceID() string
	SetResourceID(id string)
}

// Meta holds the server-assigned metadata elements of a resource.
type Meta struct {
	VersionID   string `json:"versionId,omitempty"`
	LastUpdated string `json:"lastUpdated,omitempty"`
}

// Base carries the identity elements shared by all resources. Embed it
// in your resource types to satisfy the identity half of [Resource].
type Base struct {
	ID   string `json:"id,omitempty"`
	Meta *Meta  `json:"meta,omitempty"`
}

// ResourceID implements the [Resource] interface.
func (b *Base) ResourceID() string {
	return b.ID
}

// SetResourceID implements the [Resource] interface.
func (b *Base) SetResourceID(id string) {
	b.ID = id
}

// Document converts a resource into its wire document with the
// resourceType element injected. Numbers are preserved exactly via
// [json.Number] so a document round-trips without precision loss.
func Document(r Resource) (map[string]any, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var doc map[string]any
	err = dec.Decode(&doc)
	if err != nil {
		return nil, fmt.Errorf("fhir: resource %q does not serialize to an object: %w", r.ResourceType(), err)
	}

	doc["resourceType"] = r.ResourceType()
	if id := r.ResourceID(); id != "" {
		doc["id"] = id
	}
	return doc, nil
}
