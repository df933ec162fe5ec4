// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fhir

// BundleEntry wraps a single resource document inside a [Bundle].
type BundleEntry struct {
	Resource map[string]any `json:"resource,omitempty"`
}

// Bundle is an ordered collection of resources. Search handlers return
// their matches wrapped in a searchset bundle.
type Bundle struct {
	Base

	Type  string        `json:"type"`
	Total int           `json:"total"`
	Entry []BundleEntry `json:"entry"`
}

// ResourceType implements the [Resource] interface.
func (*Bundle) ResourceType() string {
	return "Bundle"
}

// NewSearchSet wraps the given resources in a searchset [Bundle],
// preserving their order.
func NewSearchSet(resources ...Resource) (*Bundle, error) {
	entries := make([]BundleEntry, 0, len(resources))
	for _, r := range resources {
		doc, err := Document(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, BundleEntry{Resource: doc})
	}

	return &Bundle{
		Type:  "searchset",
		Total: len(entries),
		Entry: entries,
	}, nil
}
