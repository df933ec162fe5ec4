// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fhir

// CapabilityInteraction names one supported operation on a resource type.
type CapabilityInteraction struct {
	Code string `json:"code"`
}

// CapabilitySearchParam describes one searchable attribute of a resource type.
type CapabilitySearchParam struct {
	Name          string `json:"name"`
	Definition    string `json:"definition,omitempty"`
	Type          string `json:"type"`
	Documentation string `json:"documentation,omitempty"`
}

// CapabilityResource summarizes the interactions and search parameters
// supported for a single resource type.
type CapabilityResource struct {
	Type        string                  `json:"type"`
	Interaction []CapabilityInteraction `json:"interaction,omitempty"`
	SearchParam []CapabilitySearchParam `json:"searchParam,omitempty"`
}

// CapabilityRest is the server mode section of a [CapabilityStatement].
type CapabilityRest struct {
	Mode     string               `json:"mode"`
	Resource []CapabilityResource `json:"resource,omitempty"`
}

// CapabilitySoftware identifies the serving software.
type CapabilitySoftware struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// CapabilityStatement is a generated summary of what operations and
// search parameters the server currently supports.
type CapabilityStatement struct {
	Base

	Status   string              `json:"status"`
	Date     string              `json:"date"`
	Kind     string              `json:"kind"`
	Software *CapabilitySoftware `json:"software,omitempty"`
	Format   []string            `json:"format"`
	Rest     []CapabilityRest    `json:"rest,omitempty"`
}

// ResourceType implements the [Resource] interface.
func (*CapabilityStatement) ResourceType() string {
	return "CapabilityStatement"
}
