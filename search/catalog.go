// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package search defines the per-resource-type catalog of searchable attributes.
package search

import (
	"fmt"
	"strings"
)

// Type enumerates the value types a search parameter may carry.
type Type string

const (
	String    Type = "string"
	Token     Type = "token"
	Date      Type = "date"
	Number    Type = "number"
	Reference Type = "reference"
)

// Descriptor describes one searchable attribute of a resource type.
// Descriptors are immutable once defined in a [Catalog].
type Descriptor struct {
	// Name is the identifier search handlers declare in their capability set.
	Name string

	// Alias is the wire-visible parameter name. Defaults to Name.
	Alias string

	Type Type

	// Multiple marks a parameter which may be supplied more than once
	// per request.
	Multiple bool

	Description string

	// Definition is the URI of the formal parameter definition.
	Definition string
}

// Compare orders descriptors by their wire-visible alias. Aliases are
// unique per resource type, making this a total order, and the resulting
// parameter ordering is what generated documentation reflects.
func Compare(a, b Descriptor) int {
	return strings.Compare(a.Alias, b.Alias)
}

// Catalog is a static lookup of attribute descriptors per resource type.
// Definitions are loaded once during startup; the catalog is read-only
// while the server handles traffic.
type Catalog struct {
	types map[string]map[string]Descriptor
}

// NewCatalog initializes an empty [Catalog].
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]map[string]Descriptor),
	}
}

// Define records the searchable attributes of a resource type. A descriptor
// without an alias takes its name as the alias. Defining the same attribute
// name twice, or two attributes sharing a wire alias, is a load-time error.
func (c *Catalog) Define(resourceType string, descs ...Descriptor) error {
	byName := c.types[resourceType]
	if byName == nil {
		byName = make(map[string]Descriptor)
		c.types[resourceType] = byName
	}

	aliases := make(map[string]string, len(byName))
	for name, d := range byName {
		aliases[d.Alias] = name
	}

	for _, d := range descs {
		if d.Name == "" {
			return fmt.Errorf("search: %s: descriptor with empty name", resourceType)
		}
		if d.Alias == "" {
			d.Alias = d.Name
		}

		if _, ok := byName[d.Name]; ok {
			return fmt.Errorf("search: %s: parameter %q defined twice", resourceType, d.Name)
		}
		if other, ok := aliases[d.Alias]; ok {
			return fmt.Errorf("search: %s: parameters %q and %q share alias %q", resourceType, other, d.Name, d.Alias)
		}

		byName[d.Name] = d
		aliases[d.Alias] = d.Name
	}
	return nil
}

// Lookup returns the descriptor for an attribute name of a resource type.
func (c *Catalog) Lookup(resourceType, name string) (Descriptor, bool) {
	d, ok := c.types[resourceType][name]
	return d, ok
}
