// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package search

// Values holds the resolved search parameter values of a single request,
// keyed by descriptor name. Parameters absent from the request are absent
// from the map.
type Values map[string][]string

// Has reports whether the parameter was supplied at all.
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Get returns the first supplied value of the parameter.
func (v Values) Get(name string) (string, bool) {
	vs := v[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// All returns every supplied value of the parameter in request order.
func (v Values) All(name string) []string {
	return v[name]
}
