// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package fhir

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalXML(t *testing.T) {
	t.Run("will fail", func(t *testing.T) {
		t.Run("if the document has no resource type", func(t *testing.T) {
			_, err := MarshalXML(map[string]any{"id": "123"}, false)

			assert.Error(t, err)
		})
	})

	t.Run("will render scalars as value attributes", func(t *testing.T) {
		doc := map[string]any{
			"resourceType": "Patient",
			"id":           "123",
			"active":       true,
			"multipleBirthInteger": json.Number("3"),
		}

		b, err := MarshalXML(doc, false)
		require.NoError(t, err)

		s := string(b)
		assert.True(t, strings.HasPrefix(s, `<Patient xmlns="http://hl7.org/fhir">`))
		assert.Contains(t, s, `<id value="123">`)
		assert.Contains(t, s, `<active value="true">`)
		assert.Contains(t, s, `<multipleBirthInteger value="3">`)
	})

	t.Run("will repeat elements for arrays", func(t *testing.T) {
		doc := map[string]any{
			"resourceType": "Patient",
			"name": []any{
				map[string]any{"family": "Baggins"},
				map[string]any{"family": "Took"},
			},
		}

		b, err := MarshalXML(doc, false)
		require.NoError(t, err)

		assert.Equal(t, 2, strings.Count(string(b), "<name>"))
	})

	t.Run("will emit identical output across runs", func(t *testing.T) {
		doc := map[string]any{
			"resourceType": "Patient",
			"id":           "123",
			"active":       true,
			"name": []any{
				map[string]any{"family": "Baggins", "given": []any{"Frodo"}},
			},
		}

		first, err := MarshalXML(doc, false)
		require.NoError(t, err)

		for range 10 {
			b, err := MarshalXML(doc, false)
			require.NoError(t, err)
			assert.Equal(t, first, b)
		}
	})

	t.Run("will indent when pretty", func(t *testing.T) {
		doc := map[string]any{
			"resourceType": "Patient",
			"id":           "123",
		}

		b, err := MarshalXML(doc, true)
		require.NoError(t, err)

		assert.Contains(t, string(b), "\n  <id")
	})
}
