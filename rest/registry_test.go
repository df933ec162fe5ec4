// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	t.Run("will return a ConfigurationError", func(t *testing.T) {
		t.Run("if the same resource type and interaction is registered twice", func(t *testing.T) {
			reg := NewRegistry()

			err := reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead})
			require.NoError(t, err)

			err = reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead})

			var cerr *ConfigurationError
			require.ErrorAs(t, err, &cerr)
			assert.Contains(t, cerr.Error(), "Patient read interaction registered twice")
		})
	})

	t.Run("will accept the registration", func(t *testing.T) {
		t.Run("if the interaction differs for the same resource type", func(t *testing.T) {
			reg := NewRegistry()

			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead}))
			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindCreate}))
		})

		t.Run("if the resource type differs for the same interaction", func(t *testing.T) {
			reg := NewRegistry()

			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead}))
			require.NoError(t, reg.Register(&Registration{ResourceType: "Practitioner", Kind: KindRead}))
		})
	})
}

func TestRegistry_All(t *testing.T) {
	t.Run("will preserve insertion order", func(t *testing.T) {
		t.Run("if registrations arrive in a non-sorted order", func(t *testing.T) {
			reg := NewRegistry()

			require.NoError(t, reg.Register(&Registration{ResourceType: "Practitioner", Kind: KindUpdate}))
			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindCreate}))
			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead}))

			all := reg.All()
			require.Len(t, all, 3)
			assert.Equal(t, "Practitioner", all[0].ResourceType)
			assert.Equal(t, KindUpdate, all[0].Kind)
			assert.Equal(t, "Patient", all[1].ResourceType)
			assert.Equal(t, KindCreate, all[1].Kind)
			assert.Equal(t, "Patient", all[2].ResourceType)
			assert.Equal(t, KindRead, all[2].Kind)
		})
	})

	t.Run("will isolate callers from the backing slice", func(t *testing.T) {
		t.Run("if the returned slice is mutated", func(t *testing.T) {
			reg := NewRegistry()

			require.NoError(t, reg.Register(&Registration{ResourceType: "Patient", Kind: KindRead}))

			all := reg.All()
			all[0] = nil

			assert.NotNil(t, reg.All()[0])
		})
	})
}
