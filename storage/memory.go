// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package storage

import (
	"context"
	"slices"
	"sync"
)

// Memory is an in-process [Store]. It is safe for concurrent use and
// is the store of choice for tests and examples.
type Memory struct {
	mu     sync.RWMutex
	bodies map[string][]byte
}

// NewMemory initializes an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{
		bodies: make(map[string][]byte),
	}
}

// Get implements the [Store] interface.
func (m *Memory) Get(ctx context.Context, resourceType, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	body, ok := m.bodies[resourceType+"/"+id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(body), nil
}

// Put implements the [Store] interface.
func (m *Memory) Put(ctx context.Context, resourceType, id string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bodies[resourceType+"/"+id] = slices.Clone(body)
	return nil
}
