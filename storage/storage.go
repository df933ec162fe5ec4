// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package storage provides narrow key/value stores for resource bodies.
// Durability, indexing and retry policy belong to whichever backend an
// application chooses; interaction handlers only see [Store].
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by [Store.Get] when no body exists for the
// given resource type and id.
var ErrNotFound = errors.New("storage: resource not found")

// Store reads and writes serialized resource bodies keyed by
// (resource type, id).
type Store interface {
	Get(ctx context.Context, resourceType, id string) ([]byte, error)
	Put(ctx context.Context, resourceType, id string, body []byte) error
}
