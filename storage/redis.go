// Copyright (c) 2025 Canvas Medical and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Redis is a [Store] backed by a Redis-compatible server. Bodies are
// stored under "{keyspace}:{resourceType}/{id}".
type Redis struct {
	client   redis.UniversalClient
	keyspace string
}

// NewRedis initializes a [Redis] store. The keyspace prefixes every key
// so multiple facades can share one server.
func NewRedis(client redis.UniversalClient, keyspace string) *Redis {
	return &Redis{
		client:   client,
		keyspace: keyspace,
	}
}

func (r *Redis) key(resourceType, id string) string {
	return r.keyspace + ":" + resourceType + "/" + id
}

// Get implements the [Store] interface.
func (r *Redis) Get(ctx context.Context, resourceType, id string) ([]byte, error) {
	body, err := r.client.Get(ctx, r.key(resourceType, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Put implements the [Store] interface.
func (r *Redis) Put(ctx context.Context, resourceType, id string, body []byte) error {
	return r.client.Set(ctx, r.key(resourceType, id), body, 0).Err()
}
