// Package kv persists JSON collections under namespaced keys. Backend errors
// are logged and never reach the caller.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=kv.go -destination=backend_mock.go -package=kv
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type Collection[T any] struct {
	backend  Backend
	key      string
	defaults func() []T
	logger   *slog.Logger
}

type Option[T any] func(*Collection[T])

func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Collection[T]) {
		c.logger = logger
	}
}

// A nil defaults means an empty collection.
func NewCollection[T any](backend Backend, key string, defaults func() []T, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		backend:  backend,
		key:      key,
		defaults: defaults,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Collection[T]) Key() string {
	return c.key
}

func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, err := c.backend.Get(ctx, c.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.ErrorContext(ctx, "failed to read from storage", "key", c.key, "error", err)
		}

		return c.fallback()
	}

	items, err := decode[T](raw)
	if err != nil {
		c.logger.WarnContext(ctx, "discarding malformed stored data", "key", c.key, "error", err)
		return c.fallback()
	}

	return items
}

func (c *Collection[T]) Save(ctx context.Context, items []T) {
	if items == nil {
		items = []T{}
	}

	raw, err := json.Marshal(items)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode collection", "key", c.key, "error", err)
		return
	}

	if err := c.backend.Set(ctx, c.key, raw); err != nil {
		c.logger.ErrorContext(ctx, "failed to write to storage", "key", c.key, "error", err)
	}
}

func (c *Collection[T]) fallback() []T {
	if c.defaults == nil {
		return []T{}
	}

	return c.defaults()
}

func decode[T any](raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}

	if items == nil {
		return nil, errors.New("decoding: stored value is not an array")
	}

	return items, nil
}
