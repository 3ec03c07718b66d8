// Package store holds the key-value persistence behind every collection.
//
// Each collection is one JSON array stored under a fixed key. Reads return the whole
// array and writes replace it, so every operation is linear in collection size.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a string key to string value persistent map.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
	// SetMany overwrites several keys; either all of them are written or none.
	SetMany(ctx context.Context, values map[string]string) error
	Close() error
}

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store: closed")

// ReadCollection loads the array stored under key. An absent key or a value that
// does not parse yields an empty slice; only backend failures are returned as errors.
func ReadCollection[T any](ctx context.Context, st Store, key string) ([]T, error) {
	raw, ok, err := st.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil || out == nil {
		return []T{}, nil
	}
	return out, nil
}

// Encode serializes items the way WriteCollection stores them.
func Encode[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteCollection replaces the array stored under key with items.
func WriteCollection[T any](ctx context.Context, st Store, key string, items []T) error {
	v, err := Encode(items)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	if err := st.Set(ctx, key, v); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

// SeedIfAbsent writes items under key only when nothing is stored there yet.
// It reports whether it wrote.
func SeedIfAbsent[T any](ctx context.Context, st Store, key string, items []T) (bool, error) {
	_, ok, err := st.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("store: seed %s: %w", key, err)
	}
	if ok {
		return false, nil
	}
	return true, WriteCollection(ctx, st, key, items)
}
