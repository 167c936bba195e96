package device

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// envelope is how every value is persisted.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// migration turns the data of version n into the data of version n+1.
type migration func(json.RawMessage) (json.RawMessage, error)

// schema describes one persisted value: its current version, its default
// and the steps that bring older versions up to date.
type schema[T any] struct {
	version    int
	def        func() T
	migrations map[int]migration // keyed by the version they upgrade from
}

// upgrade applies the migrations from version to s.version.
func (s schema[T]) upgrade(version int, data json.RawMessage) (json.RawMessage, error) {
	for v := version; v < s.version; v++ {
		m, ok := s.migrations[v]
		if !ok {
			return nil, fmt.Errorf("no migration from version %d", v)
		}
		var err error
		if data, err = m(data); err != nil {
			return nil, fmt.Errorf("migration from version %d: %w", v, err)
		}
	}
	return data, nil
}

// decode parses an envelope. Malformed values, unknown versions and failed
// migrations all give the default. migrated reports whether the stored
// value should be rewritten.
func (s schema[T]) decode(key string, raw []byte) (value T, migrated bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Version < 1 || env.Data == nil {
		slog.Warn("Discarding malformed local value", "key", key, "error", err)
		return s.def(), false
	}
	if env.Version > s.version {
		slog.Warn("Discarding local value from a newer version", "key", key, "version", env.Version)
		return s.def(), false
	}
	return s.decodeData(key, env.Version, env.Data)
}

func (s schema[T]) decodeData(key string, version int, data json.RawMessage) (value T, migrated bool) {
	data, err := s.upgrade(version, data)
	if err != nil {
		slog.Warn("Discarding local value that cannot be migrated", "key", key, "error", err)
		return s.def(), false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("Discarding malformed local value", "key", key, "error", err)
		return s.def(), false
	}
	return value, version != s.version
}

func (s schema[T]) encode(value T) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Version: s.version, Data: data})
}

// load reads key, falling back to the default. Values stored by an older
// version are migrated and written back.
func load[T any](kv *safeKV, key string, s schema[T]) T {
	raw, ok := kv.get(key)
	if !ok {
		return s.def()
	}
	value, migrated := s.decode(key, raw)
	if migrated {
		save(kv, key, s, value)
	}
	return value
}

func save[T any](kv *safeKV, key string, s schema[T], value T) {
	raw, err := s.encode(value)
	if err != nil {
		slog.Warn("Failed to encode local value", "key", key, "error", err)
		return
	}
	kv.set(key, raw)
}

// update loads key, applies fn and saves the result.
func update[T any](kv *safeKV, key string, s schema[T], fn func(T) T) T {
	value := fn(load(kv, key, s))
	save(kv, key, s, value)
	return value
}
