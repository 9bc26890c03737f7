package storage

import (
	"context"
	"encoding/json"
)

// Store is a persistent key-value store holding JSON values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

const documentVersion = 1

// document is the on-disk layout of a LocalStore.
type document struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}
