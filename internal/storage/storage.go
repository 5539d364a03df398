// Package storage provides the key-value document backends the stores persist
// through. Documents are opaque JSON blobs addressed by a short key.
package storage

import (
	"context"
	"errors"
)

// Document keys used by the stores.
const (
	KeyEvents = "events"
	KeyConfig = "config"
	KeyTips   = "tips"
)

// ErrNotFound is returned when a document has never been saved. Stores treat
// it as an empty document, never as a hard failure.
var ErrNotFound = errors.New("document not found")

// Backend loads and saves whole documents. Every store mutation saves its full
// document synchronously before the operation returns.
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
