package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func TestFileBackendRoundTrip(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	want := []byte(`{"hello": "world"}`)
	if err := backend.Save(context.Background(), KeyEvents, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := backend.Load(context.Background(), KeyEvents)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = %q, want %q", got, want)
	}
}

func TestFileBackendMissingKey(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	if _, err := backend.Load(context.Background(), KeyConfig); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileBackendOverwrite(t *testing.T) {
	backend, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	backend.Save(context.Background(), KeyTips, []byte("one"))
	backend.Save(context.Background(), KeyTips, []byte("two"))

	got, err := backend.Load(context.Background(), KeyTips)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != "two" {
		t.Errorf("Load = %q, want two", got)
	}
}

func TestFileBackendCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := NewFileBackend(dir); err != nil {
		t.Fatalf("nested dir: %v", err)
	}
}
