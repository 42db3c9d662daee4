package storage

import (
	"bytes"
	"errors"
	"testing"

	"github.com/credlens/credlens/internal/model"
)

func TestStoreAndRetrieve(t *testing.T) {
	s := NewBlobStore(t.TempDir())
	doc := []byte("quarterly results announcement body")

	hash, err := s.Store(doc)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if hash != Hash(doc) {
		t.Errorf("hash = %q, want content hash", hash)
	}

	got, err := s.Retrieve(hash)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if !bytes.Equal(got, doc) {
		t.Errorf("retrieved %q, want %q", got, doc)
	}
}

func TestStoreIdempotent(t *testing.T) {
	s := NewBlobStore(t.TempDir())
	doc := []byte("same document twice")

	h1, err := s.Store(doc)
	if err != nil {
		t.Fatalf("first Store: %v", err)
	}
	h2, err := s.Store(doc)
	if err != nil {
		t.Fatalf("second Store: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hashes differ: %q vs %q", h1, h2)
	}
	if !s.Exists(h1) {
		t.Error("blob should exist after store")
	}
}

func TestStoreEmptyDocument(t *testing.T) {
	s := NewBlobStore(t.TempDir())

	if _, err := s.Store(nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestRetrieveMissing(t *testing.T) {
	s := NewBlobStore(t.TempDir())

	_, err := s.Retrieve(Hash([]byte("never stored")))
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRetrieveMalformedHash(t *testing.T) {
	s := NewBlobStore(t.TempDir())

	if _, err := s.Retrieve("not-a-hash"); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if s.Exists("zz") {
		t.Error("malformed hash must not exist")
	}
}
