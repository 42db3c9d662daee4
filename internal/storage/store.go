package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/credlens/credlens/internal/model"
)

// BlobStore keeps announcement documents on disk, addressed by the SHA-256
// of their content. Identical uploads land on the same path, so storing is
// idempotent and the hash doubles as the announcement content identity.
type BlobStore struct {
	dir string
}

// NewBlobStore creates a store rooted at dir
func NewBlobStore(dir string) *BlobStore {
	return &BlobStore{dir: dir}
}

// Store writes the document and returns its content hash. An existing blob
// is left untouched.
func (s *BlobStore) Store(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty document", model.ErrInvalidInput)
	}

	hash := Hash(data)
	path := s.path(hash)
	if _, err := os.Stat(path); err == nil {
		return hash, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	// Write-then-rename so a crashed write never leaves a partial blob
	// under its final name.
	tmp, err := os.CreateTemp(filepath.Dir(path), ".blob-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close blob: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("finalize blob: %w", err)
	}

	return hash, nil
}

// Retrieve reads a document back by its content hash
func (s *BlobStore) Retrieve(hash string) ([]byte, error) {
	if !validHash(hash) {
		return nil, fmt.Errorf("%w: malformed content hash %q", model.ErrInvalidInput, hash)
	}
	data, err := os.ReadFile(s.path(hash))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: blob %s", model.ErrNotFound, hash)
	}
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// Exists reports whether a blob with the given hash is stored
func (s *BlobStore) Exists(hash string) bool {
	if !validHash(hash) {
		return false
	}
	_, err := os.Stat(s.path(hash))
	return err == nil
}

// Path returns the on-disk location for a stored hash
func (s *BlobStore) Path(hash string) string {
	return s.path(hash)
}

// Hash computes the content identity of a document
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// path shards blobs by the first two hash bytes to keep directories small
func (s *BlobStore) path(hash string) string {
	return filepath.Join(s.dir, hash[:2], hash[2:4], hash)
}

func validHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
