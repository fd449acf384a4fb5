package blob

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go-shop-api/internal/model"
)

// Store is the object store holding product images. Implementations write a
// binary payload under a flat key and expose it again through a public URL.
type Store interface {
	Put(ctx context.Context, key string, contentType string, data io.Reader) error
	Open(key string) (*os.File, error)
	Stat(key string) (fs.FileInfo, error)
	Delete(key string) error
	PublicURL(key string) string
	Bucket() string
}

// DiskStore keeps blobs as files under <root>/<bucket>. Keys are flat names;
// anything that could escape the bucket directory is rejected.
type DiskStore struct {
	dir           string
	bucket        string
	publicBaseURL string
}

func NewDiskStore(root string, bucket string, publicBaseURL string) (*DiskStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("blob root is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("blob bucket is required")
	}

	dir, err := filepath.Abs(filepath.Join(root, bucket))
	if err != nil {
		return nil, fmt.Errorf("resolve blob directory: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob directory: %w", err)
	}

	return &DiskStore{
		dir:           dir,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *DiskStore) Bucket() string {
	return s.bucket
}

// Put writes the payload to a temp file first and renames it into place, so a
// key never refers to a partially written blob.
func (s *DiskStore) Put(ctx context.Context, key string, contentType string, data io.Reader) error {
	resolved, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp blob: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, data)
	closeErr := tmp.Close()
	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write blob %q: %w", key, copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close blob %q: %w", key, closeErr)
	}

	if err := os.Rename(tmpPath, resolved); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("publish blob %q: %w", key, err)
	}

	return nil
}

func (s *DiskStore) Open(key string) (*os.File, error) {
	resolved, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if os.IsNotExist(err) {
		return nil, model.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open blob %q: %w", key, err)
	}

	return file, nil
}

func (s *DiskStore) Stat(key string) (fs.FileInfo, error) {
	resolved, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(resolved)
	if os.IsNotExist(err) {
		return nil, model.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("stat blob %q: %w", key, err)
	}

	return info, nil
}

func (s *DiskStore) Delete(key string) error {
	resolved, err := s.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil {
		if os.IsNotExist(err) {
			return model.ErrBlobNotFound
		}
		return fmt.Errorf("delete blob %q: %w", key, err)
	}

	return nil
}

// PublicURL is a deterministic function of the base address and key; no round
// trip to the store is involved.
func (s *DiskStore) PublicURL(key string) string {
	return s.publicBaseURL + "/media/" + key
}

func (s *DiskStore) resolve(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	return filepath.Join(s.dir, key), nil
}

// ValidateKey accepts only flat file names, so a key can never address
// anything outside the bucket directory.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("blob key is empty")
	}
	if strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("blob key %q contains a path separator", key)
	}
	if key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("blob key %q is not a plain file name", key)
	}

	return nil
}
