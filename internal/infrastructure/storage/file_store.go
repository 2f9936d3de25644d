package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore is a blob store backed by a local filesystem container. A
// container is safe for concurrent Put calls; a given locator must never be
// overwritten concurrently.
type FileStore struct {
	root      string
	container string
	dir       string
}

// Open ensures the container directory for containerID exists under root and
// returns a store handle bound to it. The root must be writable; a probe
// write is performed so misconfiguration fails at startup rather than on the
// first capture.
func Open(root, containerID string) (*FileStore, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty storage root", ErrStorageInit)
	}
	if containerID == "" {
		return nil, fmt.Errorf("%w: empty container id", ErrStorageInit)
	}

	dir := filepath.Join(root, containerID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create container %s: %v", ErrStorageInit, dir, err)
	}

	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("%w: container %s is not writable: %v", ErrStorageInit, dir, err)
	}
	probeName := probe.Name()
	if err := probe.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageInit, err)
	}
	if err := os.Remove(probeName); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	return &FileStore{root: root, container: containerID, dir: dir}, nil
}

// Container returns the container id this handle is bound to.
func (s *FileStore) Container() string {
	return s.container
}

// Put streams a payload into the container and returns its locator. The
// payload is written to a temporary file and renamed into place, so a
// locator never resolves to a partial write.
func (s *FileStore) Put(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	locator := uuid.NewString()

	tmp, err := os.CreateTemp(s.dir, ".put-*")
	if err != nil {
		return "", fmt.Errorf("failed to stage blob: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to sync blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to close blob: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, locator)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("failed to publish blob: %w", err)
	}

	return locator, nil
}

// PutBytes stores an in-memory payload. See Put.
func (s *FileStore) PutBytes(ctx context.Context, payload []byte) (string, error) {
	return s.Put(ctx, bytes.NewReader(payload))
}

// Get returns the payload stored under locator. Unknown or malformed
// locators fail with ErrBlobNotFound.
func (s *FileStore) Get(ctx context.Context, locator string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, locator)
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", locator, err)
	}
	return payload, nil
}

// Delete removes the blob stored under locator.
func (s *FileStore) Delete(ctx context.Context, locator string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(locator)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBlobNotFound, locator)
		}
		return fmt.Errorf("failed to delete blob %s: %w", locator, err)
	}
	return nil
}

// List enumerates every locator in the container. Staged temporary files are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list container %s: %w", s.container, err)
	}

	locators := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		locators = append(locators, e.Name())
	}
	return locators, nil
}

// Stat returns the modification time recorded for a locator. Used by the
// orphan sweep to honor its grace window.
func (s *FileStore) Stat(ctx context.Context, locator string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, locator)
		}
		return nil, err
	}
	return info, nil
}

// resolve validates a locator and maps it to its path inside the container.
// Locators naming anything outside the container do not resolve.
func (s *FileStore) resolve(locator string) (string, error) {
	if locator == "" || strings.ContainsAny(locator, `/\`) || locator == "." || locator == ".." {
		return "", fmt.Errorf("%w: %q", ErrBlobNotFound, locator)
	}
	return filepath.Join(s.dir, locator), nil
}
