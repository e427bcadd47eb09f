// Package memory implements the object-storage port in process memory. Used
// by tests and local development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"accessaudit/domain/storage"
)

type object struct {
	data []byte
	meta storage.ObjectMetadata
}

type Storage struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

func New(baseURL string) *Storage {
	if baseURL == "" {
		baseURL = "memory://attachments"
	}
	return &Storage{
		objects: make(map[string]object),
		baseURL: baseURL,
	}
}

func (s *Storage) Put(ctx context.Context, key string, reader io.Reader, meta storage.ObjectMetadata) (*storage.StoredObject, error) {
	buf := &bytes.Buffer{}
	size, err := io.Copy(buf, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	s.mu.Lock()
	s.objects[key] = object{data: buf.Bytes(), meta: meta}
	s.mu.Unlock()

	return &storage.StoredObject{
		URL:  s.baseURL + "/" + strings.TrimPrefix(key, "/"),
		Key:  key,
		Size: size,
	}, nil
}

func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[key]
	return ok, nil
}
