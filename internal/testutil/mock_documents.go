package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/gymportal/portal/internal/s3"
)

// InMemoryDocumentStore implements s3.Service
type InMemoryDocumentStore struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[string][]byte)}
}

func (s *InMemoryDocumentStore) UploadDocument(ctx context.Context, document *s3.Document) (string, error) {
	key, err := document.Key()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = document.Data
	return key, nil
}

func (s *InMemoryDocumentStore) GetPresignedUrl(ctx context.Context, key string) (string, error) {
	return fmt.Sprintf("https://documents.test/%s?signed=1", key), nil
}

func (s *InMemoryDocumentStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[key]
	return ok, nil
}

// Get returns the stored bytes for key
func (s *InMemoryDocumentStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.docs[key]
	return b, ok
}
