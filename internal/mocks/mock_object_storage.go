package mocks

import (
	"context"
	"io"

	"github.com/you/booklib/domain"
)

// MockObjectStorage implements domain.ObjectStorage interface for testing
type MockObjectStorage struct {
	UploadFunc func(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)

	LastKey         string
	LastContentType string
	LastBody        []byte
}

// Compile-time interface compliance verification
var _ domain.ObjectStorage = (*MockObjectStorage)(nil)

// NewMockObjectStorage creates a new MockObjectStorage with default behaviors
func NewMockObjectStorage() *MockObjectStorage {
	return &MockObjectStorage{}
}

// Upload records the call and returns a fake public URL
func (m *MockObjectStorage) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	m.LastKey = key
	m.LastContentType = contentType
	if body != nil {
		m.LastBody, _ = io.ReadAll(body)
	}
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, contentType, body, size)
	}
	return "https://storage.test/images/" + key, nil
}
