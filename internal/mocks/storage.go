package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// MockObjectStore is a mock implementation of service.ObjectStore
type MockObjectStore struct {
	mock.Mock
	// Uploaded collects the bytes of every PutObject call keyed by object key
	Uploaded map[string][]byte
}

// PutObject mocks the PutObject method
func (m *MockObjectStore) PutObject(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if m.Uploaded == nil {
		m.Uploaded = make(map[string][]byte)
	}
	m.Uploaded[key] = data

	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

// DeleteObject mocks the DeleteObject method
func (m *MockObjectStore) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// KeyFromURL mocks the KeyFromURL method
func (m *MockObjectStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}
