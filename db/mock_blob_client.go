package db

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MockBlobClient simulates a blob container in memory.
type MockBlobClient struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMockBlobClient initializes an empty MockBlobClient.
func NewMockBlobClient() *MockBlobClient {
	return &MockBlobClient{data: make(map[string][]byte)}
}

// Get returns a copy of the blob at key.
func (m *MockBlobClient) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	return append([]byte(nil), value...), nil
}

// Put stores a copy of data at key.
func (m *MockBlobClient) Put(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// List returns the stored keys under prefix, sorted.
func (m *MockBlobClient) List(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := []string{}
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Delete removes key if present.
func (m *MockBlobClient) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Ping always succeeds.
func (m *MockBlobClient) Ping(ctx context.Context) error {
	return nil
}
