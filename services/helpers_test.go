package services_test

import (
	"context"
	"strings"
	"sync"

	"storefront-service/database"
	"storefront-service/models"
)

// fakeKV is an in-memory database.KV with write-failure injection.
type fakeKV struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
	delErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	val, ok := f.data[key]
	if !ok {
		return "", database.ErrKeyNotFound
	}
	return val, nil
}

func (f *fakeKV) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeKV) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeKV) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeKV) failWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

func (f *fakeKV) chunkKeys(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for k := range f.data {
		if strings.HasPrefix(k, key+":chunk:") {
			out = append(out, k)
		}
	}
	return out
}

func product(id, name string, price float64) models.Product {
	return models.Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Category:  "Dresses",
		Available: true,
	}
}
