package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// chunkInfo is the metadata entry written under "<key>:info". Chunks == 0
// means the payload lives unchunked under the key itself.
type chunkInfo struct {
	Chunks    int   `json:"chunks"`
	Count     int   `json:"count"`
	Timestamp int64 `json:"timestamp"`
}

// ChunkedListStore persists a list of T as JSON in a KV whose entries are
// capped at MaxChunkSize bytes. Payloads over the cap are split across
// "<key>:chunk:<i>" entries and reassembled on load. At any point a key owns
// either the unchunked value or the chunk entries, never both.
type ChunkedListStore[T any] struct {
	kv           KV
	maxChunkSize int
	maxChunks    int
}

func NewChunkedListStore[T any](kv KV, maxChunkSize, maxChunks int) *ChunkedListStore[T] {
	return &ChunkedListStore[T]{
		kv:           kv,
		maxChunkSize: maxChunkSize,
		maxChunks:    maxChunks,
	}
}

func infoKey(key string) string {
	return key + ":info"
}

func chunkKey(key string, i int) string {
	return fmt.Sprintf("%s:chunk:%d", key, i)
}

// Save writes items under key, chunking when the serialized payload exceeds
// the entry cap. A failed save leaves the caller responsible for retaining
// its prior in-memory state; nothing here reports false success.
func (s *ChunkedListStore[T]) Save(ctx context.Context, key string, items []T) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serialize %q: %w", key, err)
	}

	if len(payload) < s.maxChunkSize {
		return s.saveUnchunked(ctx, key, string(payload), len(items))
	}
	return s.saveChunked(ctx, key, string(payload), len(items))
}

func (s *ChunkedListStore[T]) saveUnchunked(ctx context.Context, key, payload string, count int) error {
	if err := s.kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := s.writeInfo(ctx, key, 0, count); err != nil {
		return err
	}
	return s.deleteChunks(ctx, key, 0)
}

func (s *ChunkedListStore[T]) saveChunked(ctx context.Context, key, payload string, count int) error {
	chunks := (len(payload) + s.maxChunkSize - 1) / s.maxChunkSize
	if chunks > s.maxChunks {
		return fmt.Errorf("%q needs %d chunks, ceiling is %d: %w",
			key, chunks, s.maxChunks, ErrTooManyChunks)
	}

	for i := 0; i < chunks; i++ {
		start := i * s.maxChunkSize
		end := start + s.maxChunkSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := s.kv.Set(ctx, chunkKey(key, i), payload[start:end]); err != nil {
			return fmt.Errorf("write chunk %d of %q: %w", i, key, err)
		}
	}

	if err := s.writeInfo(ctx, key, chunks, count); err != nil {
		return err
	}

	// The chunks own the data now; the unchunked entry must not survive.
	if err := s.kv.Del(ctx, key); err != nil {
		return fmt.Errorf("delete unchunked %q: %w", key, err)
	}
	return s.deleteChunks(ctx, key, chunks)
}

func (s *ChunkedListStore[T]) writeInfo(ctx context.Context, key string, chunks, count int) error {
	info, err := json.Marshal(chunkInfo{
		Chunks:    chunks,
		Count:     count,
		Timestamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("serialize info for %q: %w", key, err)
	}
	if err := s.kv.Set(ctx, infoKey(key), string(info)); err != nil {
		return fmt.Errorf("write info for %q: %w", key, err)
	}
	return nil
}

// deleteChunks removes chunk entries from index from up to the configured
// ceiling, clearing leftovers from a previous larger save.
func (s *ChunkedListStore[T]) deleteChunks(ctx context.Context, key string, from int) error {
	stale := make([]string, 0, s.maxChunks-from)
	for i := from; i < s.maxChunks; i++ {
		stale = append(stale, chunkKey(key, i))
	}
	if err := s.kv.Del(ctx, stale...); err != nil {
		return fmt.Errorf("delete stale chunks of %q: %w", key, err)
	}
	return nil
}

// Load reads the list stored under key. A missing info entry falls back to
// reading the legacy unchunked key so data written before chunking existed
// still loads.
func (s *ChunkedListStore[T]) Load(ctx context.Context, key string) ([]T, error) {
	infoRaw, err := s.kv.Get(ctx, infoKey(key))
	if errors.Is(err, ErrKeyNotFound) {
		return s.loadUnchunked(ctx, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read info for %q: %w", key, err)
	}

	var info chunkInfo
	if err := json.Unmarshal([]byte(infoRaw), &info); err != nil {
		return nil, fmt.Errorf("parse info for %q: %w", key, err)
	}

	if info.Chunks == 0 {
		return s.loadUnchunked(ctx, key)
	}

	var payload strings.Builder
	for i := 0; i < info.Chunks; i++ {
		chunk, err := s.kv.Get(ctx, chunkKey(key, i))
		if errors.Is(err, ErrKeyNotFound) {
			return nil, fmt.Errorf("chunk %d of %d for %q: %w", i, info.Chunks, key, ErrChunkMissing)
		}
		if err != nil {
			return nil, fmt.Errorf("read chunk %d of %q: %w", i, key, err)
		}
		payload.WriteString(chunk)
	}

	return s.decode(key, payload.String())
}

func (s *ChunkedListStore[T]) loadUnchunked(ctx context.Context, key string) ([]T, error) {
	payload, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return s.decode(key, payload)
}

func (s *ChunkedListStore[T]) decode(key, payload string) ([]T, error) {
	var items []T
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, fmt.Errorf("deserialize %q: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
