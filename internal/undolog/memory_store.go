package undolog

import (
	"context"
	"sync"
)

// MemoryStore keeps the log in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	present bool
	records []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.present = true
	s.records = nil
	return nil
}

func (s *MemoryStore) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.present = true
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ReadAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.present {
		return nil, ErrNotFound
	}
	return append([]Record(nil), s.records...), nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.present = false
	s.records = nil
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
