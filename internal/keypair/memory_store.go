package keypair

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[string]*Record
	now    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byKey: make(map[string]*Record),
		now:   time.Now,
	}
}

func (s *MemoryStore) FindByAPIKey(_ context.Context, apikey string) (*Record, error) {
	s.mu.RLock()
	rec, exists := s.byKey[apikey]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrKeyPairNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Create(_ context.Context, params CreateParams) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[params.APIKey]; exists {
		return nil, ErrKeyPairExists
	}

	s.nextID++
	now := s.now()
	rec := &Record{
		ID:             s.nextID,
		APIKey:         params.APIKey,
		PrivateKey:     params.PrivateKey,
		IsActive:       true,
		FailedAttempts: 0,
		ClientIP:       params.ClientIP,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.byKey[params.APIKey] = rec

	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) Save(_ context.Context, record *Record) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.byKey[record.APIKey]
	if !exists {
		return nil, ErrKeyPairNotFound
	}
	if err := checkTransition(current, record); err != nil {
		return nil, err
	}

	current.IsActive = record.IsActive
	current.FailedAttempts = record.FailedAttempts
	current.UpdatedAt = s.now()

	cp := *current
	return &cp, nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, apikey string, threshold int) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.byKey[apikey]
	if !exists {
		return nil, ErrKeyPairNotFound
	}

	current.FailedAttempts++
	if current.FailedAttempts >= threshold {
		current.IsActive = false
	}
	current.UpdatedAt = s.now()

	cp := *current
	return &cp, nil
}
