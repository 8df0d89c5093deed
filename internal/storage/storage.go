// internal/storage/storage.go

// Package storage provides the durable local key-value slot the store
// persists favourites into, plus an in-memory substitute for tests.
package storage

import "sync"

// KV is the minimal persistence surface: one string value per named slot.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Memory is a map-backed KV for tests and ephemeral sessions.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
