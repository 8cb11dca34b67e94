// internal/store/memory.go
//
// In-memory implementation of the round Store interface.
// This is a lightweight persistence layer used for ephemeral game rounds,
// primarily in development/testing, or when durability is not required.
//
// Characteristics:
//   - Stores Round values keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - Errors are returned for missing round IDs on Get().

package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get for unknown round IDs.
var ErrNotFound = errors.New("round not found")

// Round is the common surface of every game engine's round type.
// The store never inspects game state beyond these.
type Round interface {
	// RoundID returns the round's unique identifier.
	RoundID() string

	// GameKind returns the catalog kind the round was built for.
	GameKind() string

	// Complete reports whether the round has been finished.
	Complete() bool
}

// Store defines the persistence interface for game rounds.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a round.
	Save(ctx context.Context, r Round) error

	// Get retrieves a round by ID.
	// Returns ErrNotFound if the round is not found.
	Get(ctx context.Context, id string) (Round, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex     // guards rounds map
	rounds map[string]Round // keyed by RoundID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]Round)}
}

// Save adds or updates the round in the map.
func (m *memory) Save(ctx context.Context, r Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.RoundID()] = r
	return nil
}

// Get looks up a round by ID.
func (m *memory) Get(ctx context.Context, id string) (Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, ErrNotFound
}
