// Package storage provides the key/value persistence boundary the list
// engine mirrors its state into. Values are JSON strings; the engine
// stays agnostic of the backing technology.
package storage

import (
	"errors"
	"sync"
)

// Keys the engine persists under.
const (
	KeyCurrentPage = "currentPage"
	KeyCurrentList = "precivox-current-list"
	KeyAllLists    = "precivox-all-lists"
	KeySelected    = "selectedList"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Adapter is the minimal contract the engine needs: string get/set/remove.
type Adapter interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

// Memory is a map-backed adapter for tests and ephemeral sessions.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }
