// Package kvstore provides the local durable key-value store backing
// session carts. Implementations must never fail loudly: a broken or
// unavailable backend degrades to in-memory-only operation.
package kvstore

import "sync"

// Store is a string key-value store. Set is best-effort; implementations
// swallow and log write failures rather than returning them.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Memory is an in-process Store used in tests and as a fallback when no
// data directory is configured.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

type namespaced struct {
	inner  Store
	prefix string
}

// Namespaced returns a view of inner with every key prefixed. Used to give
// each session its own keyspace over a shared backend.
func Namespaced(inner Store, prefix string) Store {
	return &namespaced{inner: inner, prefix: prefix}
}

func (n *namespaced) Get(key string) (string, bool) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespaced) Set(key, value string) {
	n.inner.Set(n.prefix+key, value)
}
