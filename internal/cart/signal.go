package cart

import "sync"

// IdentitySignal carries the currently bound customer identity, nil when
// anonymous. Observers are notified synchronously on each transition;
// setting the same identity again does not notify.
type IdentitySignal struct {
	mu      sync.Mutex
	current *string
	subs    []func(identity *string)
}

func NewIdentitySignal() *IdentitySignal {
	return &IdentitySignal{}
}

// Subscribe registers fn for future transitions. It does not replay the
// current value.
func (s *IdentitySignal) Subscribe(fn func(identity *string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Set binds the identity and notifies subscribers if it changed.
func (s *IdentitySignal) Set(identity *string) {
	s.mu.Lock()
	if equalIdentity(s.current, identity) {
		s.mu.Unlock()
		return
	}
	s.current = identity
	subs := append(([]func(*string))(nil), s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}

// Current returns the bound identity, nil when anonymous.
func (s *IdentitySignal) Current() *string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func equalIdentity(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
