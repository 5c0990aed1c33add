// Package session tracks browser sessions. Each session owns one cart
// store and one identity signal; the registry namespaces the shared local
// store per session so carts survive process restarts under the same
// session cookie.
package session

import (
	"io"
	"log"
	"regexp"
	"sync"

	"herbstore/internal/cart"
	"herbstore/internal/kvstore"

	"github.com/google/uuid"
)

var validID = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

type Session struct {
	ID       string
	Cart     *cart.Store
	Identity *cart.IdentitySignal
}

type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	local    kvstore.Store
	remote   cart.SnapshotStore
	logger   *log.Logger
}

func NewRegistry(local kvstore.Store, remote cart.SnapshotStore, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Registry{
		sessions: make(map[string]*Session),
		local:    local,
		remote:   remote,
		logger:   logger,
	}
}

// GetOrCreate returns the session for id, rebuilding it from the local
// store if the process restarted. IDs that do not look like session ids
// are replaced rather than trusted.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id != "" && validID.MatchString(id) {
		if s, ok := r.sessions[id]; ok {
			return s
		}
		return r.buildLocked(id)
	}
	return r.buildLocked(uuid.NewString())
}

func (r *Registry) buildLocked(id string) *Session {
	signal := cart.NewIdentitySignal()
	local := kvstore.Namespaced(r.local, "session_"+id+"_")
	s := &Session{
		ID:       id,
		Cart:     cart.NewStore(local, r.remote, signal, r.logger),
		Identity: signal,
	}
	r.sessions[id] = s
	return s
}
