// Package cart implements the session cart store: a reducer-driven state
// machine over line items, persisted to a local durable store on every
// mutation and mirrored to a remote snapshot store while a customer
// identity is bound.
package cart

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"herbstore/internal/domain"
	"herbstore/internal/kvstore"
)

// SnapshotStore is the remote, identity-keyed cart backend. Load returns
// (nil, nil) when no snapshot exists for the customer.
type SnapshotStore interface {
	Load(ctx context.Context, customerID string) ([]domain.LineItem, error)
	Save(ctx context.Context, customerID string, items []domain.LineItem) error
}

// localKey is the fixed key the serialized item list lives under in the
// session's local store.
const localKey = "cart_items"

// notificationTTL is how long the add-to-cart notice stays visible.
const notificationTTL = 3 * time.Second

// shipping is flat-zero: free shipping is a business rule, not a derived
// value.
const shipping = 0.0

// Notification is the transient "item added" state. It is excluded from
// persistence.
type Notification struct {
	Item    *domain.LineItem `json:"item,omitempty"`
	Visible bool             `json:"visible"`
}

// Store owns one session's cart. All operations serialize through a
// single mutex; remote persistence is fire-and-forget and never blocks
// or fails a mutation.
type Store struct {
	mu     sync.Mutex
	state  State
	local  kvstore.Store
	remote SnapshotStore
	logger *log.Logger

	identity *string

	notifItem    *domain.LineItem
	notifVisible bool
}

// NewStore builds a Store hydrated from the local store and subscribes it
// to identity transitions. Usable before any identity or remote store is
// available.
func NewStore(local kvstore.Store, remote SnapshotStore, signal *IdentitySignal, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Store{
		state:  State{Items: []domain.LineItem{}},
		local:  local,
		remote: remote,
		logger: logger,
	}
	s.loadLocalLocked()
	if signal != nil {
		signal.Subscribe(s.onIdentity)
	}
	return s
}

// onIdentity runs the hydration protocol on every identity transition,
// including the initial bind.
func (s *Store) onIdentity(identity *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = identity
	s.hydrateLocked()
}

// hydrateLocked reconciles local and remote state. Remote wins over local
// when it yields a non-empty snapshot; any remote failure degrades
// silently to the local copy and never clears the cart.
func (s *Store) hydrateLocked() {
	if s.identity != nil && s.remote != nil {
		items, err := s.remote.Load(context.Background(), *s.identity)
		if err != nil {
			s.logger.Printf("cart: remote load for %s failed, falling back to local: %v", *s.identity, err)
		} else if len(items) > 0 {
			s.state = reduce(s.state, action{kind: actionSetItems, items: items})
			s.writeLocalLocked()
			return
		}
	}
	s.loadLocalLocked()
}

// loadLocalLocked replaces state from the local store. Absent or
// unparsable data leaves the current state untouched.
func (s *Store) loadLocalLocked() {
	if s.local == nil {
		return
	}
	raw, ok := s.local.Get(localKey)
	if !ok {
		return
	}
	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Printf("cart: unparsable local snapshot ignored: %v", err)
		return
	}
	s.state = reduce(s.state, action{kind: actionSetItems, items: items})
}

// AddItem appends or accumulates a line for the chosen variant. It is a
// logged no-op when the variant is missing or its price does not coerce
// to a finite positive number; that guard keeps corrupt catalog data out
// of cart totals. A quantity above the variant's stock is clamped down.
func (s *Store) AddItem(product domain.Product, variant *domain.Variant, quantity int) {
	if variant == nil {
		return
	}
	price := variant.Price
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		s.logger.Printf("cart: invalid price for product %q size %q: %v", product.Name, variant.Size, variant.Price)
		return
	}
	if quantity < 1 {
		quantity = 1
	}
	if variant.Stock > 0 && quantity > variant.Stock {
		quantity = variant.Stock
	}

	item := domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		Category:  product.Category,
		Size:      variant.Size,
		SKU:       variant.SKU,
		UnitPrice: price,
		Quantity:  quantity,
		MaxStock:  variant.Stock,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}

	s.mu.Lock()
	s.state = reduce(s.state, action{kind: actionAdd, item: item})
	s.notifItem = &item
	s.notifVisible = true
	s.persistLocked()
	s.mu.Unlock()

	// A second add before this fires will clear the first item's notice
	// early. Accepted display race; cart state is unaffected.
	time.AfterFunc(notificationTTL, func() {
		s.mu.Lock()
		s.notifVisible = false
		s.notifItem = nil
		s.mu.Unlock()
	})
}

// UpdateQuantity sets a line's quantity. Quantities at or below zero
// remove the line instead (there is no "stored as zero" state). If the
// line carries a MaxStock and the request exceeds it, the update is
// rejected outright: unlike AddItem, editing surfaces the limit by
// leaving state unchanged. Unknown lines are a no-op.
func (s *Store) UpdateQuantity(productID, size string, quantity int) {
	if quantity <= 0 {
		s.RemoveItem(productID, size)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var found *domain.LineItem
	for i := range s.state.Items {
		if s.state.Items[i].Is(productID, size) {
			found = &s.state.Items[i]
			break
		}
	}
	if found == nil {
		return
	}
	if found.MaxStock > 0 && quantity > found.MaxStock {
		return
	}
	s.state = reduce(s.state, action{kind: actionUpdateQuantity, productID: productID, size: size, quantity: quantity})
	s.persistLocked()
}

// RemoveItem deletes the matching line. Idempotent.
func (s *Store) RemoveItem(productID, size string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, action{kind: actionRemove, productID: productID, size: size})
	s.persistLocked()
}

// Clear empties the cart unconditionally. Used post-checkout and as the
// circuit breaker when aggregates are detected to be corrupt.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, action{kind: actionClear})
	s.persistLocked()
}

// writeLocalLocked mirrors the current item list to the local store.
// Best-effort: failures are logged and discarded.
func (s *Store) writeLocalLocked() {
	if s.local == nil {
		return
	}
	items := s.state.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Printf("cart: encode local snapshot: %v", err)
		return
	}
	s.local.Set(localKey, string(data))
}

// persistLocked writes the full item list to the local store and, when an
// identity is bound, pushes the same snapshot to the remote store on a
// goroutine. Both writes are best-effort: failures are logged and
// discarded, never surfaced to the caller.
func (s *Store) persistLocked() {
	s.writeLocalLocked()
	if s.identity == nil || s.remote == nil {
		return
	}
	customerID := *s.identity
	items := append([]domain.LineItem(nil), s.state.Items...)
	go func() {
		if err := s.remote.Save(context.Background(), customerID, items); err != nil {
			s.logger.Printf("cart: remote save for %s failed: %v", customerID, err)
		}
	}()
}

// Items returns a copy of the current line items. The copy is never nil
// so an empty cart still encodes as an empty JSON array.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]domain.LineItem, len(s.state.Items))
	copy(items, s.state.Items)
	return items
}

// Subtotal sums unit price times quantity over all lines. A line whose
// contribution is not finite is logged and contributes zero; AddItem's
// validation makes that unreachable for carts built in-process, but stale
// persisted data bypasses it.
func (s *Store) Subtotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.state.Items {
		line := it.UnitPrice * float64(it.Quantity)
		if math.IsNaN(line) || math.IsInf(line, 0) {
			s.logger.Printf("cart: non-finite line total for %q size %q (price=%v qty=%d)", it.Name, it.Size, it.UnitPrice, it.Quantity)
			continue
		}
		total += line
	}
	return total
}

// ItemCount is the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.state.Items {
		n += it.Quantity
	}
	return n
}

// Savings is a stable extension point for coupons and discounts; nothing
// applies one yet, so it is always zero.
func (s *Store) Savings() float64 {
	return 0
}

// Total is subtotal plus shipping minus savings, clamped to never go
// negative.
func (s *Store) Total() float64 {
	t := s.Subtotal() + shipping - s.Savings()
	if t < 0 {
		return 0
	}
	return t
}

// Notification returns the transient add-to-cart notice.
func (s *Store) Notification() Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := Notification{Visible: s.notifVisible}
	if s.notifItem != nil {
		item := *s.notifItem
		n.Item = &item
	}
	return n
}
