package cart

import "herbstore/internal/domain"

// State is the cart's in-memory state. Insertion order of items is
// preserved; it carries no meaning but keeps rendering stable.
type State struct {
	Items []domain.LineItem
}

type actionKind int

const (
	actionSetItems actionKind = iota
	actionAdd
	actionUpdateQuantity
	actionRemove
	actionClear
)

type action struct {
	kind      actionKind
	items     []domain.LineItem
	item      domain.LineItem
	productID string
	size      string
	quantity  int
}

// reduce is the pure cart transition. It performs no I/O and never
// mutates its input; orchestration and persistence live in Store.
func reduce(s State, a action) State {
	switch a.kind {
	case actionSetItems:
		return State{Items: append([]domain.LineItem(nil), a.items...)}
	case actionAdd:
		for i, it := range s.Items {
			if it.Is(a.item.ProductID, a.item.Size) {
				// Same (product, size) accumulates quantity; the
				// denormalized fields stay as first captured.
				out := append([]domain.LineItem(nil), s.Items...)
				out[i].Quantity += a.item.Quantity
				return State{Items: out}
			}
		}
		out := append([]domain.LineItem(nil), s.Items...)
		return State{Items: append(out, a.item)}
	case actionUpdateQuantity:
		out := append([]domain.LineItem(nil), s.Items...)
		for i, it := range out {
			if it.Is(a.productID, a.size) {
				out[i].Quantity = a.quantity
			}
		}
		return State{Items: out}
	case actionRemove:
		out := make([]domain.LineItem, 0, len(s.Items))
		for _, it := range s.Items {
			if !it.Is(a.productID, a.size) {
				out = append(out, it)
			}
		}
		return State{Items: out}
	case actionClear:
		return State{Items: []domain.LineItem{}}
	default:
		return s
	}
}
