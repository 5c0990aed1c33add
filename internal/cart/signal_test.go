package cart

import "testing"

func TestIdentitySignal_NotifiesOnTransition(t *testing.T) {
	s := NewIdentitySignal()
	var got []*string
	s.Subscribe(func(identity *string) {
		got = append(got, identity)
	})

	id := "cust-1"
	s.Set(&id)
	s.Set(nil)

	if len(got) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(got))
	}
	if got[0] == nil || *got[0] != "cust-1" || got[1] != nil {
		t.Fatalf("unexpected notifications %+v", got)
	}
}

func TestIdentitySignal_SkipsRedundantSet(t *testing.T) {
	s := NewIdentitySignal()
	calls := 0
	s.Subscribe(func(*string) { calls++ })

	id1 := "cust-1"
	id2 := "cust-1"
	s.Set(&id1)
	s.Set(&id2) // same value, different pointer
	s.Set(nil)
	s.Set(nil)

	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
}

func TestIdentitySignal_Current(t *testing.T) {
	s := NewIdentitySignal()
	if s.Current() != nil {
		t.Fatalf("expected anonymous initially")
	}
	id := "cust-9"
	s.Set(&id)
	if cur := s.Current(); cur == nil || *cur != "cust-9" {
		t.Fatalf("unexpected current %v", cur)
	}
}
