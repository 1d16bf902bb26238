package models

import "testing"

func TestCanTransition(t *testing.T) {
	all := []OrderStatus{OrderReceived, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled}
	allowed := map[[2]OrderStatus]bool{
		{OrderReceived, OrderPreparing}:  true,
		{OrderReceived, OrderCancelled}:  true,
		{OrderPreparing, OrderReady}:     true,
		{OrderPreparing, OrderCancelled}: true,
		{OrderReady, OrderCompleted}:     true,
	}

	for _, from := range all {
		for _, to := range all {
			got := CanTransition(from, to)
			want := allowed[[2]OrderStatus{from, to}]
			if got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestCustomerEdgesAreLifecycleEdges(t *testing.T) {
	for from, targets := range customerEdges {
		for _, to := range targets {
			if !CanTransition(from, to) {
				t.Errorf("customer edge %s -> %s missing from lifecycle", from, to)
			}
		}
	}
	if CustomerCanTransition(OrderReceived, OrderPreparing) {
		t.Error("customers must not start preparing an order")
	}
	if !CustomerCanTransition(OrderReady, OrderCompleted) {
		t.Error("customers pick up ready orders")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if _, ok := ParseOrderStatus("cooking"); ok {
		t.Error("expected unknown status to be rejected")
	}
	st, ok := ParseOrderStatus("ready")
	if !ok || st != OrderReady {
		t.Errorf("got %q %v, want ready true", st, ok)
	}
}

func TestSyncAdminFlag(t *testing.T) {
	u := &User{Role: RoleAdmin}
	u.SyncAdminFlag()
	if !u.IsAdmin {
		t.Error("admin role must set IsAdmin")
	}
	u.Role = RoleStaff
	u.SyncAdminFlag()
	if u.IsAdmin {
		t.Error("staff role must clear IsAdmin")
	}
}
