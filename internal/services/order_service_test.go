package services

import (
	"context"
	"errors"
	"testing"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/repository/memory"

	"github.com/shopspring/decimal"
)

var allStatuses = []models.OrderStatus{
	models.OrderReceived, models.OrderPreparing, models.OrderReady, models.OrderCompleted, models.OrderCancelled,
}

func TestPlaceOrderTotals(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{
		Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}},
		Notes: "extra chutney",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !o.TotalAmount.Equal(dec("80")) {
		t.Errorf("total = %s, want 80", o.TotalAmount)
	}
	if o.Status != models.OrderReceived || o.CanteenID != f.canteenA.ID || o.UserID != f.customer.UserID {
		t.Errorf("unexpected order %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].Name != "Samosa" || !o.Items[0].Price.Equal(dec("40")) {
		t.Errorf("items = %+v", o.Items)
	}
}

func TestPlaceOrderSnapshotsPrice(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)

	newPrice := dec("55")
	if _, err := f.menu.UpdateMenuItem(f.ctx, f.staffA, f.samosa.ID, MenuItemUpdate{Price: &newPrice}); err != nil {
		t.Fatal(err)
	}
	got, err := f.orders.GetOrder(f.ctx, f.customer, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Items[0].Price.Equal(dec("40")) || !got.TotalAmount.Equal(dec("40")) {
		t.Errorf("order price changed with menu: %+v", got)
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	wrongPrice := dec("39.99")
	wrongTotal := dec("100")
	rightTotal := dec("95.50")
	unavailable := f.mustMenuItem(t, f.canteenA.ID, "Sold Out", "10", models.CategorySnacks)
	unavailable.IsAvailable = false
	if err := f.store.MenuItems().Update(f.ctx, unavailable); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   PlaceOrderInput
	}{
		{"empty cart", PlaceOrderInput{}},
		{"zero quantity", PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 0}}}},
		{"negative quantity", PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: -1}}}},
		{"unknown item", PlaceOrderInput{Items: []OrderLine{{MenuItemID: 999, Quantity: 1}}}},
		{"unavailable item", PlaceOrderInput{Items: []OrderLine{{MenuItemID: unavailable.ID, Quantity: 1}}}},
		{"two canteens", PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 1}, {MenuItemID: f.burger.ID, Quantity: 1}}}},
		{"line price mismatch", PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 1, Price: &wrongPrice}}}},
		{"total mismatch", PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}}, TotalAmount: &wrongTotal}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.PlaceOrder(f.ctx, f.customer, tt.in)
			wantErr(t, err, apperr.ErrValidation)
		})
	}

	orders, err := f.store.Orders().List(f.ctx, repository.OrderFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(orders) != 0 {
		t.Fatalf("rejected checkouts left %d orders behind", len(orders))
	}

	// a matching client total is accepted
	o, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{
		Items:       []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}, {MenuItemID: f.tea.ID, Quantity: 1}},
		TotalAmount: &rightTotal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !o.TotalAmount.Equal(rightTotal) {
		t.Errorf("total = %s", o.TotalAmount)
	}
}

func TestPlaceOrderRoles(t *testing.T) {
	f := newFixture(t)
	in := PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 1}}}

	_, err := f.orders.PlaceOrder(f.ctx, nil, in)
	wantErr(t, err, apperr.ErrUnauthenticated)
	_, err = f.orders.PlaceOrder(f.ctx, f.staffA, in)
	wantErr(t, err, apperr.ErrForbidden)
	if _, err := f.orders.PlaceOrder(f.ctx, f.admin, in); err != nil {
		t.Errorf("admin should satisfy the customer role: %v", err)
	}
}

func TestHappyPathLifecycle(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)

	for _, st := range []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderCompleted} {
		got, err := f.orders.UpdateStatus(f.ctx, f.staffA, o.ID, string(st))
		if err != nil {
			t.Fatalf("-> %s: %v", st, err)
		}
		if got.Status != st {
			t.Fatalf("status = %s, want %s", got.Status, st)
		}
		if len(got.Items) != 1 || got.Items[0].Quantity != 1 {
			t.Fatalf("items touched by transition: %+v", got.Items)
		}
	}
	final, _ := f.orders.GetOrder(f.ctx, f.admin, o.ID)
	if final.Version != 4 {
		t.Errorf("version = %d, want 4 after three transitions", final.Version)
	}
	if len(f.notifier.ready) != 1 || f.notifier.ready[0] != o.ID {
		t.Errorf("ready notifications = %v", f.notifier.ready)
	}
}

func TestSkippingStatesIsRejected(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)

	_, err := f.orders.UpdateStatus(f.ctx, f.staffA, o.ID, string(models.OrderCompleted))
	wantErr(t, err, apperr.ErrInvalidTransition)

	got, _ := f.orders.GetOrder(f.ctx, f.customer, o.ID)
	if got.Status != models.OrderReceived {
		t.Errorf("status = %s after rejected transition", got.Status)
	}
}

func TestTransitionTable(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				o := f.orderIn(t, from)

				got, err := f.orders.UpdateStatus(f.ctx, f.admin, o.ID, string(to))
				if models.CanTransition(from, to) {
					if err != nil {
						t.Fatalf("allowed edge rejected: %v", err)
					}
					if got.Status != to {
						t.Fatalf("status = %s", got.Status)
					}
					return
				}
				wantErr(t, err, apperr.ErrInvalidTransition)
				after, _ := f.orders.GetOrder(f.ctx, f.admin, o.ID)
				if after.Status != from || after.Version != o.Version {
					t.Fatalf("rejected edge changed the order: %+v", after)
				}
			})
		}
	}
}

func TestCustomerTransitions(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		want     error
	}{
		{models.OrderReceived, models.OrderCancelled, nil},
		{models.OrderPreparing, models.OrderCancelled, nil},
		{models.OrderReady, models.OrderCompleted, nil},
		{models.OrderReceived, models.OrderPreparing, apperr.ErrForbidden},
		{models.OrderPreparing, models.OrderReady, apperr.ErrForbidden},
		{models.OrderReady, models.OrderCancelled, apperr.ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			f := newFixture(t)
			o := f.orderIn(t, tt.from)
			_, err := f.orders.UpdateStatus(f.ctx, f.customer, o.ID, string(tt.to))
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			wantErr(t, err, tt.want)
		})
	}
}

func TestUpdateStatusErrors(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)

	_, err := f.orders.UpdateStatus(f.ctx, nil, o.ID, "preparing")
	wantErr(t, err, apperr.ErrUnauthenticated)
	_, err = f.orders.UpdateStatus(f.ctx, f.staffA, o.ID, "shipped")
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.orders.UpdateStatus(f.ctx, f.unboundStaff, o.ID, "preparing")
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.orders.UpdateStatus(f.ctx, f.staffA, 999, "preparing")
	wantErr(t, err, apperr.ErrNotFound)
	_, err = f.orders.UpdateStatus(f.ctx, f.otherCustomer, o.ID, "cancelled")
	wantErr(t, err, apperr.ErrForbidden)
}

func TestStaffOfOtherCanteenForbidden(t *testing.T) {
	f := newFixture(t)
	o, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.burger.ID, Quantity: 1}}})
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.orders.UpdateStatus(f.ctx, f.staffA, o.ID, "preparing")
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.orders.GetOrder(f.ctx, f.staffA, o.ID)
	wantErr(t, err, apperr.ErrForbidden)

	if _, err := f.orders.UpdateStatus(f.ctx, f.staffB, o.ID, "preparing"); err != nil {
		t.Errorf("own canteen staff rejected: %v", err)
	}
}

func TestCancelAndCompleteRequireOwnership(t *testing.T) {
	f := newFixture(t)

	o := f.placeOrder(t, 1)
	_, err := f.orders.CancelOrder(f.ctx, f.otherCustomer, o.ID)
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.orders.CancelOrder(f.ctx, f.admin, o.ID)
	wantErr(t, err, apperr.ErrForbidden)
	got, err := f.orders.CancelOrder(f.ctx, f.customer, o.ID)
	if err != nil || got.Status != models.OrderCancelled {
		t.Fatalf("cancel: %+v %v", got, err)
	}

	ready := f.orderIn(t, models.OrderReady)
	_, err = f.orders.CompleteOrder(f.ctx, f.staffA, ready.ID)
	wantErr(t, err, apperr.ErrForbidden)
	got, err = f.orders.CompleteOrder(f.ctx, f.customer, ready.ID)
	if err != nil || got.Status != models.OrderCompleted {
		t.Fatalf("complete: %+v %v", got, err)
	}

	fresh := f.placeOrder(t, 1)
	_, err = f.orders.CompleteOrder(f.ctx, f.customer, fresh.ID)
	wantErr(t, err, apperr.ErrInvalidTransition)
}

func TestReorder(t *testing.T) {
	f := newFixture(t)
	src, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{
		Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}, {MenuItemID: f.tea.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range []string{"preparing", "ready", "completed"} {
		if src, err = f.orders.UpdateStatus(f.ctx, f.staffA, src.ID, st); err != nil {
			t.Fatal(err)
		}
	}

	copyOf, err := f.orders.Reorder(f.ctx, f.customer, src.ID)
	if err != nil {
		t.Fatal(err)
	}
	if copyOf.ID == src.ID || copyOf.Status != models.OrderReceived || copyOf.CanteenID != src.CanteenID {
		t.Fatalf("reorder = %+v", copyOf)
	}
	if len(copyOf.Items) != len(src.Items) {
		t.Fatalf("got %d lines, want %d", len(copyOf.Items), len(src.Items))
	}
	for i := range src.Items {
		a, b := src.Items[i], copyOf.Items[i]
		if a.MenuItemID != b.MenuItemID || a.Quantity != b.Quantity || !a.Price.Equal(b.Price) {
			t.Errorf("line %d: %+v vs %+v", i, a, b)
		}
	}
	if !copyOf.TotalAmount.Equal(src.TotalAmount) {
		t.Errorf("total = %s, want %s", copyOf.TotalAmount, src.TotalAmount)
	}

	_, err = f.orders.Reorder(f.ctx, f.otherCustomer, src.ID)
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.orders.Reorder(f.ctx, f.customer, 999)
	wantErr(t, err, apperr.ErrNotFound)
}

func TestRateOrder(t *testing.T) {
	f := newFixture(t)

	for _, st := range allStatuses {
		if st == models.OrderCompleted {
			continue
		}
		o := f.orderIn(t, st)
		_, err := f.orders.RateOrder(f.ctx, f.customer, o.ID, 4, "")
		if !errors.Is(err, apperr.ErrInvalidState) {
			t.Errorf("rating a %s order: got %v, want invalid state", st, err)
		}
	}

	done := f.orderIn(t, models.OrderCompleted)
	_, err := f.orders.RateOrder(f.ctx, f.customer, done.ID, 6, "")
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.orders.RateOrder(f.ctx, f.customer, done.ID, 0, "")
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.orders.RateOrder(f.ctx, f.customer, 999, 3, "")
	wantErr(t, err, apperr.ErrNotFound)
	_, err = f.orders.RateOrder(f.ctx, f.otherCustomer, done.ID, 3, "")
	wantErr(t, err, apperr.ErrForbidden)

	first, err := f.orders.RateOrder(f.ctx, f.customer, done.ID, 2, "cold")
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.orders.RateOrder(f.ctx, f.customer, done.ID, 5, "reheated, great")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.Rating != 5 {
		t.Errorf("second rating did not update the first: %+v vs %+v", first, second)
	}
	stored, err := f.orders.GetRating(f.ctx, f.customer, done.ID)
	if err != nil || stored.Rating != 5 || stored.Comment != "reheated, great" {
		t.Errorf("stored rating = %+v, %v", stored, err)
	}

	summary, err := f.orders.CanteenRating(f.ctx, f.otherCustomer, f.canteenA.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Count != 1 || summary.Average != 5 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestListOrdersScoping(t *testing.T) {
	f := newFixture(t)
	mine := f.placeOrder(t, 1)
	if _, err := f.orders.PlaceOrder(f.ctx, f.otherCustomer, PlaceOrderInput{Items: []OrderLine{{MenuItemID: f.burger.ID, Quantity: 1}}}); err != nil {
		t.Fatal(err)
	}

	got, err := f.orders.ListOrders(f.ctx, f.customer, OrderQuery{})
	if err != nil || len(got) != 1 || got[0].ID != mine.ID {
		t.Fatalf("customer sees %+v, %v", got, err)
	}
	got, err = f.orders.ListOrders(f.ctx, f.staffA, OrderQuery{})
	if err != nil || len(got) != 1 || got[0].CanteenID != f.canteenA.ID {
		t.Fatalf("staff A sees %+v, %v", got, err)
	}
	_, err = f.orders.ListOrders(f.ctx, f.staffA, OrderQuery{CanteenID: &f.canteenB.ID})
	wantErr(t, err, apperr.ErrForbidden)
	got, err = f.orders.ListOrders(f.ctx, f.admin, OrderQuery{})
	if err != nil || len(got) != 2 {
		t.Fatalf("admin sees %d orders, %v", len(got), err)
	}
	got, err = f.orders.ListOrders(f.ctx, f.admin, OrderQuery{CanteenID: &f.canteenB.ID})
	if err != nil || len(got) != 1 {
		t.Fatalf("admin canteen filter: %d, %v", len(got), err)
	}

	if _, err := f.orders.UpdateStatus(f.ctx, f.staffA, mine.ID, "cancelled"); err != nil {
		t.Fatal(err)
	}
	got, _ = f.orders.ListOrders(f.ctx, f.staffA, OrderQuery{ActiveOnly: true})
	if len(got) != 0 {
		t.Errorf("active-only returned cancelled order")
	}
	got, _ = f.orders.ListOrders(f.ctx, f.staffA, OrderQuery{Status: "cancelled"})
	if len(got) != 1 {
		t.Errorf("status filter returned %d orders", len(got))
	}
	_, err = f.orders.ListOrders(f.ctx, f.staffA, OrderQuery{Status: "lost"})
	wantErr(t, err, apperr.ErrValidation)
}

func TestUnboundStaffRejectedEverywhere(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)
	s := f.unboundStaff

	stock, err := f.inventory.CreateInventoryItem(f.ctx, f.staffA, InventoryInput{Name: "Oil", Unit: "l", Quantity: 5, ReorderLevel: 1})
	if err != nil {
		t.Fatal(err)
	}
	expense, err := f.expenses.CreateExpense(f.ctx, f.staffA, ExpenseInput{Description: "Gas", Amount: dec("100"), ExpenseDate: "2026-03-01"})
	if err != nil {
		t.Fatal(err)
	}
	report, err := f.sales.UpsertReport(f.ctx, f.staffA, SalesReportInput{Date: "2026-03-01", TotalOrders: 1, TotalRevenue: dec("40")})
	if err != nil {
		t.Fatal(err)
	}
	name := "renamed"
	qty := 9.0

	calls := map[string]func() error{
		"update status": func() error { _, err := f.orders.UpdateStatus(f.ctx, s, o.ID, "preparing"); return err },
		"get order":     func() error { _, err := f.orders.GetOrder(f.ctx, s, o.ID); return err },
		"list orders":   func() error { _, err := f.orders.ListOrders(f.ctx, s, OrderQuery{}); return err },
		"list ratings":  func() error { _, err := f.orders.ListRatings(f.ctx, s, nil); return err },
		"create menu": func() error {
			_, err := f.menu.CreateMenuItem(f.ctx, s, MenuItemInput{Name: "x", Price: dec("1"), Category: "veg"})
			return err
		},
		"delete menu":     func() error { return f.menu.DeleteMenuItem(f.ctx, s, f.samosa.ID) },
		"list inventory":  func() error { _, err := f.inventory.ListInventory(f.ctx, s, nil); return err },
		"low stock":       func() error { _, err := f.inventory.GetLowStock(f.ctx, s, nil); return err },
		"list expenses":   func() error { _, err := f.expenses.ListExpenses(f.ctx, s, ExpenseQuery{}); return err },
		"list reports":    func() error { _, err := f.sales.ListReports(f.ctx, s, nil); return err },
		"generate report": func() error { _, err := f.sales.GenerateDailyReport(f.ctx, s, nil, ""); return err },
		"get rating":      func() error { _, err := f.orders.GetRating(f.ctx, s, o.ID); return err },
		"update menu": func() error {
			_, err := f.menu.UpdateMenuItem(f.ctx, s, f.samosa.ID, MenuItemUpdate{Name: &name})
			return err
		},
		"menu availability": func() error { _, err := f.menu.SetAvailability(f.ctx, s, f.samosa.ID, false); return err },
		"get inventory":     func() error { _, err := f.inventory.GetInventoryItem(f.ctx, s, stock.ID); return err },
		"create inventory": func() error {
			_, err := f.inventory.CreateInventoryItem(f.ctx, s, InventoryInput{Name: "Rice", Unit: "kg", Quantity: 1})
			return err
		},
		"update inventory": func() error {
			_, err := f.inventory.UpdateInventoryItem(f.ctx, s, stock.ID, InventoryUpdate{Quantity: &qty})
			return err
		},
		"adjust inventory": func() error { _, err := f.inventory.AdjustQuantity(f.ctx, s, stock.ID, 1); return err },
		"delete inventory": func() error { return f.inventory.DeleteInventoryItem(f.ctx, s, stock.ID) },
		"create expense": func() error {
			_, err := f.expenses.CreateExpense(f.ctx, s, ExpenseInput{Description: "x", Amount: dec("1")})
			return err
		},
		"get expense": func() error { _, err := f.expenses.GetExpense(f.ctx, s, expense.ID); return err },
		"update expense": func() error {
			_, err := f.expenses.UpdateExpense(f.ctx, s, expense.ID, ExpenseUpdate{Description: &name})
			return err
		},
		"delete expense": func() error { return f.expenses.DeleteExpense(f.ctx, s, expense.ID) },
		"get report":     func() error { _, err := f.sales.GetReport(f.ctx, s, report.ID); return err },
		"upsert report": func() error {
			_, err := f.sales.UpsertReport(f.ctx, s, SalesReportInput{Date: "2026-03-02"})
			return err
		},
		"delete report": func() error { return f.sales.DeleteReport(f.ctx, s, report.ID) },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			wantErr(t, call(), apperr.ErrValidation)
		})
	}
}

func TestNotifierFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("gateway down")
	o := f.orderIn(t, models.OrderPreparing)

	got, err := f.orders.UpdateStatus(f.ctx, f.staffA, o.ID, "ready")
	if err != nil {
		t.Fatalf("transition failed with notifier error: %v", err)
	}
	if got.Status != models.OrderReady {
		t.Errorf("status = %s", got.Status)
	}
}

// racingStore lets another writer bump the order version between the
// transition's read and its write.
type racingStore struct {
	repository.Store
	raced bool
}

func (r *racingStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return r.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(&racingTx{Store: tx, parent: r})
	})
}

type racingTx struct {
	repository.Store
	parent *racingStore
}

func (t *racingTx) Orders() repository.OrderRepository {
	return &racingOrders{OrderRepository: t.Store.Orders(), parent: t.parent}
}

type racingOrders struct {
	repository.OrderRepository
	parent *racingStore
}

func (o *racingOrders) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := o.OrderRepository.GetByID(ctx, id)
	if err != nil || o.parent.raced {
		return order, err
	}
	o.parent.raced = true
	return order, o.OrderRepository.UpdateStatus(ctx, id, order.Version, order.Status)
}

func TestConcurrentTransitionConflicts(t *testing.T) {
	f := newFixture(t)
	o := f.placeOrder(t, 1)

	racer := &racingStore{Store: f.store}
	svc := NewOrderService(racer, nil, nil, quietLogger)
	_, err := svc.UpdateStatus(f.ctx, f.staffA, o.ID, "preparing")
	wantErr(t, err, apperr.ErrConflict)

	after, _ := f.store.Orders().GetByID(f.ctx, o.ID)
	if after.Status != models.OrderReceived || after.Version != o.Version {
		t.Errorf("lost update was not rolled back: %+v", after)
	}
}

func TestOrderCreationIsAtomic(t *testing.T) {
	store := memory.New()
	f := newFixtureWithStore(t, store)
	boom := errors.New("disk full")

	err := store.WithinTx(f.ctx, func(tx repository.Store) error {
		o := &models.Order{UserID: f.customer.UserID, CanteenID: f.canteenA.ID, TotalAmount: decimal.Zero,
			Items: []models.OrderItem{{MenuItemID: f.samosa.ID, Quantity: 1, Price: f.samosa.Price}}}
		if err := tx.Orders().Create(f.ctx, o); err != nil {
			return err
		}
		return boom
	})
	wantErr(t, err, boom)

	orders, _ := store.Orders().List(f.ctx, repository.OrderFilter{})
	if len(orders) != 0 {
		t.Fatalf("failed transaction left %d orders", len(orders))
	}
	// menu item stays deletable: no dangling order item references it
	if err := store.MenuItems().Delete(f.ctx, f.samosa.ID); err != nil {
		t.Errorf("delete after rollback: %v", err)
	}
}
