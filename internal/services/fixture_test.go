package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"canteen_manager/internal/access"
	"canteen_manager/internal/auth"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
	"canteen_manager/internal/repository/memory"

	"github.com/shopspring/decimal"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type recordingNotifier struct {
	mu    sync.Mutex
	ready []uint
	err   error
}

func (n *recordingNotifier) OrderReady(_ context.Context, order *models.Order, _ *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ready = append(n.ready, order.ID)
	return n.err
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *recordingNotifier

	orders    OrderService
	users     UserService
	canteens  CanteenService
	menu      MenuService
	inventory InventoryService
	expenses  ExpenseService
	sales     SalesService

	canteenA, canteenB *models.Canteen
	samosa, tea        *models.MenuItem // canteen A
	burger             *models.MenuItem // canteen B

	admin, customer, otherCustomer *access.Actor
	staffA, staffB, unboundStaff   *access.Actor
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func uintPtr(v uint) *uint { return &v }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.New())
}

func newFixtureWithStore(t *testing.T, store *memory.Store) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), store: store, notifier: &recordingNotifier{}}
	f.buildServices(store)

	f.canteenA = f.mustCanteen(t, "Main Block")
	f.canteenB = f.mustCanteen(t, "Library Cafe")
	f.samosa = f.mustMenuItem(t, f.canteenA.ID, "Samosa", "40.00", models.CategorySnacks)
	f.tea = f.mustMenuItem(t, f.canteenA.ID, "Masala Tea", "15.50", models.CategoryBeverages)
	f.burger = f.mustMenuItem(t, f.canteenB.ID, "Veg Burger", "90.00", models.CategoryVeg)

	f.admin = f.mustUser(t, "admin@canteen.test", models.RoleAdmin, nil)
	f.customer = f.mustUser(t, "cust@canteen.test", models.RoleCustomer, nil)
	f.otherCustomer = f.mustUser(t, "other@canteen.test", models.RoleCustomer, nil)
	f.staffA = f.mustUser(t, "staff.a@canteen.test", models.RoleStaff, &f.canteenA.ID)
	f.staffB = f.mustUser(t, "staff.b@canteen.test", models.RoleStaff, &f.canteenB.ID)
	f.unboundStaff = f.mustUser(t, "staff.x@canteen.test", models.RoleStaff, nil)
	return f
}

func (f *fixture) buildServices(store repository.Store) {
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	f.orders = NewOrderService(store, f.notifier, nil, quietLogger)
	f.users = NewUserService(store, auth.NewMemorySessionStore(), jwt, quietLogger)
	f.canteens = NewCanteenService(store, quietLogger)
	f.menu = NewMenuService(store, quietLogger)
	f.inventory = NewInventoryService(store, quietLogger)
	f.expenses = NewExpenseService(store, quietLogger)
	f.sales = NewSalesService(store, quietLogger)
}

func (f *fixture) mustCanteen(t *testing.T, name string) *models.Canteen {
	t.Helper()
	c := &models.Canteen{Name: name}
	if err := f.store.Canteens().Create(f.ctx, c); err != nil {
		t.Fatalf("create canteen %s: %v", name, err)
	}
	return c
}

func (f *fixture) mustMenuItem(t *testing.T, canteenID uint, name, price string, cat models.MenuCategory) *models.MenuItem {
	t.Helper()
	m := &models.MenuItem{CanteenID: canteenID, Name: name, Price: dec(price), Category: cat, IsAvailable: true}
	if err := f.store.MenuItems().Create(f.ctx, m); err != nil {
		t.Fatalf("create menu item %s: %v", name, err)
	}
	return m
}

func (f *fixture) mustUser(t *testing.T, email string, role models.Role, canteenID *uint) *access.Actor {
	t.Helper()
	u := &models.User{Name: email, Email: email, PhoneNumber: "+91 90000 00000", Role: role, CanteenID: canteenID}
	if err := f.store.Users().Create(f.ctx, u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return access.FromUser(u)
}

// placeOrder places a samosa order for the customer.
func (f *fixture) placeOrder(t *testing.T, qty int) *models.Order {
	t.Helper()
	o, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{
		Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: qty}},
	})
	if err != nil {
		t.Fatalf("place order: %v", err)
	}
	return o
}

// orderIn returns a customer order driven by an admin into status.
func (f *fixture) orderIn(t *testing.T, status models.OrderStatus) *models.Order {
	t.Helper()
	o := f.placeOrder(t, 1)
	var path []models.OrderStatus
	switch status {
	case models.OrderReceived:
	case models.OrderPreparing:
		path = []models.OrderStatus{models.OrderPreparing}
	case models.OrderReady:
		path = []models.OrderStatus{models.OrderPreparing, models.OrderReady}
	case models.OrderCompleted:
		path = []models.OrderStatus{models.OrderPreparing, models.OrderReady, models.OrderCompleted}
	case models.OrderCancelled:
		path = []models.OrderStatus{models.OrderCancelled}
	}
	for _, st := range path {
		var err error
		if o, err = f.orders.UpdateStatus(f.ctx, f.admin, o.ID, string(st)); err != nil {
			t.Fatalf("drive order to %s: %v", st, err)
		}
	}
	return o
}

func wantErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("got error %v, want %v", err, target)
	}
}
