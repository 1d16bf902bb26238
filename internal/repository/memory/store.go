// Package memory is an in-process repository.Store. Every call is serialized by one
// mutex; WithinTx holds that mutex for the whole callback and restores a snapshot
// when the callback fails, so multi-entity writes are all-or-nothing.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
)

type table[T any] struct {
	rows map[uint]T
	seq  uint
}

func newTable[T any]() table[T] {
	return table[T]{rows: make(map[uint]T)}
}

func (t *table[T]) next() uint {
	t.seq++
	return t.seq
}

// clone copies the map; row values are replaced on write, never mutated in place.
func (t table[T]) clone() table[T] {
	rows := make(map[uint]T, len(t.rows))
	for k, v := range t.rows {
		rows[k] = v
	}
	return table[T]{rows: rows, seq: t.seq}
}

// ordered returns the rows sorted by id.
func (t table[T]) ordered() []T {
	ids := make([]uint, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.rows[id])
	}
	return out
}

type data struct {
	users        table[models.User]
	canteens     table[models.Canteen]
	menuItems    table[models.MenuItem]
	orders       table[models.Order]
	orderItemSeq uint
	lastOrderAt  time.Time
	ratings      table[models.OrderRating]
	inventory    table[models.InventoryItem]
	expenses     table[models.Expense]
	sales        table[models.SalesReport]
}

func newData() *data {
	return &data{
		users:     newTable[models.User](),
		canteens:  newTable[models.Canteen](),
		menuItems: newTable[models.MenuItem](),
		orders:    newTable[models.Order](),
		ratings:   newTable[models.OrderRating](),
		inventory: newTable[models.InventoryItem](),
		expenses:  newTable[models.Expense](),
		sales:     newTable[models.SalesReport](),
	}
}

func (d *data) clone() *data {
	return &data{
		users:        d.users.clone(),
		canteens:     d.canteens.clone(),
		menuItems:    d.menuItems.clone(),
		orders:       d.orders.clone(),
		orderItemSeq: d.orderItemSeq,
		lastOrderAt:  d.lastOrderAt,
		ratings:      d.ratings.clone(),
		inventory:    d.inventory.clone(),
		expenses:     d.expenses.clone(),
		sales:        d.sales.clone(),
	}
}

type Store struct {
	mu   *sync.Mutex
	data *data
	inTx bool
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests control the timestamps the store assigns.
func NewWithClock(now func() time.Time) *Store {
	return &Store{mu: &sync.Mutex{}, data: newData(), now: now}
}

// lock acquires the store mutex unless the caller already runs inside WithinTx.
func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	defer s.lock()()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.data.clone()
	tx := &Store{mu: s.mu, data: s.data, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

func (s *Store) Users() repository.UserRepository               { return userRepo{s} }
func (s *Store) Canteens() repository.CanteenRepository         { return canteenRepo{s} }
func (s *Store) MenuItems() repository.MenuItemRepository       { return menuItemRepo{s} }
func (s *Store) Orders() repository.OrderRepository             { return orderRepo{s} }
func (s *Store) Ratings() repository.RatingRepository           { return ratingRepo{s} }
func (s *Store) Inventory() repository.InventoryRepository      { return inventoryRepo{s} }
func (s *Store) Expenses() repository.ExpenseRepository         { return expenseRepo{s} }
func (s *Store) SalesReports() repository.SalesReportRepository { return salesRepo{s} }

func cloneUser(u models.User) models.User {
	if u.CanteenID != nil {
		id := *u.CanteenID
		u.CanteenID = &id
	}
	return u
}

func cloneOrder(o models.Order) models.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func matchesCanteen(filter *uint, canteenID uint) bool {
	return filter == nil || *filter == canteenID
}
