package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
	"canteen_manager/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) emailTaken(email string, except uint) bool {
	for id, u := range r.s.data.users.rows {
		if id != except && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r userRepo) Create(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	if r.emailTaken(user.Email, 0) {
		return apperr.Conflict("user already exists")
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	user.SyncAdminFlag()
	now := r.s.now()
	user.ID = r.s.data.users.next()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.data.users.rows[user.ID] = cloneUser(*user)
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	defer r.s.lock()()
	u, ok := r.s.data.users.rows[id]
	if !ok {
		return nil, apperr.NotFound("user", id)
	}
	u = cloneUser(u)
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.lock()()
	for _, u := range r.s.data.users.rows {
		if strings.EqualFold(u.Email, email) {
			u = cloneUser(u)
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, apperr.ErrNotFound)
}

func (r userRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	defer r.s.lock()()
	var out []models.User
	for _, u := range r.s.data.users.ordered() {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.CanteenID != nil && (u.CanteenID == nil || *u.CanteenID != *filter.CanteenID) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r userRepo) Update(_ context.Context, user *models.User) error {
	defer r.s.lock()()
	old, ok := r.s.data.users.rows[user.ID]
	if !ok {
		return apperr.NotFound("user", user.ID)
	}
	if r.emailTaken(user.Email, user.ID) {
		return apperr.Conflict("user already exists")
	}
	user.SyncAdminFlag()
	user.CreatedAt = old.CreatedAt
	user.UpdatedAt = r.s.now()
	r.s.data.users.rows[user.ID] = cloneUser(*user)
	return nil
}

func (r userRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.users.rows[id]; !ok {
		return apperr.NotFound("user", id)
	}
	delete(r.s.data.users.rows, id)
	return nil
}

type canteenRepo struct{ s *Store }

func (r canteenRepo) nameTaken(name string, except uint) bool {
	for id, c := range r.s.data.canteens.rows {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r canteenRepo) Create(_ context.Context, canteen *models.Canteen) error {
	defer r.s.lock()()
	if r.nameTaken(canteen.Name, 0) {
		return apperr.Conflict("canteen already exists")
	}
	now := r.s.now()
	canteen.ID = r.s.data.canteens.next()
	canteen.CreatedAt, canteen.UpdatedAt = now, now
	r.s.data.canteens.rows[canteen.ID] = *canteen
	return nil
}

func (r canteenRepo) GetByID(_ context.Context, id uint) (*models.Canteen, error) {
	defer r.s.lock()()
	c, ok := r.s.data.canteens.rows[id]
	if !ok {
		return nil, apperr.NotFound("canteen", id)
	}
	return &c, nil
}

func (r canteenRepo) List(_ context.Context) ([]models.Canteen, error) {
	defer r.s.lock()()
	out := r.s.data.canteens.ordered()
	slices.SortStableFunc(out, func(a, b models.Canteen) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r canteenRepo) Update(_ context.Context, canteen *models.Canteen) error {
	defer r.s.lock()()
	old, ok := r.s.data.canteens.rows[canteen.ID]
	if !ok {
		return apperr.NotFound("canteen", canteen.ID)
	}
	if r.nameTaken(canteen.Name, canteen.ID) {
		return apperr.Conflict("canteen already exists")
	}
	canteen.CreatedAt = old.CreatedAt
	canteen.UpdatedAt = r.s.now()
	r.s.data.canteens.rows[canteen.ID] = *canteen
	return nil
}

func (r canteenRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	d := r.s.data
	if _, ok := d.canteens.rows[id]; !ok {
		return apperr.NotFound("canteen", id)
	}
	dependents := []struct {
		name  string
		count int
	}{
		{"menu items", countWhere(d.menuItems.rows, func(m models.MenuItem) bool { return m.CanteenID == id })},
		{"orders", countWhere(d.orders.rows, func(o models.Order) bool { return o.CanteenID == id })},
		{"inventory items", countWhere(d.inventory.rows, func(i models.InventoryItem) bool { return i.CanteenID == id })},
		{"expenses", countWhere(d.expenses.rows, func(e models.Expense) bool { return e.CanteenID == id })},
		{"sales reports", countWhere(d.sales.rows, func(s models.SalesReport) bool { return s.CanteenID == id })},
		{"staff", countWhere(d.users.rows, func(u models.User) bool { return u.CanteenID != nil && *u.CanteenID == id })},
	}
	for _, dep := range dependents {
		if dep.count > 0 {
			return apperr.Conflict("canteen %d still has %d %s", id, dep.count, dep.name)
		}
	}
	delete(d.canteens.rows, id)
	return nil
}

func countWhere[T any](rows map[uint]T, match func(T) bool) int {
	n := 0
	for _, row := range rows {
		if match(row) {
			n++
		}
	}
	return n
}

type menuItemRepo struct{ s *Store }

func (r menuItemRepo) Create(_ context.Context, item *models.MenuItem) error {
	defer r.s.lock()()
	if _, ok := r.s.data.canteens.rows[item.CanteenID]; !ok {
		return apperr.NotFound("canteen", item.CanteenID)
	}
	now := r.s.now()
	item.ID = r.s.data.menuItems.next()
	item.CreatedAt, item.UpdatedAt = now, now
	item.Canteen = nil
	r.s.data.menuItems.rows[item.ID] = *item
	return nil
}

func (r menuItemRepo) GetByID(_ context.Context, id uint) (*models.MenuItem, error) {
	defer r.s.lock()()
	m, ok := r.s.data.menuItems.rows[id]
	if !ok {
		return nil, apperr.NotFound("menu item", id)
	}
	return &m, nil
}

func (r menuItemRepo) List(_ context.Context, filter repository.MenuFilter) ([]models.MenuItem, error) {
	defer r.s.lock()()
	var out []models.MenuItem
	for _, m := range r.s.data.menuItems.ordered() {
		if !matchesCanteen(filter.CanteenID, m.CanteenID) {
			continue
		}
		if filter.Category != "" && m.Category != filter.Category {
			continue
		}
		if filter.AvailableOnly && !m.IsAvailable {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r menuItemRepo) Update(_ context.Context, item *models.MenuItem) error {
	defer r.s.lock()()
	old, ok := r.s.data.menuItems.rows[item.ID]
	if !ok {
		return apperr.NotFound("menu item", item.ID)
	}
	if _, ok := r.s.data.canteens.rows[item.CanteenID]; !ok {
		return apperr.NotFound("canteen", item.CanteenID)
	}
	item.CreatedAt = old.CreatedAt
	item.UpdatedAt = r.s.now()
	item.Canteen = nil
	r.s.data.menuItems.rows[item.ID] = *item
	return nil
}

func (r menuItemRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.menuItems.rows[id]; !ok {
		return apperr.NotFound("menu item", id)
	}
	refs := countWhere(r.s.data.orders.rows, func(o models.Order) bool {
		return slices.ContainsFunc(o.Items, func(it models.OrderItem) bool { return it.MenuItemID == id })
	})
	if refs > 0 {
		return apperr.Conflict("menu item %d appears in %d orders; mark it unavailable instead", id, refs)
	}
	delete(r.s.data.menuItems.rows, id)
	return nil
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, order *models.Order) error {
	defer r.s.lock()()
	d := r.s.data
	now := r.s.now()
	// created_at must be strictly increasing so newest-first listings are stable
	if !now.After(d.lastOrderAt) {
		now = d.lastOrderAt.Add(1)
	}
	d.lastOrderAt = now
	order.ID = d.orders.next()
	if order.Status == "" {
		order.Status = models.OrderReceived
	}
	if order.Version == 0 {
		order.Version = 1
	}
	order.CreatedAt, order.UpdatedAt = now, now
	for i := range order.Items {
		d.orderItemSeq++
		order.Items[i].ID = d.orderItemSeq
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = now
	}
	d.orders.rows[order.ID] = cloneOrder(*order)
	return nil
}

func (r orderRepo) GetByID(_ context.Context, id uint) (*models.Order, error) {
	defer r.s.lock()()
	o, ok := r.s.data.orders.rows[id]
	if !ok {
		return nil, apperr.NotFound("order", id)
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	defer r.s.lock()()
	var out []models.Order
	for _, o := range r.s.data.orders.rows {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if !matchesCanteen(filter.CanteenID, o.CanteenID) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, o.Status) {
			continue
		}
		if !filter.CreatedFrom.IsZero() && o.CreatedAt.Before(filter.CreatedFrom) {
			continue
		}
		if !filter.CreatedTo.IsZero() && !o.CreatedAt.Before(filter.CreatedTo) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	slices.SortFunc(out, func(a, b models.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID) - int(a.ID)
	})
	return out, nil
}

func (r orderRepo) UpdateStatus(_ context.Context, id, version uint, status models.OrderStatus) error {
	defer r.s.lock()()
	o, ok := r.s.data.orders.rows[id]
	if !ok {
		return apperr.NotFound("order", id)
	}
	if o.Version != version {
		return apperr.Conflict("order %d was modified concurrently", id)
	}
	o.Status = status
	o.Version++
	o.UpdatedAt = r.s.now()
	r.s.data.orders.rows[id] = o
	return nil
}

type ratingRepo struct{ s *Store }

func (r ratingRepo) Upsert(_ context.Context, rating *models.OrderRating) error {
	defer r.s.lock()()
	now := r.s.now()
	for id, existing := range r.s.data.ratings.rows {
		if existing.OrderID != rating.OrderID {
			continue
		}
		existing.Rating = rating.Rating
		existing.Comment = rating.Comment
		existing.UpdatedAt = now
		r.s.data.ratings.rows[id] = existing
		*rating = existing
		return nil
	}
	rating.ID = r.s.data.ratings.next()
	rating.CreatedAt, rating.UpdatedAt = now, now
	r.s.data.ratings.rows[rating.ID] = *rating
	return nil
}

func (r ratingRepo) GetByOrderID(_ context.Context, orderID uint) (*models.OrderRating, error) {
	defer r.s.lock()()
	for _, rt := range r.s.data.ratings.rows {
		if rt.OrderID == orderID {
			return &rt, nil
		}
	}
	return nil, fmt.Errorf("rating for order %d: %w", orderID, apperr.ErrNotFound)
}

func (r ratingRepo) List(_ context.Context, filter repository.RatingFilter) ([]models.OrderRating, error) {
	defer r.s.lock()()
	var out []models.OrderRating
	for _, rt := range r.s.data.ratings.ordered() {
		if filter.UserID != nil && rt.UserID != *filter.UserID {
			continue
		}
		if !matchesCanteen(filter.CanteenID, rt.CanteenID) {
			continue
		}
		out = append(out, rt)
	}
	return out, nil
}

type inventoryRepo struct{ s *Store }

func (r inventoryRepo) Create(_ context.Context, item *models.InventoryItem) error {
	defer r.s.lock()()
	if _, ok := r.s.data.canteens.rows[item.CanteenID]; !ok {
		return apperr.NotFound("canteen", item.CanteenID)
	}
	now := r.s.now()
	item.ID = r.s.data.inventory.next()
	item.CreatedAt, item.UpdatedAt = now, now
	r.s.data.inventory.rows[item.ID] = *item
	return nil
}

func (r inventoryRepo) GetByID(_ context.Context, id uint) (*models.InventoryItem, error) {
	defer r.s.lock()()
	it, ok := r.s.data.inventory.rows[id]
	if !ok {
		return nil, apperr.NotFound("inventory item", id)
	}
	return &it, nil
}

func (r inventoryRepo) List(_ context.Context, canteenID *uint) ([]models.InventoryItem, error) {
	defer r.s.lock()()
	var out []models.InventoryItem
	for _, it := range r.s.data.inventory.ordered() {
		if matchesCanteen(canteenID, it.CanteenID) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r inventoryRepo) ListLowStock(_ context.Context, canteenID uint) ([]models.InventoryItem, error) {
	defer r.s.lock()()
	var out []models.InventoryItem
	for _, it := range r.s.data.inventory.ordered() {
		if it.CanteenID == canteenID && it.IsLowStock() {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r inventoryRepo) Update(_ context.Context, item *models.InventoryItem) error {
	defer r.s.lock()()
	old, ok := r.s.data.inventory.rows[item.ID]
	if !ok {
		return apperr.NotFound("inventory item", item.ID)
	}
	item.CreatedAt = old.CreatedAt
	item.UpdatedAt = r.s.now()
	r.s.data.inventory.rows[item.ID] = *item
	return nil
}

func (r inventoryRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.inventory.rows[id]; !ok {
		return apperr.NotFound("inventory item", id)
	}
	delete(r.s.data.inventory.rows, id)
	return nil
}

type expenseRepo struct{ s *Store }

func (r expenseRepo) Create(_ context.Context, expense *models.Expense) error {
	defer r.s.lock()()
	if _, ok := r.s.data.canteens.rows[expense.CanteenID]; !ok {
		return apperr.NotFound("canteen", expense.CanteenID)
	}
	now := r.s.now()
	expense.ID = r.s.data.expenses.next()
	expense.CreatedAt, expense.UpdatedAt = now, now
	r.s.data.expenses.rows[expense.ID] = *expense
	return nil
}

func (r expenseRepo) GetByID(_ context.Context, id uint) (*models.Expense, error) {
	defer r.s.lock()()
	e, ok := r.s.data.expenses.rows[id]
	if !ok {
		return nil, apperr.NotFound("expense", id)
	}
	return &e, nil
}

func (r expenseRepo) List(_ context.Context, filter repository.ExpenseFilter) ([]models.Expense, error) {
	defer r.s.lock()()
	var out []models.Expense
	for _, e := range r.s.data.expenses.rows {
		if !matchesCanteen(filter.CanteenID, e.CanteenID) {
			continue
		}
		if !filter.From.IsZero() && e.ExpenseDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.ExpenseDate.Before(filter.To) {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b models.Expense) int {
		if c := b.ExpenseDate.Compare(a.ExpenseDate); c != 0 {
			return c
		}
		return int(b.ID) - int(a.ID)
	})
	return out, nil
}

func (r expenseRepo) Update(_ context.Context, expense *models.Expense) error {
	defer r.s.lock()()
	old, ok := r.s.data.expenses.rows[expense.ID]
	if !ok {
		return apperr.NotFound("expense", expense.ID)
	}
	expense.CreatedAt = old.CreatedAt
	expense.UpdatedAt = r.s.now()
	r.s.data.expenses.rows[expense.ID] = *expense
	return nil
}

func (r expenseRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.expenses.rows[id]; !ok {
		return apperr.NotFound("expense", id)
	}
	delete(r.s.data.expenses.rows, id)
	return nil
}

type salesRepo struct{ s *Store }

func (r salesRepo) Upsert(_ context.Context, report *models.SalesReport) error {
	defer r.s.lock()()
	now := r.s.now()
	day := models.Day(report.Date)
	for id, existing := range r.s.data.sales.rows {
		if existing.CanteenID != report.CanteenID || !existing.Date.Equal(day) {
			continue
		}
		existing.TotalOrders = report.TotalOrders
		existing.ItemsSold = report.ItemsSold
		existing.TotalRevenue = report.TotalRevenue
		existing.Notes = report.Notes
		existing.UpdatedAt = now
		r.s.data.sales.rows[id] = existing
		*report = existing
		return nil
	}
	report.Date = day
	report.ID = r.s.data.sales.next()
	report.CreatedAt, report.UpdatedAt = now, now
	r.s.data.sales.rows[report.ID] = *report
	return nil
}

func (r salesRepo) GetByID(_ context.Context, id uint) (*models.SalesReport, error) {
	defer r.s.lock()()
	rep, ok := r.s.data.sales.rows[id]
	if !ok {
		return nil, apperr.NotFound("sales report", id)
	}
	return &rep, nil
}

func (r salesRepo) List(_ context.Context, canteenID *uint) ([]models.SalesReport, error) {
	defer r.s.lock()()
	var out []models.SalesReport
	for _, rep := range r.s.data.sales.rows {
		if matchesCanteen(canteenID, rep.CanteenID) {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b models.SalesReport) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (r salesRepo) Delete(_ context.Context, id uint) error {
	defer r.s.lock()()
	if _, ok := r.s.data.sales.rows[id]; !ok {
		return apperr.NotFound("sales report", id)
	}
	delete(r.s.data.sales.rows, id)
	return nil
}
