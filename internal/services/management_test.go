package services

import (
	"testing"
	"time"

	"canteen_manager/internal/apperr"
	"canteen_manager/internal/models"
)

func TestCanteenAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.canteens.CreateCanteen(f.ctx, f.staffA, CanteenInput{Name: "Rooftop"})
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.canteens.CreateCanteen(f.ctx, f.admin, CanteenInput{Name: "  "})
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.canteens.CreateCanteen(f.ctx, f.admin, CanteenInput{Name: "Main Block"})
	wantErr(t, err, apperr.ErrConflict)

	c, err := f.canteens.CreateCanteen(f.ctx, f.admin, CanteenInput{Name: "Rooftop", Location: "Block C", OpeningHours: "8-20"})
	if err != nil {
		t.Fatal(err)
	}
	updated, err := f.canteens.UpdateCanteen(f.ctx, f.admin, c.ID, CanteenInput{Name: "Rooftop Deck", Location: "Block C"})
	if err != nil || updated.Name != "Rooftop Deck" {
		t.Fatalf("update = %+v, %v", updated, err)
	}

	list, err := f.canteens.ListCanteens(f.ctx, f.customer)
	if err != nil || len(list) != 3 {
		t.Fatalf("list = %d, %v", len(list), err)
	}

	wantErr(t, f.canteens.DeleteCanteen(f.ctx, f.admin, f.canteenA.ID), apperr.ErrConflict)
	if err := f.canteens.DeleteCanteen(f.ctx, f.admin, c.ID); err != nil {
		t.Errorf("delete empty canteen: %v", err)
	}
	wantErr(t, f.canteens.DeleteCanteen(f.ctx, f.admin, c.ID), apperr.ErrNotFound)
}

func TestMenuManagement(t *testing.T) {
	f := newFixture(t)

	item, err := f.menu.CreateMenuItem(f.ctx, f.staffA, MenuItemInput{Name: "Idli", Price: dec("25"), Category: "veg"})
	if err != nil {
		t.Fatal(err)
	}
	if item.CanteenID != f.canteenA.ID || !item.IsAvailable {
		t.Errorf("created item = %+v", item)
	}

	_, err = f.menu.CreateMenuItem(f.ctx, f.staffA, MenuItemInput{CanteenID: &f.canteenB.ID, Name: "Idli", Price: dec("25"), Category: "veg"})
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.menu.CreateMenuItem(f.ctx, f.admin, MenuItemInput{Name: "Idli", Price: dec("25"), Category: "veg"})
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.menu.CreateMenuItem(f.ctx, f.admin, MenuItemInput{CanteenID: uintPtr(404), Name: "Idli", Price: dec("25"), Category: "veg"})
	wantErr(t, err, apperr.ErrNotFound)
	_, err = f.menu.CreateMenuItem(f.ctx, f.staffA, MenuItemInput{Name: "Idli", Price: dec("0"), Category: "veg"})
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.menu.CreateMenuItem(f.ctx, f.staffA, MenuItemInput{Name: "Idli", Price: dec("5"), Category: "dessert"})
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.menu.CreateMenuItem(f.ctx, f.customer, MenuItemInput{Name: "Idli", Price: dec("5"), Category: "veg"})
	wantErr(t, err, apperr.ErrForbidden)

	_, err = f.menu.SetAvailability(f.ctx, f.staffB, item.ID, false)
	wantErr(t, err, apperr.ErrForbidden)
	if _, err := f.menu.SetAvailability(f.ctx, f.staffA, item.ID, false); err != nil {
		t.Fatal(err)
	}

	visible, err := f.menu.ListMenu(f.ctx, f.customer, MenuQuery{CanteenID: &f.canteenA.ID})
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range visible {
		if m.ID == item.ID {
			t.Errorf("customer sees unavailable item")
		}
	}
	all, _ := f.menu.ListMenu(f.ctx, f.staffA, MenuQuery{CanteenID: &f.canteenA.ID})
	if len(all) != len(visible)+1 {
		t.Errorf("staff list = %d, customer list = %d", len(all), len(visible))
	}
	_, err = f.menu.GetMenuItem(f.ctx, f.customer, item.ID)
	wantErr(t, err, apperr.ErrNotFound)

	snacks, _ := f.menu.ListMenu(f.ctx, f.customer, MenuQuery{Category: "snacks"})
	if len(snacks) != 1 || snacks[0].ID != f.samosa.ID {
		t.Errorf("snacks = %+v", snacks)
	}

	f.placeOrder(t, 1)
	wantErr(t, f.menu.DeleteMenuItem(f.ctx, f.staffA, f.samosa.ID), apperr.ErrConflict)
	if err := f.menu.DeleteMenuItem(f.ctx, f.staffA, item.ID); err != nil {
		t.Errorf("delete unreferenced item: %v", err)
	}
}

func TestInventory(t *testing.T) {
	f := newFixture(t)

	flour, err := f.inventory.CreateInventoryItem(f.ctx, f.staffA, InventoryInput{Name: "Flour", Unit: "kg", Quantity: 10, ReorderLevel: 5, CostPerUnit: dec("42")})
	if err != nil {
		t.Fatal(err)
	}
	oil, err := f.inventory.CreateInventoryItem(f.ctx, f.staffA, InventoryInput{Name: "Oil", Unit: "l", Quantity: 5, ReorderLevel: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.inventory.CreateInventoryItem(f.ctx, f.staffB, InventoryInput{Name: "Buns", Unit: "pcs", Quantity: 1, ReorderLevel: 10}); err != nil {
		t.Fatal(err)
	}
	_, err = f.inventory.CreateInventoryItem(f.ctx, f.staffA, InventoryInput{Name: "Salt", Quantity: -1})
	wantErr(t, err, apperr.ErrValidation)

	low, err := f.inventory.GetLowStock(f.ctx, f.staffA, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(low) != 1 || low[0].ID != oil.ID {
		t.Fatalf("low stock = %+v, want only oil (quantity == reorder level)", low)
	}

	if _, err := f.inventory.AdjustQuantity(f.ctx, f.staffA, flour.ID, -6); err != nil {
		t.Fatal(err)
	}
	low, _ = f.inventory.GetLowStock(f.ctx, f.staffA, nil)
	if len(low) != 2 {
		t.Errorf("low stock after usage = %d items", len(low))
	}
	_, err = f.inventory.AdjustQuantity(f.ctx, f.staffA, flour.ID, -100)
	wantErr(t, err, apperr.ErrValidation)
	got, _ := f.inventory.GetInventoryItem(f.ctx, f.staffA, flour.ID)
	if got.Quantity != 4 {
		t.Errorf("rejected adjustment changed stock to %g", got.Quantity)
	}

	_, err = f.inventory.GetInventoryItem(f.ctx, f.staffB, flour.ID)
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.inventory.GetLowStock(f.ctx, f.admin, nil)
	wantErr(t, err, apperr.ErrValidation)
	all, err := f.inventory.ListInventory(f.ctx, f.admin, nil)
	if err != nil || len(all) != 3 {
		t.Errorf("admin inventory = %d, %v", len(all), err)
	}
	_, err = f.inventory.ListInventory(f.ctx, f.customer, nil)
	wantErr(t, err, apperr.ErrForbidden)

	if err := f.inventory.DeleteInventoryItem(f.ctx, f.staffA, oil.ID); err != nil {
		t.Fatal(err)
	}
}

func TestExpenses(t *testing.T) {
	f := newFixture(t)

	e, err := f.expenses.CreateExpense(f.ctx, f.staffA, ExpenseInput{Description: "Gas cylinder", Category: "utilities", Amount: dec("1100"), ExpenseDate: "2026-03-02"})
	if err != nil {
		t.Fatal(err)
	}
	if e.CreatedBy != f.staffA.UserID || e.CanteenID != f.canteenA.ID {
		t.Errorf("expense = %+v", e)
	}
	_, err = f.expenses.CreateExpense(f.ctx, f.staffA, ExpenseInput{Description: "Refund", Amount: dec("-5")})
	wantErr(t, err, apperr.ErrValidation)
	_, err = f.expenses.CreateExpense(f.ctx, f.staffA, ExpenseInput{Description: "Bad date", Amount: dec("5"), ExpenseDate: "02/03/2026"})
	wantErr(t, err, apperr.ErrValidation)
	if _, err := f.expenses.CreateExpense(f.ctx, f.staffA, ExpenseInput{Description: "Veg", Amount: dec("300"), ExpenseDate: "2026-03-05"}); err != nil {
		t.Fatal(err)
	}

	march2, err := f.expenses.ListExpenses(f.ctx, f.staffA, ExpenseQuery{From: "2026-03-01", To: "2026-03-02"})
	if err != nil || len(march2) != 1 || march2[0].ID != e.ID {
		t.Fatalf("range list = %+v, %v", march2, err)
	}

	amount := dec("1200")
	updated, err := f.expenses.UpdateExpense(f.ctx, f.staffA, e.ID, ExpenseUpdate{Amount: &amount})
	if err != nil || !updated.Amount.Equal(amount) {
		t.Fatalf("update = %+v, %v", updated, err)
	}
	for _, raw := range []string{"", "  "} {
		_, err = f.expenses.UpdateExpense(f.ctx, f.staffA, e.ID, ExpenseUpdate{ExpenseDate: &raw})
		wantErr(t, err, apperr.ErrValidation)
	}
	kept, err := f.expenses.GetExpense(f.ctx, f.staffA, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got := kept.ExpenseDate.Format(DateLayout); got != "2026-03-02" {
		t.Errorf("expense date = %s after rejected update, want 2026-03-02", got)
	}
	moved := "2026-03-04"
	updated, err = f.expenses.UpdateExpense(f.ctx, f.staffA, e.ID, ExpenseUpdate{ExpenseDate: &moved})
	if err != nil || updated.ExpenseDate.Format(DateLayout) != moved {
		t.Fatalf("date update = %+v, %v", updated, err)
	}
	wantErr(t, f.expenses.DeleteExpense(f.ctx, f.staffB, e.ID), apperr.ErrForbidden)
	if err := f.expenses.DeleteExpense(f.ctx, f.admin, e.ID); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateDailyReport(t *testing.T) {
	f := newFixture(t)

	done := f.orderIn(t, models.OrderCompleted) // 1 samosa, 40
	second, err := f.orders.PlaceOrder(f.ctx, f.customer, PlaceOrderInput{
		Items: []OrderLine{{MenuItemID: f.samosa.ID, Quantity: 2}, {MenuItemID: f.tea.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range []string{"preparing", "ready", "completed"} {
		if _, err := f.orders.UpdateStatus(f.ctx, f.staffA, second.ID, st); err != nil {
			t.Fatal(err)
		}
	}
	f.orderIn(t, models.OrderCancelled)
	f.placeOrder(t, 5) // still received

	today := done.CreatedAt.UTC().Format(DateLayout)
	report, err := f.sales.GenerateDailyReport(f.ctx, f.staffA, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if report.TotalOrders != 2 || report.ItemsSold != 5 || !report.TotalRevenue.Equal(dec("151")) {
		t.Fatalf("report = %+v", report)
	}

	again, err := f.sales.GenerateDailyReport(f.ctx, f.staffA, nil, today)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != report.ID {
		t.Errorf("regenerating created a second report")
	}

	other, err := f.sales.GenerateDailyReport(f.ctx, f.staffB, nil, today)
	if err != nil || other.TotalOrders != 0 {
		t.Errorf("canteen B report = %+v, %v", other, err)
	}

	yesterday := done.CreatedAt.UTC().Add(-24 * time.Hour).Format(DateLayout)
	empty, err := f.sales.GenerateDailyReport(f.ctx, f.admin, &f.canteenA.ID, yesterday)
	if err != nil || empty.TotalOrders != 0 {
		t.Errorf("yesterday report = %+v, %v", empty, err)
	}

	reports, err := f.sales.ListReports(f.ctx, f.staffA, nil)
	if err != nil || len(reports) != 2 {
		t.Errorf("canteen A reports = %d, %v", len(reports), err)
	}
	_, err = f.sales.GetReport(f.ctx, f.staffB, report.ID)
	wantErr(t, err, apperr.ErrForbidden)
	_, err = f.sales.GenerateDailyReport(f.ctx, f.admin, nil, today)
	wantErr(t, err, apperr.ErrValidation)

	manual, err := f.sales.UpsertReport(f.ctx, f.staffA, SalesReportInput{Date: today, TotalOrders: 9, ItemsSold: 9, TotalRevenue: dec("900"), Notes: "corrected"})
	if err != nil || manual.ID != report.ID || manual.TotalOrders != 9 {
		t.Errorf("manual upsert = %+v, %v", manual, err)
	}
	if err := f.sales.DeleteReport(f.ctx, f.staffA, report.ID); err != nil {
		t.Fatal(err)
	}
}
