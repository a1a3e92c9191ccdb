package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderRepositoryTest(t *testing.T) (*GormOrderRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.DiningSession{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewOrderRepository(db), db
}

func newTestOrder(sessionID, status string, amount string) (models.Order, []models.OrderItem) {
	total, _ := models.NewMoneyFromString(amount)
	order := models.Order{
		ID:           models.NewPrefixedID("O"),
		OrderNo:      "PO" + time.Now().Format("20060102150405") + models.NewPrefixedID("")[:6],
		RestaurantID: constants.DefaultRestaurantID,
		SessionID:    sessionID,
		TableID:      1,
		DinerOpenID:  "openid_test",
		Status:       status,
		TotalAmount:  total,
		ItemCount:    1,
	}
	items := []models.OrderItem{
		{
			MenuItemID: 1,
			ItemName:   "宫保鸡丁",
			ItemPrice:  total,
			Quantity:   1,
			Subtotal:   total,
			Status:     status,
		},
	}
	return order, items
}

func TestOrderRepositoryCreateLinksItems(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	sessionID := models.NewPrefixedID("SS")

	order, items := newTestOrder(sessionID, constants.OrderStatusPending, "35.00")
	if err := repo.Create(&order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected order, got nil")
	}
	if len(got.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got.Items))
	}
	if got.Items[0].OrderID != order.ID {
		t.Fatalf("expected item linked to order %s, got %s", order.ID, got.Items[0].OrderID)
	}
	if got.Items[0].SessionID != sessionID {
		t.Fatalf("expected item session %s, got %s", sessionID, got.Items[0].SessionID)
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("expected total 35.00, got %s", got.TotalAmount)
	}
}

func TestOrderRepositorySumSessionAmount(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	sessionID := models.NewPrefixedID("SS")

	served1, items1 := newTestOrder(sessionID, constants.OrderStatusServed, "20.00")
	served2, items2 := newTestOrder(sessionID, constants.OrderStatusServed, "15.00")
	cancelled, items3 := newTestOrder(sessionID, constants.OrderStatusCancelled, "99.00")
	for _, pair := range []struct {
		order *models.Order
		items []models.OrderItem
	}{
		{&served1, items1},
		{&served2, items2},
		{&cancelled, items3},
	} {
		if err := repo.Create(pair.order, pair.items); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	sum, err := repo.SumSessionAmount(sessionID, []string{constants.OrderStatusServed})
	if err != nil {
		t.Fatalf("sum session amount failed: %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("expected served sum 35.00, got %s", sum)
	}

	all, err := repo.SumSessionAmount(sessionID, nil)
	if err != nil {
		t.Fatalf("sum all failed: %v", err)
	}
	if !all.Equal(decimal.RequireFromString("134.00")) {
		t.Fatalf("expected total sum 134.00, got %s", all)
	}
}

func TestOrderRepositoryListFiltersByDinerOpenID(t *testing.T) {
	repo, _ := setupOrderRepositoryTest(t)
	sessionID := models.NewPrefixedID("SS")

	mine, items1 := newTestOrder(sessionID, constants.OrderStatusPending, "20.00")
	other, items2 := newTestOrder(sessionID, constants.OrderStatusPending, "15.00")
	other.DinerOpenID = "openid_other"
	if err := repo.Create(&mine, items1); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if err := repo.Create(&other, items2); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	orders, total, err := repo.List(OrderListFilter{
		SessionID:   sessionID,
		DinerOpenID: "openid_test",
		Page:        1,
		PageSize:    10,
	})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 {
		t.Fatalf("expected 1 order for diner, got total=%d len=%d", total, len(orders))
	}
	if orders[0].ID != mine.ID {
		t.Fatalf("expected order %s, got %s", mine.ID, orders[0].ID)
	}
}
