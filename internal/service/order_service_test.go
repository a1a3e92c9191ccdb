package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

type orderServiceTestEnv struct {
	db         *gorm.DB
	orderSvc   *OrderService
	sessionSvc *SessionService
	session    *models.DiningSession
	dishA      *models.MenuItem
	dishB      *models.MenuItem
}

// setupOrderServiceTest 准备一个开台会话与两道菜（20 元 + 7.50 元）
func setupOrderServiceTest(t *testing.T, name string) *orderServiceTestEnv {
	t.Helper()
	db := newServiceTestDB(t, name)
	seedServiceRestaurant(t, db)
	table := seedServiceTable(t, db, "B01")
	dishA := seedServiceMenuItem(t, db, 1, "宫保鸡丁", "20.00")
	dishB := seedServiceMenuItem(t, db, 1, "米饭", "7.50")

	sessionRepo := repository.NewSessionRepository(db)
	tableRepo := repository.NewTableRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	menuItemRepo := repository.NewMenuItemRepository(db)

	sessionSvc := NewSessionService(sessionRepo, tableRepo, orderRepo, paymentRepo)
	orderSvc := NewOrderService(orderRepo, sessionRepo, menuItemRepo, paymentRepo, nil, nil)

	session, err := sessionSvc.CreateSession(CreateSessionInput{
		TableID:        table.ID,
		LeaderOpenID:   "openid-leader",
		LeaderNickname: "张三",
	})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	return &orderServiceTestEnv{
		db:         db,
		orderSvc:   orderSvc,
		sessionSvc: sessionSvc,
		session:    session,
		dishA:      dishA,
		dishB:      dishB,
	}
}

func mustMoneyEqual(t *testing.T, got models.Money, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("amount mismatch: got %s, want %s", got.String(), want)
	}
}

func (e *orderServiceTestEnv) createThirtyFiveYuanOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := e.orderSvc.CreateOrder(CreateOrderInput{
		SessionID:   e.session.ID,
		DinerOpenID: "openid-leader",
		Items: []CreateOrderItemInput{
			{MenuItemID: e.dishA.ID, Quantity: 1},
			{MenuItemID: e.dishB.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func (e *orderServiceTestEnv) advanceOrder(t *testing.T, orderID string, statuses ...string) *models.Order {
	t.Helper()
	var updated *models.Order
	var err error
	for _, status := range statuses {
		updated, err = e.orderSvc.UpdateOrderStatus(UpdateOrderStatusInput{OrderID: orderID, Status: status})
		if err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}
	return updated
}

func TestCreateOrderSnapshotsAndSessionTotal(t *testing.T) {
	env := setupOrderServiceTest(t, "order_create")
	order := env.createThirtyFiveYuanOrder(t)

	if order.Status != constants.OrderStatusPending {
		t.Fatalf("new order must be pending, got %s", order.Status)
	}
	mustMoneyEqual(t, order.TotalAmount, "35.00")
	if order.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", order.ItemCount)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.Status != constants.OrderItemStatusPending {
			t.Fatalf("new order item must be pending, got %s", item.Status)
		}
		if item.ItemName == "" {
			t.Fatalf("item name snapshot missing")
		}
	}

	session, err := env.sessionSvc.GetSessionDetail(env.session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	mustMoneyEqual(t, session.TotalAmount, "35.00")
	mustMoneyEqual(t, session.Subtotal, "0.00")

	var dish models.MenuItem
	if err := env.db.First(&dish, env.dishB.ID).Error; err != nil {
		t.Fatalf("load menu item failed: %v", err)
	}
	if dish.SalesCount != 2 {
		t.Fatalf("expected sales count 2, got %d", dish.SalesCount)
	}
}

func TestCreateOrderRejectsUnavailableItem(t *testing.T) {
	env := setupOrderServiceTest(t, "order_unavail")
	if err := env.db.Model(&models.MenuItem{}).Where("id = ?", env.dishA.ID).
		Update("is_available", false).Error; err != nil {
		t.Fatalf("disable menu item failed: %v", err)
	}

	_, err := env.orderSvc.CreateOrder(CreateOrderInput{
		SessionID:   env.session.ID,
		DinerOpenID: "openid-leader",
		Items:       []CreateOrderItemInput{{MenuItemID: env.dishA.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrMenuItemUnavailable) {
		t.Fatalf("expected ErrMenuItemUnavailable, got %v", err)
	}

	var orderCount int64
	if err := env.db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("rejected order must not persist, count=%d", orderCount)
	}
}

func TestCreateOrderRejectsOutsideDiner(t *testing.T) {
	env := setupOrderServiceTest(t, "order_outsider")
	_, err := env.orderSvc.CreateOrder(CreateOrderInput{
		SessionID:   env.session.ID,
		DinerOpenID: "openid-stranger",
		Items:       []CreateOrderItemInput{{MenuItemID: env.dishA.ID, Quantity: 1}},
	})
	if !errors.Is(err, ErrDinerNotInSession) {
		t.Fatalf("expected ErrDinerNotInSession, got %v", err)
	}
}

func TestUpdateOrderStatusInvalidTransitionNoMutation(t *testing.T) {
	env := setupOrderServiceTest(t, "order_bad_transition")
	order := env.createThirtyFiveYuanOrder(t)

	_, err := env.orderSvc.UpdateOrderStatus(UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  constants.OrderStatusServed,
	})
	if !IsInvalidStatusTransition(err) {
		t.Fatalf("expected invalid transition error, got %v", err)
	}

	unchanged, getErr := env.orderSvc.GetOrder(order.ID)
	if getErr != nil {
		t.Fatalf("get order failed: %v", getErr)
	}
	if unchanged.Status != constants.OrderStatusPending {
		t.Fatalf("rejected transition must not mutate order, got %s", unchanged.Status)
	}
	for _, item := range unchanged.Items {
		if item.Status != constants.OrderItemStatusPending {
			t.Fatalf("rejected transition must not mutate items, got %s", item.Status)
		}
	}
}

func TestOrderLifecycleServedRecomputesSubtotal(t *testing.T) {
	env := setupOrderServiceTest(t, "order_lifecycle")
	order := env.createThirtyFiveYuanOrder(t)

	updated := env.advanceOrder(t, order.ID,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusServed,
	)
	if updated.Status != constants.OrderStatusServed {
		t.Fatalf("expected served order, got %s", updated.Status)
	}
	if updated.ConfirmedAt == nil || updated.CompletedAt == nil {
		t.Fatalf("lifecycle timestamps missing: %+v", updated)
	}
	for _, item := range updated.Items {
		if item.Status != constants.OrderItemStatusServed {
			t.Fatalf("items must follow order to served, got %s", item.Status)
		}
	}

	session, err := env.sessionSvc.GetSessionDetail(env.session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	mustMoneyEqual(t, session.TotalAmount, "35.00")
	mustMoneyEqual(t, session.Subtotal, "35.00")

	// 终态不允许再推进
	_, err = env.orderSvc.UpdateOrderStatus(UpdateOrderStatusInput{
		OrderID: order.ID,
		Status:  constants.OrderStatusServed,
	})
	if !IsInvalidStatusTransition(err) {
		t.Fatalf("served order must be terminal, got %v", err)
	}
}

func TestCancelOrderByCustomer(t *testing.T) {
	env := setupOrderServiceTest(t, "order_cancel")
	order := env.createThirtyFiveYuanOrder(t)
	env.advanceOrder(t, order.ID, constants.OrderStatusConfirmed, constants.OrderStatusPreparing)

	cancelled, err := env.orderSvc.CancelOrderByCustomer(order.ID, env.session.ID, "openid-leader", "点错了")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled order, got %s", cancelled.Status)
	}
	if cancelled.CancelReason != "点错了" {
		t.Fatalf("cancel reason missing, got %q", cancelled.CancelReason)
	}
	for _, item := range cancelled.Items {
		if item.Status != constants.OrderItemStatusCancelled {
			t.Fatalf("items must cancel with order, got %s", item.Status)
		}
	}

	session, err := env.sessionSvc.GetSessionDetail(env.session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	mustMoneyEqual(t, session.TotalAmount, "0.00")
}

func TestCancelOrderByCustomerAfterReadyRejected(t *testing.T) {
	env := setupOrderServiceTest(t, "order_cancel_late")
	order := env.createThirtyFiveYuanOrder(t)
	env.advanceOrder(t, order.ID,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
	)

	_, err := env.orderSvc.CancelOrderByCustomer(order.ID, env.session.ID, "openid-leader", "不想要了")
	if !errors.Is(err, ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestUpdateItemStatusRollUp(t *testing.T) {
	env := setupOrderServiceTest(t, "order_item_rollup")
	order := env.createThirtyFiveYuanOrder(t)
	env.advanceOrder(t, order.ID, constants.OrderStatusConfirmed, constants.OrderStatusPreparing)

	current, err := env.orderSvc.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(current.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(current.Items))
	}
	first, second := current.Items[0], current.Items[1]

	// 一道菜就绪不触发汇总
	_, rolled, err := env.orderSvc.UpdateItemStatus(first.ID, constants.OrderItemStatusReady)
	if err != nil {
		t.Fatalf("item transition failed: %v", err)
	}
	if rolled.Status != constants.OrderStatusPreparing {
		t.Fatalf("partial ready must not roll up, got %s", rolled.Status)
	}

	// 全部就绪后订单汇总为 ready
	_, rolled, err = env.orderSvc.UpdateItemStatus(second.ID, constants.OrderItemStatusReady)
	if err != nil {
		t.Fatalf("item transition failed: %v", err)
	}
	if rolled.Status != constants.OrderStatusReady {
		t.Fatalf("all ready must roll order up, got %s", rolled.Status)
	}

	// 逐个上菜，全部上齐后订单完成并重算小计
	if _, _, err := env.orderSvc.UpdateItemStatus(first.ID, constants.OrderItemStatusServed); err != nil {
		t.Fatalf("item transition failed: %v", err)
	}
	_, rolled, err = env.orderSvc.UpdateItemStatus(second.ID, constants.OrderItemStatusServed)
	if err != nil {
		t.Fatalf("item transition failed: %v", err)
	}
	if rolled.Status != constants.OrderStatusServed {
		t.Fatalf("all served must complete order, got %s", rolled.Status)
	}

	session, err := env.sessionSvc.GetSessionDetail(env.session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	mustMoneyEqual(t, session.Subtotal, "35.00")
}

func TestUpdateItemStatusOnPendingOrder(t *testing.T) {
	env := setupOrderServiceTest(t, "order_item_pending")
	order := env.createThirtyFiveYuanOrder(t)
	first, second := order.Items[0], order.Items[1]

	// 后厨可直接对未确认订单的菜品开始备餐
	item, rolled, err := env.orderSvc.UpdateItemStatus(first.ID, constants.OrderItemStatusPreparing)
	if err != nil {
		t.Fatalf("advance pending item failed: %v", err)
	}
	if item.Status != constants.OrderItemStatusPreparing {
		t.Fatalf("expected preparing item, got %s", item.Status)
	}
	if rolled.Status != constants.OrderStatusPending {
		t.Fatalf("order must stay pending until all items progress, got %s", rolled.Status)
	}

	// 就绪菜品仍可退菜
	if _, _, err := env.orderSvc.UpdateItemStatus(second.ID, constants.OrderItemStatusReady); err != nil {
		t.Fatalf("advance item to ready failed: %v", err)
	}
	item, _, err = env.orderSvc.UpdateItemStatus(second.ID, constants.OrderItemStatusCancelled)
	if err != nil {
		t.Fatalf("cancel ready item failed: %v", err)
	}
	if item.Status != constants.OrderItemStatusCancelled {
		t.Fatalf("expected cancelled item, got %s", item.Status)
	}

	// 剩余菜品上齐后订单直接完成
	_, rolled, err = env.orderSvc.UpdateItemStatus(first.ID, constants.OrderItemStatusServed)
	if err != nil {
		t.Fatalf("serve item failed: %v", err)
	}
	if rolled.Status != constants.OrderStatusServed {
		t.Fatalf("expected served order after last active item, got %s", rolled.Status)
	}

	// 回退与终态流转仍被拒绝
	if _, _, err := env.orderSvc.UpdateItemStatus(first.ID, constants.OrderItemStatusReady); !IsInvalidStatusTransition(err) {
		t.Fatalf("served item must be terminal, got %v", err)
	}
	if _, _, err := env.orderSvc.UpdateItemStatus(second.ID, constants.OrderItemStatusPreparing); !IsInvalidStatusTransition(err) {
		t.Fatalf("cancelled item must be terminal, got %v", err)
	}
}
