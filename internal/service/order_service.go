package service

import (
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/realtime"
	"github.com/paobai-next/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	orderRepo    repository.OrderRepository
	sessionRepo  repository.SessionRepository
	menuItemRepo repository.MenuItemRepository
	paymentRepo  repository.PaymentRepository
	hub          *realtime.Hub
	printService *PrintService
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, sessionRepo repository.SessionRepository, menuItemRepo repository.MenuItemRepository, paymentRepo repository.PaymentRepository, hub *realtime.Hub, printService *PrintService) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		sessionRepo:  sessionRepo,
		menuItemRepo: menuItemRepo,
		paymentRepo:  paymentRepo,
		hub:          hub,
		printService: printService,
	}
}

// CreateOrderItemInput 下单菜品输入
type CreateOrderItemInput struct {
	MenuItemID          uint
	Quantity            int
	SpecialInstructions string
}

// CreateOrderInput 下单输入
type CreateOrderInput struct {
	SessionID       string
	DinerOpenID     string
	Items           []CreateOrderItemInput
	SpecialRequests string
	Priority        int
}

// CreateOrder 创建订单：校验会话成员与菜品，快照名称单价，订单与订单项同事务落库
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrderItems
	}

	session, err := s.sessionRepo.GetByID(input.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != constants.SessionStatusActive {
		return nil, ErrSessionClosed
	}
	diner, err := s.sessionRepo.GetDiner(session.ID, input.DinerOpenID)
	if err != nil {
		return nil, err
	}
	if diner == nil {
		return nil, ErrDinerNotInSession
	}

	ids := make([]uint, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		ids = append(ids, item.MenuItemID)
	}
	menuItems, err := s.menuItemRepo.GetAvailableByIDs(session.RestaurantID, ids)
	if err != nil {
		return nil, err
	}
	menuByID := make(map[uint]models.MenuItem, len(menuItems))
	for _, item := range menuItems {
		menuByID[item.ID] = item
	}

	now := time.Now()
	order := models.Order{
		ID:              models.NewPrefixedID("O"),
		OrderNo:         GenerateOrderNo(now),
		RestaurantID:    session.RestaurantID,
		SessionID:       session.ID,
		TableID:         session.TableID,
		DinerOpenID:     diner.OpenID,
		DinerNickname:   diner.Nickname,
		Status:          constants.OrderStatusPending,
		Priority:        input.Priority,
		SpecialRequests: input.SpecialRequests,
	}
	items := make([]models.OrderItem, 0, len(input.Items))
	total := models.ZeroMoney()
	itemCount := 0
	for _, line := range input.Items {
		menuItem, ok := menuByID[line.MenuItemID]
		if !ok {
			return nil, ErrMenuItemUnavailable
		}
		subtotal := menuItem.Price.MulQuantity(line.Quantity)
		items = append(items, models.OrderItem{
			MenuItemID:          menuItem.ID,
			ItemName:            menuItem.Name,
			ItemPrice:           menuItem.Price,
			Quantity:            line.Quantity,
			Subtotal:            subtotal,
			SpecialInstructions: line.SpecialInstructions,
			Status:              constants.OrderItemStatusPending,
			DinerOpenID:         diner.OpenID,
		})
		total = total.AddMoney(subtotal)
		itemCount += line.Quantity
	}
	order.TotalAmount = total
	order.ItemCount = itemCount

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		menuItemRepo := s.menuItemRepo.WithTx(tx)
		if err := orderRepo.Create(&order, items); err != nil {
			return err
		}
		for _, line := range input.Items {
			if err := menuItemRepo.IncrSalesCount(line.MenuItemID, line.Quantity); err != nil {
				return err
			}
		}
		return recomputeSessionAmounts(tx, s.orderRepo, s.paymentRepo, session.ID, now)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}

	s.publishOrderEvent(constants.EventNewOrder, created, map[string]interface{}{
		"order_no":   created.OrderNo,
		"table_id":   created.TableID,
		"item_count": created.ItemCount,
		"total":      created.TotalAmount,
		"diner":      created.DinerNickname,
	})
	if s.printService != nil {
		if err := s.printService.EnqueueOrderReceipt(created); err != nil {
			logger.Warnw("print_receipt_enqueue_failed", "order_id", created.ID, "error", err)
		}
	}
	return created, nil
}

// UpdateOrderStatusInput 订单状态更新输入
type UpdateOrderStatusInput struct {
	OrderID    string
	Status     string
	ActualTime int
	Reason     string
}

// UpdateOrderStatus 后厨推进订单状态。非法流转返回错误且不产生任何变更。
func (s *OrderService) UpdateOrderStatus(input UpdateOrderStatusInput) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	target := normalizeStatus(input.Status)
	if !canTransition(order.Status, target) {
		return nil, NewErrInvalidStatusTransition(order.Status, target)
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.applyOrderTransition(tx, order, target, now, input.ActualTime, input.Reason)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}

	eventType := constants.EventOrderStatusUpdate
	extra := map[string]interface{}{"order_no": updated.OrderNo}
	if target == constants.OrderStatusCancelled {
		eventType = constants.EventOrderCancelled
		extra["reason"] = input.Reason
	}
	s.publishOrderEvent(eventType, updated, extra)
	return updated, nil
}

// applyOrderTransition 事务内执行状态流转及其联动更新
func (s *OrderService) applyOrderTransition(tx *gorm.DB, order *models.Order, target string, now time.Time, actualTime int, reason string) error {
	orderRepo := s.orderRepo.WithTx(tx)

	updates := map[string]interface{}{
		"status":     target,
		"updated_at": now,
	}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusReady, constants.OrderStatusServed:
		updates["completed_at"] = now
		if actualTime > 0 {
			updates["actual_time"] = actualTime
		}
	case constants.OrderStatusCancelled:
		if reason != "" {
			updates["cancel_reason"] = reason
		}
	}
	if err := orderRepo.UpdateFields(order.ID, updates); err != nil {
		return err
	}

	// 订单状态下沉到订单项；已取消与已上齐的菜品保持不变
	itemFrom := []string{
		constants.OrderItemStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderItemStatusPreparing,
		constants.OrderItemStatusReady,
	}
	if err := orderRepo.UpdateItemsStatusByOrder(order.ID, itemFrom, target); err != nil {
		return err
	}

	// 上菜与取消都会影响会话金额，按来源重算
	if target == constants.OrderStatusServed || target == constants.OrderStatusCancelled {
		return recomputeSessionAmounts(tx, s.orderRepo, s.paymentRepo, order.SessionID, now)
	}
	return nil
}

// CancelOrderByCustomer 顾客撤单：仅限出餐完成前，订单与菜品一并取消
func (s *OrderService) CancelOrderByCustomer(orderID, sessionID, openid, reason string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.SessionID != sessionID {
		return nil, ErrOrderNotFound
	}
	diner, err := s.sessionRepo.GetDiner(sessionID, openid)
	if err != nil {
		return nil, err
	}
	if diner == nil {
		return nil, ErrDinerNotInSession
	}
	if !canTransition(order.Status, constants.OrderStatusCancelled) {
		return nil, ErrOrderNotCancellable
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		return s.applyOrderTransition(tx, order, constants.OrderStatusCancelled, now, 0, reason)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, err
	}
	s.publishOrderEvent(constants.EventOrderCancelled, updated, map[string]interface{}{
		"order_no": updated.OrderNo,
		"reason":   reason,
	})
	return updated, nil
}

// UpdateItemStatus 单品状态推进，并按菜品完成度汇总订单状态
func (s *OrderService) UpdateItemStatus(itemID uint, status string) (*models.OrderItem, *models.Order, error) {
	item, err := s.orderRepo.GetItemByID(itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, ErrOrderItemNotFound
	}
	order, err := s.orderRepo.GetByID(item.OrderID)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		return nil, nil, ErrOrderNotFound
	}

	target := normalizeStatus(status)
	if !canItemTransition(item.Status, target) {
		return nil, nil, NewErrInvalidStatusTransition(item.Status, target)
	}

	now := time.Now()
	var rolledUp string
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdateItemFields(item.ID, map[string]interface{}{
			"status":     target,
			"updated_at": now,
		}); err != nil {
			return err
		}

		items, err := orderRepo.ListItems(order.ID)
		if err != nil {
			return err
		}
		rolledUp = calcOrderStatusFromItems(items, order.Status)
		if rolledUp == "" {
			return nil
		}
		return s.applyOrderTransition(tx, order, rolledUp, now, 0, "")
	})
	if err != nil {
		return nil, nil, err
	}

	updatedItem, err := s.orderRepo.GetItemByID(item.ID)
	if err != nil {
		return nil, nil, err
	}
	updatedOrder, err := s.orderRepo.GetByID(order.ID)
	if err != nil {
		return nil, nil, err
	}

	s.publishOrderEvent(constants.EventItemStatusUpdate, updatedOrder, map[string]interface{}{
		"item_id":     updatedItem.ID,
		"item_name":   updatedItem.ItemName,
		"item_status": updatedItem.Status,
	})
	if rolledUp != "" {
		s.publishOrderEvent(constants.EventOrderStatusUpdate, updatedOrder, map[string]interface{}{
			"order_no":  updatedOrder.OrderNo,
			"rolled_up": true,
		})
	}
	return updatedItem, updatedOrder, nil
}

// GetOrder 获取订单详情
func (s *OrderService) GetOrder(orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListSessionOrders 查询会话内订单
func (s *OrderService) ListSessionOrders(sessionID, status string) ([]models.Order, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.orderRepo.ListBySession(sessionID, normalizeStatus(status))
}

// ListOrders 查询订单列表
func (s *OrderService) ListOrders(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// KitchenActiveStatuses 后厨默认关注的订单状态
func KitchenActiveStatuses() []string {
	return []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
	}
}

// publishOrderEvent 提交后向相关频道广播订单事件（尽力而为，不影响主流程）
func (s *OrderService) publishOrderEvent(eventType string, order *models.Order, extra map[string]interface{}) {
	if s.hub == nil || order == nil {
		return
	}
	data := map[string]interface{}{
		"order_id":   order.ID,
		"session_id": order.SessionID,
		"status":     order.Status,
	}
	for k, v := range extra {
		data[k] = v
	}
	s.hub.Publish([]string{
		realtime.SessionChannel(order.SessionID),
		realtime.RestaurantChannel(order.RestaurantID),
		constants.ChannelKitchen,
		constants.ChannelAdmin,
	}, realtime.NewEvent(eventType, data))
}
