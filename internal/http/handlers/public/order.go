package public

import (
	"strings"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemRequest 点单菜品
type OrderItemRequest struct {
	MenuItemID          uint   `json:"menu_item_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	SpecialInstructions string `json:"special_instructions"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	SessionID       string             `json:"session_id" binding:"required"`
	DinerOpenID     string             `json:"diner_openid" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required"`
	SpecialRequests string             `json:"special_requests"`
	Priority        int                `json:"priority"`
}

// CreateOrder 会话成员下单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	items := make([]service.CreateOrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItemInput{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
	}

	order, err := h.OrderService.CreateOrder(service.CreateOrderInput{
		SessionID:       req.SessionID,
		DinerOpenID:     req.DinerOpenID,
		Items:           items,
		SpecialRequests: req.SpecialRequests,
		Priority:        req.Priority,
	})
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "下单失败")
		return
	}
	response.Success(c, order)
}

// ListSessionOrders 获取会话订单列表
func (h *Handler) ListSessionOrders(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	status := strings.TrimSpace(c.Query("status"))

	orders, err := h.OrderService.ListSessionOrders(sessionID, status)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "获取订单失败")
		return
	}
	response.Success(c, orders)
}

// UpdateOrderStatusRequest 顾客侧订单状态变更请求，仅支持取消
type UpdateOrderStatusRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	DinerOpenID string `json:"diner_openid" binding:"required"`
	Status      string `json:"status" binding:"required"`
	Reason      string `json:"reason"`
}

// UpdateOrderStatus 顾客取消订单
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("orderId"))
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if strings.TrimSpace(req.Status) != constants.OrderStatusCancelled {
		respondError(c, response.CodeBadRequest, "顾客侧仅支持取消订单", nil)
		return
	}

	order, err := h.OrderService.CancelOrderByCustomer(orderID, req.SessionID, req.DinerOpenID, req.Reason)
	if err != nil {
		respondWithMappedError(c, err, orderErrorRules, response.CodeInternal, "取消订单失败")
		return
	}
	response.Success(c, order)
}
