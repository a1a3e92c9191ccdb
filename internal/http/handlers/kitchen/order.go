package kitchen

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// KitchenOrderView 后厨订单视图，附带等待时长
type KitchenOrderView struct {
	models.Order
	WaitMinutes int `json:"wait_minutes"`
}

// ListOrders 获取后厨订单队列，默认仅含未出餐订单
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		WithItems: true,
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = status
	} else {
		filter.Statuses = service.KitchenActiveStatuses()
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单队列失败", err)
		return
	}

	now := time.Now()
	views := make([]KitchenOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, KitchenOrderView{
			Order:       order,
			WaitMinutes: int(now.Sub(order.CreatedAt).Minutes()),
		})
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, views, pagination)
}

// UpdateOrderStatusRequest 后厨订单状态推进请求
type UpdateOrderStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	ActualTime int    `json:"actual_time"`
	Reason     string `json:"reason"`
}

// UpdateOrderStatus 推进订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("orderId"))
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	order, err := h.OrderService.UpdateOrderStatus(service.UpdateOrderStatusInput{
		OrderID:    orderID,
		Status:     req.Status,
		ActualTime: req.ActualTime,
		Reason:     req.Reason,
	})
	if err != nil {
		respondOrderMutationError(c, err, "更新订单状态失败")
		return
	}
	response.Success(c, order)
}

// UpdateItemStatusRequest 菜品状态变更请求
type UpdateItemStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateItemStatus 变更单个菜品状态并回写订单整体状态
func (h *Handler) UpdateItemStatus(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 64)
	if err != nil || itemID == 0 {
		respondError(c, response.CodeBadRequest, "菜品标识无效", nil)
		return
	}
	var req UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	item, order, err := h.OrderService.UpdateItemStatus(uint(itemID), req.Status)
	if err != nil {
		respondOrderMutationError(c, err, "更新菜品状态失败")
		return
	}
	response.Success(c, gin.H{
		"item":  item,
		"order": order,
	})
}

func respondOrderMutationError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case service.IsInvalidStatusTransition(err):
		respondError(c, response.CodeBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrOrderNotFound):
		respondError(c, response.CodeNotFound, "订单不存在", nil)
	case errors.Is(err, service.ErrOrderItemNotFound):
		respondError(c, response.CodeNotFound, "订单菜品不存在", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
