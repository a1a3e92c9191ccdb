package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListOrders 获取订单列表，支持按会话、桌台、状态与时间范围过滤
func (h *Handler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		SessionID: strings.TrimSpace(c.Query("session_id")),
		OrderNo:   strings.TrimSpace(c.Query("order_no")),
		Status:    strings.TrimSpace(c.Query("status")),
		WithItems: c.DefaultQuery("with_items", "true") == "true",
	}
	if tableID, err := strconv.ParseUint(c.Query("table_id"), 10, 64); err == nil && tableID > 0 {
		filter.TableID = uint(tableID)
	}
	if from, ok := parseTimeQuery(c.Query("start")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseTimeQuery(c.Query("end")); ok {
		filter.CreatedTo = &to
	}

	orders, total, err := h.OrderService.ListOrders(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, orders, pagination)
}

// parseTimeQuery 解析时间参数，兼容日期与 RFC3339 两种格式
func parseTimeQuery(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
