package kitchen

import (
	"time"

	"github.com/paobai-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetTodayStats 获取当日出餐统计
func (h *Handler) GetTodayStats(c *gin.Context) {
	stats, err := h.StatsService.GetKitchenToday(time.Now())
	if err != nil {
		respondError(c, response.CodeInternal, "获取当日统计失败", err)
		return
	}
	response.Success(c, stats)
}

// GetRealtimeDashboard 获取实时看板快照
func (h *Handler) GetRealtimeDashboard(c *gin.Context) {
	snapshot, err := h.StatsService.GetRealtimeSnapshot()
	if err != nil {
		respondError(c, response.CodeInternal, "获取实时看板失败", err)
		return
	}
	response.Success(c, snapshot)
}
