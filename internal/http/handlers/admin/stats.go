package admin

import (
	"strconv"
	"time"

	"github.com/paobai-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// statsRange 解析统计时间范围，缺省为最近 7 天（含今天）
func statsRange(c *gin.Context) (time.Time, time.Time) {
	now := time.Now()
	end := now
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	if t, ok := parseTimeQuery(c.Query("start")); ok {
		start = t
	}
	if t, ok := parseTimeQuery(c.Query("end")); ok {
		// 纯日期参数按当天结束计算
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			t = t.AddDate(0, 0, 1).Add(-time.Second)
		}
		end = t
	}
	return start, end
}

// GetStatsOverview 获取经营概览
func (h *Handler) GetStatsOverview(c *gin.Context) {
	start, end := statsRange(c)
	overview, err := h.StatsService.GetOverview(start, end)
	if err != nil {
		respondError(c, response.CodeInternal, "获取经营概览失败", err)
		return
	}
	response.Success(c, overview)
}

// GetOrderTrends 获取按日订单趋势
func (h *Handler) GetOrderTrends(c *gin.Context) {
	start, end := statsRange(c)
	trends, err := h.StatsService.GetOrderTrends(start, end)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单趋势失败", err)
		return
	}
	response.Success(c, trends)
}

// GetPopularItems 获取热销菜品排行
func (h *Handler) GetPopularItems(c *gin.Context) {
	start, end := statsRange(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	items, err := h.StatsService.GetPopularItems(start, end, limit)
	if err != nil {
		respondError(c, response.CodeInternal, "获取热销菜品失败", err)
		return
	}
	response.Success(c, items)
}

// GetCategoryStats 获取分类销售统计
func (h *Handler) GetCategoryStats(c *gin.Context) {
	start, end := statsRange(c)
	stats, err := h.StatsService.GetCategoryStats(start, end)
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类统计失败", err)
		return
	}
	response.Success(c, stats)
}
