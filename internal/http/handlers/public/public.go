package public

import (
	"strconv"
	"strings"
	"time"

	"github.com/paobai-next/internal/cache"
	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	restaurantInfoCacheKey = "public:restaurant_info"
	restaurantInfoCacheTTL = 60 * time.Second
)

var serviceStartedAt = time.Now()

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"success":   true,
		"message":   "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(serviceStartedAt).Round(time.Second).String(),
	})
}

// GetRestaurantInfo 获取餐厅信息
func (h *Handler) GetRestaurantInfo(c *gin.Context) {
	var cached models.Restaurant
	if hit, err := cache.GetJSON(c.Request.Context(), restaurantInfoCacheKey, &cached); err == nil && hit {
		response.Success(c, cached)
		return
	}

	restaurant, err := h.RestaurantService.GetInfo()
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, msg: "餐厅不存在"},
		}, response.CodeInternal, "获取餐厅信息失败")
		return
	}

	_ = cache.SetJSON(c.Request.Context(), restaurantInfoCacheKey, restaurant, restaurantInfoCacheTTL)
	response.Success(c, restaurant)
}

// GetMenuCategories 获取启用中的菜单分类
func (h *Handler) GetMenuCategories(c *gin.Context) {
	categories, err := h.MenuService.ListCategories(true)
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类失败", err)
		return
	}
	response.Success(c, categories)
}

// GetMenuItems 获取菜品列表
func (h *Handler) GetMenuItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	onlyAvailable := c.DefaultQuery("only_available", "true") != "false"

	items, total, err := h.MenuService.ListItems(repository.MenuItemListFilter{
		Page:          page,
		PageSize:      pageSize,
		CategoryID:    uint(categoryID),
		Search:        strings.TrimSpace(c.Query("search")),
		OnlyAvailable: onlyAvailable,
		WithCategory:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取菜品失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, items, pagination)
}

// GetMenuItem 获取菜品详情
func (h *Handler) GetMenuItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "菜品标识无效", nil)
		return
	}

	item, err := h.MenuService.GetItem(uint(id))
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrMenuItemNotFound, code: response.CodeNotFound, msg: "菜品不存在"},
		}, response.CodeInternal, "获取菜品失败")
		return
	}
	response.Success(c, item)
}

// GetTableByQRCode 扫码获取餐桌信息
func (h *Handler) GetTableByQRCode(c *gin.Context) {
	qrCode := strings.TrimSpace(c.Param("qr_code"))
	if qrCode == "" {
		respondError(c, response.CodeBadRequest, "二维码标识不能为空", nil)
		return
	}

	table, err := h.TableService.GetByQRCode(qrCode)
	if err != nil {
		respondWithMappedError(c, err, []mappedHandlerError{
			{target: service.ErrTableNotFound, code: response.CodeNotFound, msg: "餐桌不存在"},
		}, response.CodeInternal, "获取餐桌失败")
		return
	}
	response.Success(c, table)
}
