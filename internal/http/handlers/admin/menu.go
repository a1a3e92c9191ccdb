package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCategories 获取菜单分类，管理端包含停用分类
func (h *Handler) ListCategories(c *gin.Context) {
	onlyActive := c.Query("only_active") == "true"
	categories, err := h.MenuService.ListCategories(onlyActive)
	if err != nil {
		respondError(c, response.CodeInternal, "获取分类列表失败", err)
		return
	}
	response.Success(c, categories)
}

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
}

// CreateCategory 创建菜单分类
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	category, err := h.MenuService.CreateCategory(service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "创建分类失败", err)
		return
	}
	response.Success(c, category)
}

// UpdateCategoryRequest 更新分类请求，为空的字段不更新
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateCategory 更新菜单分类
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有需要更新的字段", nil)
		return
	}

	category, err := h.MenuService.UpdateCategory(id, updates)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "分类不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "更新分类失败", err)
		return
	}
	response.Success(c, category)
}

// ListMenuItems 获取菜品列表
func (h *Handler) ListMenuItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.MenuItemListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       strings.TrimSpace(c.Query("search")),
		WithCategory: true,
	}
	if categoryID, err := strconv.ParseUint(c.Query("category_id"), 10, 64); err == nil && categoryID > 0 {
		filter.CategoryID = uint(categoryID)
	}
	if c.Query("only_available") == "true" {
		filter.OnlyAvailable = true
	}

	items, total, err := h.MenuService.ListItems(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取菜品列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, items, pagination)
}

// CreateMenuItemRequest 创建菜品请求，金额使用字符串避免浮点误差
type CreateMenuItemRequest struct {
	CategoryID      uint     `json:"category_id" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	Description     string   `json:"description"`
	Price           string   `json:"price" binding:"required"`
	OriginalPrice   string   `json:"original_price"`
	ImageURL        string   `json:"image_url"`
	Tags            []string `json:"tags"`
	IsAvailable     *bool    `json:"is_available"`
	IsRecommended   bool     `json:"is_recommended"`
	SortOrder       int      `json:"sort_order"`
	PreparationTime int      `json:"preparation_time"`
}

// CreateMenuItem 创建菜品
func (h *Handler) CreateMenuItem(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	price, err := models.NewMoneyFromString(req.Price)
	if err != nil {
		respondError(c, response.CodeBadRequest, "价格格式错误", nil)
		return
	}
	originalPrice := price
	if req.OriginalPrice != "" {
		originalPrice, err = models.NewMoneyFromString(req.OriginalPrice)
		if err != nil {
			respondError(c, response.CodeBadRequest, "原价格式错误", nil)
			return
		}
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item, err := h.MenuService.CreateItem(service.CreateMenuItemInput{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		Price:           price,
		OriginalPrice:   originalPrice,
		ImageURL:        req.ImageURL,
		Tags:            req.Tags,
		IsAvailable:     available,
		IsRecommended:   req.IsRecommended,
		SortOrder:       req.SortOrder,
		PreparationTime: req.PreparationTime,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, response.CodeNotFound, "分类不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "创建菜品失败", err)
		return
	}
	response.Success(c, item)
}

// UpdateMenuItemRequest 更新菜品请求，为空的字段不更新
type UpdateMenuItemRequest struct {
	CategoryID      *uint    `json:"category_id"`
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	Price           *string  `json:"price"`
	OriginalPrice   *string  `json:"original_price"`
	ImageURL        *string  `json:"image_url"`
	Tags            []string `json:"tags"`
	IsAvailable     *bool    `json:"is_available"`
	IsRecommended   *bool    `json:"is_recommended"`
	SortOrder       *int     `json:"sort_order"`
	PreparationTime *int     `json:"preparation_time"`
}

// UpdateMenuItem 更新菜品
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	updates := map[string]interface{}{}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		price, err := models.NewMoneyFromString(*req.Price)
		if err != nil {
			respondError(c, response.CodeBadRequest, "价格格式错误", nil)
			return
		}
		updates["price"] = price
	}
	if req.OriginalPrice != nil {
		originalPrice, err := models.NewMoneyFromString(*req.OriginalPrice)
		if err != nil {
			respondError(c, response.CodeBadRequest, "原价格式错误", nil)
			return
		}
		updates["original_price"] = originalPrice
	}
	if req.Tags != nil {
		updates["tags"] = models.StringArray(req.Tags)
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}
	if req.IsRecommended != nil {
		updates["is_recommended"] = *req.IsRecommended
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.PreparationTime != nil {
		updates["preparation_time"] = *req.PreparationTime
	}
	if req.ImageURL != nil {
		updates["image_url"] = strings.TrimSpace(*req.ImageURL)
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有需要更新的字段", nil)
		return
	}

	item, err := h.MenuService.UpdateItem(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			respondError(c, response.CodeNotFound, "菜品不存在", nil)
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, response.CodeNotFound, "分类不存在", nil)
		default:
			respondError(c, response.CodeInternal, "更新菜品失败", err)
		}
		return
	}
	response.Success(c, item)
}

// SetMenuItemAvailableRequest 上下架请求
type SetMenuItemAvailableRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// SetMenuItemAvailable 上下架菜品
func (h *Handler) SetMenuItemAvailable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetMenuItemAvailableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.MenuService.SetItemAvailable(id, *req.IsAvailable); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			respondError(c, response.CodeNotFound, "菜品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "更新菜品状态失败", err)
		return
	}
	response.SuccessWithMsg(c, "更新成功", nil)
}

// DeleteMenuItem 删除菜品
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.MenuService.DeleteItem(id); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			respondError(c, response.CodeNotFound, "菜品不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "删除菜品失败", err)
		return
	}
	response.SuccessWithMsg(c, "删除成功", nil)
}
