package admin

import (
	"errors"
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetRestaurant 获取餐厅信息
func (h *Handler) GetRestaurant(c *gin.Context) {
	restaurant, err := h.RestaurantService.GetInfo()
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			respondError(c, response.CodeNotFound, "餐厅不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取餐厅信息失败", err)
		return
	}
	response.Success(c, restaurant)
}

// UpdateRestaurantRequest 更新餐厅信息请求，为空的字段不更新
type UpdateRestaurantRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	LogoURL      *string `json:"logo_url"`
	BusinessHour *string `json:"business_hour"`
	Status       *string `json:"status"`
}

// UpdateRestaurant 更新餐厅信息
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Address != nil {
		updates["address"] = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.LogoURL != nil {
		updates["logo_url"] = strings.TrimSpace(*req.LogoURL)
	}
	if req.BusinessHour != nil {
		updates["business_hour"] = strings.TrimSpace(*req.BusinessHour)
	}
	if req.Status != nil {
		updates["status"] = strings.TrimSpace(*req.Status)
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有需要更新的字段", nil)
		return
	}

	restaurant, err := h.RestaurantService.UpdateInfo(updates)
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			respondError(c, response.CodeNotFound, "餐厅不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "更新餐厅信息失败", err)
		return
	}
	response.Success(c, restaurant)
}
