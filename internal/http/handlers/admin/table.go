package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/repository"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListTables 获取餐桌列表
func (h *Handler) ListTables(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	page, pageSize = normalizePagination(page, pageSize)

	tables, total, err := h.TableService.List(repository.TableListFilter{
		Page:      page,
		PageSize:  pageSize,
		Status:    strings.TrimSpace(c.Query("status")),
		TableType: strings.TrimSpace(c.Query("table_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取餐桌列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, tables, pagination)
}

// CreateTableRequest 创建餐桌请求
type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required"`
	TableName   string `json:"table_name"`
	Capacity    int    `json:"capacity"`
	TableType   string `json:"table_type"`
	Location    string `json:"location"`
}

// CreateTable 创建餐桌
func (h *Handler) CreateTable(c *gin.Context) {
	var req CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	table, err := h.TableService.CreateTable(service.CreateTableInput{
		TableNumber: req.TableNumber,
		TableName:   req.TableName,
		Capacity:    req.Capacity,
		TableType:   req.TableType,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, service.ErrTableNumberExists) {
			respondError(c, response.CodeConflict, "桌号已存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "创建餐桌失败", err)
		return
	}
	response.Success(c, table)
}

// UpdateTableRequest 更新餐桌请求，为空的字段不更新
type UpdateTableRequest struct {
	TableNumber *string `json:"table_number"`
	TableName   *string `json:"table_name"`
	Capacity    *int    `json:"capacity"`
	TableType   *string `json:"table_type"`
	Location    *string `json:"location"`
	Status      *string `json:"status"`
}

// UpdateTable 更新餐桌
func (h *Handler) UpdateTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	updates := map[string]interface{}{}
	if req.TableNumber != nil {
		updates["table_number"] = *req.TableNumber
	}
	if req.TableName != nil {
		updates["table_name"] = strings.TrimSpace(*req.TableName)
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.TableType != nil {
		updates["table_type"] = strings.TrimSpace(*req.TableType)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Status != nil {
		updates["status"] = strings.TrimSpace(*req.Status)
	}
	if len(updates) == 0 {
		respondError(c, response.CodeBadRequest, "没有需要更新的字段", nil)
		return
	}

	table, err := h.TableService.UpdateTable(id, updates)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound):
			respondError(c, response.CodeNotFound, "餐桌不存在", nil)
		case errors.Is(err, service.ErrTableNumberExists):
			respondError(c, response.CodeConflict, "桌号已存在", nil)
		default:
			respondError(c, response.CodeInternal, "更新餐桌失败", err)
		}
		return
	}
	response.Success(c, table)
}

// DeleteTable 删除餐桌
func (h *Handler) DeleteTable(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.TableService.DeleteTable(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTableNotFound):
			respondError(c, response.CodeNotFound, "餐桌不存在", nil)
		case errors.Is(err, service.ErrTableInUse):
			respondError(c, response.CodeConflict, "餐桌正在使用中", nil)
		default:
			respondError(c, response.CodeInternal, "删除餐桌失败", err)
		}
		return
	}
	response.SuccessWithMsg(c, "删除成功", nil)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "标识参数无效", nil)
		return 0, false
	}
	return uint(id), true
}
