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

// ListSessions 获取就餐会话列表
func (h *Handler) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.SessionListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
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

	sessions, total, err := h.SessionService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取会话列表失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, sessions, pagination)
}

// GetSession 获取会话详情（含成员与餐桌）
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	session, err := h.SessionService.GetSessionDetail(sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			respondError(c, response.CodeNotFound, "就餐会话不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取会话详情失败", err)
		return
	}
	response.Success(c, session)
}

// CloseSession 结束会话并释放餐桌
func (h *Handler) CloseSession(c *gin.Context) {
	sessionID := c.Param("sessionId")
	session, err := h.SessionService.CloseSession(sessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			respondError(c, response.CodeNotFound, "就餐会话不存在", nil)
		case errors.Is(err, service.ErrSessionClosed):
			respondError(c, response.CodeBadRequest, "会话已结束", nil)
		default:
			respondError(c, response.CodeInternal, "结束会话失败", err)
		}
		return
	}
	response.SuccessWithMsg(c, "会话已结束", session)
}
