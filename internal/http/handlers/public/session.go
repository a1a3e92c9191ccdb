package public

import (
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// DinerInfoRequest 会话成员信息
type DinerInfoRequest struct {
	OpenID    string `json:"openid" binding:"required"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// CreateSessionRequest 扫码开台请求
type CreateSessionRequest struct {
	TableID        uint             `json:"table_id" binding:"required"`
	LeaderInfo     DinerInfoRequest `json:"leader_info" binding:"required"`
	TotalCustomers int              `json:"total_customers"`
}

// CreateSession 扫码开台
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	session, err := h.SessionService.CreateSession(service.CreateSessionInput{
		TableID:        req.TableID,
		LeaderOpenID:   req.LeaderInfo.OpenID,
		LeaderNickname: req.LeaderInfo.Nickname,
		TotalCustomers: req.TotalCustomers,
	})
	if err != nil {
		respondWithMappedError(c, err, sessionErrorRules, response.CodeInternal, "开台失败")
		return
	}
	response.Success(c, session)
}

// JoinSessionRequest 加入会话请求
type JoinSessionRequest struct {
	OpenID    string `json:"openid" binding:"required"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// JoinSession 加入会话，同一 openid 重复加入幂等
func (h *Handler) JoinSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	var req JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	diner, err := h.SessionService.JoinSession(service.JoinSessionInput{
		SessionID: sessionID,
		OpenID:    req.OpenID,
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		respondWithMappedError(c, err, sessionErrorRules, response.CodeInternal, "加入会话失败")
		return
	}
	response.Success(c, diner)
}

// GetSession 获取会话详情（成员与当前订单）
func (h *Handler) GetSession(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	session, err := h.SessionService.GetSessionDetail(sessionID)
	if err != nil {
		respondWithMappedError(c, err, sessionErrorRules, response.CodeInternal, "获取会话失败")
		return
	}
	response.Success(c, session)
}
