package public

import (
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// AAAssignmentRequest 单个成员认领的菜品
type AAAssignmentRequest struct {
	DinerOpenID string `json:"diner_openid" binding:"required"`
	ItemIDs     []uint `json:"item_ids" binding:"required"`
}

// CalculateAARequest AA 分账试算请求
type CalculateAARequest struct {
	Assignments []AAAssignmentRequest `json:"assignments" binding:"required"`
}

// CalculateAA AA 分账试算，不产生任何支付记录
func (h *Handler) CalculateAA(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	var req CalculateAARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	result, err := h.SettlementService.CalculateAASplit(sessionID, toAssignmentInputs(req.Assignments))
	if err != nil {
		respondWithMappedError(c, err, settlementErrorRules, response.CodeInternal, "分账计算失败")
		return
	}
	response.Success(c, result)
}

func toAssignmentInputs(assignments []AAAssignmentRequest) []service.AAAssignmentInput {
	inputs := make([]service.AAAssignmentInput, 0, len(assignments))
	for _, assignment := range assignments {
		inputs = append(inputs, service.AAAssignmentInput{
			DinerOpenID: assignment.DinerOpenID,
			ItemIDs:     assignment.ItemIDs,
		})
	}
	return inputs
}
