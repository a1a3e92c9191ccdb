package public

import (
	"strings"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentRequest 发起支付请求
type CreatePaymentRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	DinerOpenID string `json:"diner_openid" binding:"required"`
	Method      string `json:"method" binding:"required"`
	// Amount 为空时默认支付会话剩余应付金额
	Amount        string                `json:"amount"`
	OrderIDs      []string              `json:"order_ids"`
	Remark        string                `json:"remark"`
	AAAssignments []AAAssignmentRequest `json:"aa_assignments"`
}

// CreatePayment 发起支付
func (h *Handler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	var amount *models.Money
	if strings.TrimSpace(req.Amount) != "" {
		parsed, err := models.NewMoneyFromString(req.Amount)
		if err != nil {
			respondError(c, response.CodeBadRequest, "支付金额格式错误", nil)
			return
		}
		amount = &parsed
	}

	result, err := h.PaymentService.CreatePayment(c.Request.Context(), service.CreatePaymentInput{
		SessionID:     req.SessionID,
		DinerOpenID:   req.DinerOpenID,
		Method:        req.Method,
		Amount:        amount,
		OrderIDs:      req.OrderIDs,
		Remark:        req.Remark,
		AAAssignments: toAssignmentInputs(req.AAAssignments),
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "发起支付失败")
		return
	}
	response.Success(c, result)
}

// ListSessionPayments 获取会话支付记录
func (h *Handler) ListSessionPayments(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Param("sessionId"))
	payments, err := h.PaymentService.ListSessionPayments(sessionID)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "获取支付记录失败")
		return
	}
	response.Success(c, payments)
}
