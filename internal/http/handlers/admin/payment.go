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

// ListPayments 获取支付记录列表
func (h *Handler) ListPayments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.PaymentListFilter{
		Page:      page,
		PageSize:  pageSize,
		SessionID: strings.TrimSpace(c.Query("session_id")),
		Method:    strings.TrimSpace(c.Query("method")),
		Status:    strings.TrimSpace(c.Query("status")),
	}
	if from, ok := parseTimeQuery(c.Query("start")); ok {
		filter.CreatedFrom = &from
	}
	if to, ok := parseTimeQuery(c.Query("end")); ok {
		filter.CreatedTo = &to
	}

	payments, total, err := h.PaymentService.ListPayments(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取支付记录失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, payments, pagination)
}

// GetPayment 获取支付详情，AA 支付附带分账明细
func (h *Handler) GetPayment(c *gin.Context) {
	paymentID := c.Param("paymentId")
	payment, err := h.PaymentService.GetPayment(paymentID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			respondError(c, response.CodeNotFound, "支付记录不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "获取支付详情失败", err)
		return
	}
	splits, err := h.PaymentService.ListSplitDetails(paymentID)
	if err != nil {
		respondError(c, response.CodeInternal, "获取分账明细失败", err)
		return
	}
	response.Success(c, gin.H{"payment": payment, "splits": splits})
}

// UpdatePaymentStatusRequest 人工调整支付状态请求
type UpdatePaymentStatusRequest struct {
	Status        string `json:"status" binding:"required"`
	TransactionID string `json:"transaction_id"`
	FailReason    string `json:"fail_reason"`
}

// UpdatePaymentStatus 人工确认或驳回支付（如现金收款）
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	paymentID := c.Param("paymentId")
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	payment, err := h.PaymentService.UpdatePaymentStatus(service.UpdatePaymentStatusInput{
		PaymentID:     paymentID,
		Status:        req.Status,
		TransactionID: req.TransactionID,
		FailReason:    req.FailReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			respondError(c, response.CodeNotFound, "支付记录不存在", nil)
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			respondError(c, response.CodeBadRequest, "不支持的支付状态", nil)
		default:
			respondError(c, response.CodeInternal, "更新支付状态失败", err)
		}
		return
	}
	response.Success(c, payment)
}
