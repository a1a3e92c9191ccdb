package public

import (
	"net/http"

	handlershared "github.com/paobai-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// AlipayCallback 支付宝异步通知
//
// 应答格式遵循支付宝规范：纯文本 success 停止重试，其余应答触发重试
func (h *Handler) AlipayCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		handlershared.RequestLog(c).Warnw("alipay_callback_parse_failed", "error", err)
		c.String(http.StatusBadRequest, "fail")
		return
	}

	payment, err := h.PaymentService.HandleAlipayCallback(c.Request.PostForm)
	if err != nil {
		handlershared.RequestLog(c).Errorw("alipay_callback_failed", "error", err)
		c.String(http.StatusOK, "fail")
		return
	}
	handlershared.RequestLog(c).Infow("alipay_callback_handled",
		"payment_id", payment.ID,
		"status", payment.Status,
	)
	c.String(http.StatusOK, "success")
}
