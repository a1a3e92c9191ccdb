package public

import (
	"net/http"

	handlershared "github.com/paobai-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

// WechatPayCallback 微信支付异步通知
//
// 应答格式遵循微信支付 APIv3：成功返回 200 + SUCCESS，失败返回 5xx 触发微信重试
func (h *Handler) WechatPayCallback(c *gin.Context) {
	payment, err := h.PaymentService.HandleWechatWebhook(c.Request.Context(), c.Request)
	if err != nil {
		handlershared.RequestLog(c).Errorw("wechat_callback_failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return
	}
	handlershared.RequestLog(c).Infow("wechat_callback_handled",
		"payment_id", payment.ID,
		"status", payment.Status,
	)
	c.JSON(http.StatusOK, gin.H{"code": "SUCCESS", "message": "成功"})
}
