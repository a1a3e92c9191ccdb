package public

import (
	"errors"

	"github.com/paobai-next/internal/http/response"
	"github.com/paobai-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	if service.IsInvalidStatusTransition(err) {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var sessionErrorRules = []mappedHandlerError{
	{target: service.ErrTableNotFound, code: response.CodeNotFound, msg: "餐桌不存在"},
	{target: service.ErrTableOccupied, code: response.CodeConflict, msg: "餐桌已被占用，请换一桌或加入当前会话"},
	{target: service.ErrSessionNotFound, code: response.CodeNotFound, msg: "就餐会话不存在"},
	{target: service.ErrSessionClosed, code: response.CodeBadRequest, msg: "就餐会话已结束"},
}

var orderErrorRules = []mappedHandlerError{
	{target: service.ErrSessionNotFound, code: response.CodeNotFound, msg: "就餐会话不存在"},
	{target: service.ErrSessionClosed, code: response.CodeBadRequest, msg: "就餐会话已结束"},
	{target: service.ErrDinerNotInSession, code: response.CodeForbidden, msg: "请先加入本桌会话再点餐"},
	{target: service.ErrEmptyOrderItems, code: response.CodeBadRequest, msg: "订单菜品不能为空"},
	{target: service.ErrMenuItemNotFound, code: response.CodeBadRequest, msg: "菜品不存在"},
	{target: service.ErrMenuItemUnavailable, code: response.CodeBadRequest, msg: "菜品已下架或售罄"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "菜品数量无效"},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, msg: "订单不存在"},
	{target: service.ErrOrderNotCancellable, code: response.CodeBadRequest, msg: "订单当前状态不可取消"},
}

var settlementErrorRules = []mappedHandlerError{
	{target: service.ErrSessionNotFound, code: response.CodeNotFound, msg: "就餐会话不存在"},
	{target: service.ErrSessionClosed, code: response.CodeBadRequest, msg: "就餐会话已结束"},
	{target: service.ErrSplitItemNotFound, code: response.CodeBadRequest, msg: "分账菜品不在会话订单中"},
	{target: service.ErrSplitItemDuplicated, code: response.CodeBadRequest, msg: "同一菜品不能分配给多人"},
	{target: service.ErrSplitDinerNotFound, code: response.CodeBadRequest, msg: "分账成员不在会话中"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrSessionNotFound, code: response.CodeNotFound, msg: "就餐会话不存在"},
	{target: service.ErrSessionClosed, code: response.CodeBadRequest, msg: "就餐会话已结束"},
	{target: service.ErrDinerNotInSession, code: response.CodeForbidden, msg: "请先加入本桌会话再支付"},
	{target: service.ErrInvalidPaymentMethod, code: response.CodeBadRequest, msg: "不支持的支付方式"},
	{target: service.ErrInvalidAmount, code: response.CodeBadRequest, msg: "支付金额无效"},
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, msg: "支付记录不存在"},
	{target: service.ErrSplitItemNotFound, code: response.CodeBadRequest, msg: "分账菜品不在会话订单中"},
	{target: service.ErrSplitItemDuplicated, code: response.CodeBadRequest, msg: "同一菜品不能分配给多人"},
	{target: service.ErrSplitDinerNotFound, code: response.CodeBadRequest, msg: "分账成员不在会话中"},
}
