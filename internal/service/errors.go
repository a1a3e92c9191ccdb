package service

import "errors"

// 业务错误定义，handler 层按 errors.Is 映射为响应码
var (
	ErrTableNotFound        = errors.New("餐桌不存在")
	ErrTableOccupied        = errors.New("餐桌已被占用")
	ErrTableNumberExists    = errors.New("桌号已存在")
	ErrTableInUse           = errors.New("餐桌正在使用中")
	ErrSessionNotFound      = errors.New("就餐会话不存在")
	ErrSessionClosed        = errors.New("就餐会话已结束")
	ErrDinerNotInSession    = errors.New("成员不在当前会话中")
	ErrOrderNotFound        = errors.New("订单不存在")
	ErrOrderItemNotFound    = errors.New("订单菜品不存在")
	ErrEmptyOrderItems      = errors.New("订单菜品不能为空")
	ErrMenuItemNotFound     = errors.New("菜品不存在")
	ErrMenuItemUnavailable  = errors.New("菜品已下架或售罄")
	ErrCategoryNotFound     = errors.New("分类不存在")
	ErrInvalidQuantity      = errors.New("菜品数量无效")
	ErrOrderNotCancellable  = errors.New("订单当前状态不可取消")
	ErrPaymentNotFound      = errors.New("支付记录不存在")
	ErrInvalidPaymentMethod = errors.New("不支持的支付方式")
	ErrInvalidPaymentStatus = errors.New("不支持的支付状态")
	ErrInvalidAmount        = errors.New("支付金额无效")
	ErrSplitItemNotFound    = errors.New("分账菜品不在会话订单中")
	ErrSplitItemDuplicated  = errors.New("分账菜品重复分配")
	ErrSplitDinerNotFound   = errors.New("分账成员不在会话中")
	ErrPrintJobNotFound     = errors.New("打印任务不存在")
	ErrRestaurantNotFound   = errors.New("餐厅不存在")
	ErrInvalidCredentials   = errors.New("用户名或密码错误")
)

// ErrInvalidStatusTransition 非法状态流转错误（携带当前与目标状态）
type ErrInvalidStatusTransition struct {
	Current   string
	Requested string
}

func (e *ErrInvalidStatusTransition) Error() string {
	return "非法的状态流转: " + e.Current + " -> " + e.Requested
}

// NewErrInvalidStatusTransition 创建状态流转错误
func NewErrInvalidStatusTransition(current, requested string) *ErrInvalidStatusTransition {
	return &ErrInvalidStatusTransition{Current: current, Requested: requested}
}

// IsInvalidStatusTransition 判断是否为非法状态流转错误
func IsInvalidStatusTransition(err error) bool {
	var target *ErrInvalidStatusTransition
	return errors.As(err, &target)
}
