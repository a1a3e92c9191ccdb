package public

import "github.com/paobai-next/internal/provider"

// Handler 顾客端接口处理器入口
// 说明：该处理器仅用于扫码点餐的顾客侧 API，不做登录鉴权，按会话成员 openid 校验身份。
type Handler struct {
	*provider.Container
}

// New 创建顾客端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
