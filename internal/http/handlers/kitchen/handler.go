package kitchen

import (
	handlershared "github.com/paobai-next/internal/http/handlers/shared"
	"github.com/paobai-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 后厨接口处理器入口
type Handler struct {
	*provider.Container
}

// New 创建后厨处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func normalizePagination(page, pageSize int) (int, int) {
	return handlershared.NormalizePagination(page, pageSize)
}
