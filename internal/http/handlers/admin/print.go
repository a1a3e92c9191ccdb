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

// ListPrintJobs 获取打印任务列表
func (h *Handler) ListPrintJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	jobs, total, err := h.PrintService.ListJobs(repository.PrintJobListFilter{
		Page:     page,
		PageSize: pageSize,
		OrderID:  strings.TrimSpace(c.Query("order_id")),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "获取打印任务失败", err)
		return
	}

	pagination := response.BuildPagination(page, pageSize, total)
	response.SuccessWithPage(c, jobs, pagination)
}

// RetryPrintJob 重新下发失败的打印任务
func (h *Handler) RetryPrintJob(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.PrintService.RetryJob(id); err != nil {
		if errors.Is(err, service.ErrPrintJobNotFound) {
			respondError(c, response.CodeNotFound, "打印任务不存在", nil)
			return
		}
		respondError(c, response.CodeInternal, "重试打印任务失败", err)
		return
	}
	response.SuccessWithMsg(c, "已重新下发", nil)
}

// TestPrint 发送测试小票验证打印机连接
func (h *Handler) TestPrint(c *gin.Context) {
	jobID, err := h.PrintService.TestPrint()
	if err != nil {
		respondError(c, response.CodeInternal, "测试打印失败", err)
		return
	}
	response.SuccessWithMsg(c, "测试小票已下发", gin.H{"job_id": jobID})
}
