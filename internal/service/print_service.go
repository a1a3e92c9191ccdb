package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/printer/xpyun"
	"github.com/paobai-next/internal/queue"
	"github.com/paobai-next/internal/repository"
)

// maxPrintRetry 单个打印任务最大重试次数
const maxPrintRetry = 3

// PrintService 云打印服务
type PrintService struct {
	jobRepo        repository.PrintJobRepository
	tableRepo      repository.TableRepository
	restaurantRepo repository.RestaurantRepository
	printer        *xpyun.Client
	queueClient    *queue.Client
	printerSN      string
}

// NewPrintService 创建云打印服务，printer 为 nil 时任务只落库不外发
func NewPrintService(jobRepo repository.PrintJobRepository, tableRepo repository.TableRepository, restaurantRepo repository.RestaurantRepository, printer *xpyun.Client, queueClient *queue.Client, printerSN string) *PrintService {
	return &PrintService{
		jobRepo:        jobRepo,
		tableRepo:      tableRepo,
		restaurantRepo: restaurantRepo,
		printer:        printer,
		queueClient:    queueClient,
		printerSN:      printerSN,
	}
}

// EnqueueOrderReceipt 为新订单创建小票打印任务并推入队列
func (s *PrintService) EnqueueOrderReceipt(order *models.Order) error {
	if order == nil {
		return ErrOrderNotFound
	}
	content, err := s.buildOrderReceipt(order)
	if err != nil {
		return err
	}
	job := &models.PrintJob{
		RestaurantID: constants.DefaultRestaurantID,
		OrderID:      order.ID,
		JobType:      "receipt",
		Content:      content,
		PrinterSN:    s.printerSN,
		Status:       constants.PrintJobStatusPending,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return err
	}
	return s.dispatch(job.ID)
}

// EnqueueBillReceipt 为结账成功的会话创建结账单打印任务
func (s *PrintService) EnqueueBillReceipt(session *models.DiningSession, payment *models.Payment) error {
	if session == nil {
		return ErrSessionNotFound
	}
	content := s.buildBillReceipt(session, payment)
	job := &models.PrintJob{
		RestaurantID: constants.DefaultRestaurantID,
		JobType:      "receipt",
		Content:      content,
		PrinterSN:    s.printerSN,
		Status:       constants.PrintJobStatusPending,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return err
	}
	return s.dispatch(job.ID)
}

// TestPrint 发起测试打印，返回任务 ID
func (s *PrintService) TestPrint() (uint, error) {
	content := s.buildTestReceipt(time.Now())
	job := &models.PrintJob{
		RestaurantID: constants.DefaultRestaurantID,
		JobType:      "test",
		Content:      content,
		PrinterSN:    s.printerSN,
		Status:       constants.PrintJobStatusPending,
	}
	if err := s.jobRepo.Create(job); err != nil {
		return 0, err
	}
	return job.ID, s.dispatch(job.ID)
}

// RetryJob 重置失败任务并重新推入队列
func (s *PrintService) RetryJob(jobID uint) error {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return ErrPrintJobNotFound
	}
	if err := s.jobRepo.UpdateFields(job.ID, map[string]interface{}{
		"status":     constants.PrintJobStatusPending,
		"last_error": "",
		"updated_at": time.Now(),
	}); err != nil {
		return err
	}
	return s.dispatch(job.ID)
}

// ListJobs 查询打印任务列表
func (s *PrintService) ListJobs(filter repository.PrintJobListFilter) ([]models.PrintJob, int64, error) {
	return s.jobRepo.List(filter)
}

// ProcessJob 执行打印任务，由队列 worker 调用
//
// 返回错误时 asynq 会按队列策略重试，重试次数记录在任务行上
func (s *PrintService) ProcessJob(ctx context.Context, jobID uint) error {
	job, err := s.jobRepo.GetByID(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		logger.Warnw("print_job_missing", "job_id", jobID)
		return nil
	}
	if job.Status == constants.PrintJobStatusSuccess {
		return nil
	}
	if s.printer == nil {
		// 未配置打印机，任务保持 pending，等待配置后重试
		logger.Debugw("print_job_skipped_no_printer", "job_id", jobID)
		return nil
	}

	result, printErr := s.printer.PrintReceipt(ctx, job.Content, 1)
	now := time.Now()
	if printErr != nil {
		updates := map[string]interface{}{
			"retry_count": job.RetryCount + 1,
			"last_error":  truncateError(printErr),
			"updated_at":  now,
		}
		if job.RetryCount+1 >= maxPrintRetry {
			updates["status"] = constants.PrintJobStatusFailed
		}
		if err := s.jobRepo.UpdateFields(job.ID, updates); err != nil {
			logger.Warnw("print_job_update_failed", "job_id", job.ID, "error", err)
		}
		return printErr
	}

	return s.jobRepo.UpdateFields(job.ID, map[string]interface{}{
		"status":      constants.PrintJobStatusSuccess,
		"external_id": result.ExternalID,
		"sent_at":     now,
		"updated_at":  now,
	})
}

func (s *PrintService) dispatch(jobID uint) error {
	if s.queueClient != nil && s.queueClient.Enabled() {
		return s.queueClient.EnqueuePrintReceipt(queue.PrintReceiptPayload{PrintJobID: jobID})
	}
	// 队列未启用时同步直发
	return s.ProcessJob(context.Background(), jobID)
}

// buildOrderReceipt 生成后厨小票内容（芯烨指令排版）
func (s *PrintService) buildOrderReceipt(order *models.Order) (string, error) {
	restaurantName := "餐厅"
	if restaurant, err := s.restaurantRepo.GetByID(constants.DefaultRestaurantID); err == nil && restaurant != nil {
		restaurantName = restaurant.Name
	}
	tableNumber := ""
	if table, err := s.tableRepo.GetByID(order.TableID); err == nil && table != nil {
		tableNumber = table.TableNumber
	}

	var b strings.Builder
	b.WriteString("<C><B>" + restaurantName + "</B></C><BR>")
	b.WriteString("<C>================</C><BR>")
	b.WriteString("<C><B>点餐单</B></C><BR>")
	b.WriteString("================<BR>")
	b.WriteString("桌号: " + tableNumber + "<BR>")
	b.WriteString("订单号: " + order.OrderNo + "<BR>")
	b.WriteString("时间: " + time.Now().Format("2006-01-02 15:04:05") + "<BR>")
	b.WriteString("================<BR>")
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("%s x%d<BR>", item.ItemName, item.Quantity))
		if strings.TrimSpace(item.SpecialInstructions) != "" {
			b.WriteString("  备注: " + item.SpecialInstructions + "<BR>")
		}
	}
	b.WriteString("================<BR>")
	b.WriteString(fmt.Sprintf("总计: %d 项<BR>", len(order.Items)))
	b.WriteString("金额: ¥" + order.TotalAmount.String() + "<BR>")
	b.WriteString("================<BR>")
	b.WriteString("<C>请尽快准备</C><BR>")
	if strings.TrimSpace(order.SpecialRequests) != "" {
		b.WriteString("特殊要求: " + order.SpecialRequests + "<BR>")
	}
	b.WriteString("<BR><BR>")
	return b.String(), nil
}

// buildBillReceipt 生成结账单内容
func (s *PrintService) buildBillReceipt(session *models.DiningSession, payment *models.Payment) string {
	restaurantName := "餐厅"
	if restaurant, err := s.restaurantRepo.GetByID(constants.DefaultRestaurantID); err == nil && restaurant != nil {
		restaurantName = restaurant.Name
	}
	tableNumber := ""
	if table, err := s.tableRepo.GetByID(session.TableID); err == nil && table != nil {
		tableNumber = table.TableNumber
	}

	var b strings.Builder
	b.WriteString("<C><B>" + restaurantName + "</B></C><BR>")
	b.WriteString("<C>================</C><BR>")
	b.WriteString("<C><B>结账单</B></C><BR>")
	b.WriteString("================<BR>")
	b.WriteString("桌号: " + tableNumber + "<BR>")
	b.WriteString("时间: " + time.Now().Format("2006-01-02 15:04:05") + "<BR>")
	b.WriteString(fmt.Sprintf("人数: %d 人<BR>", session.TotalCustomers))
	b.WriteString("================<BR>")
	for _, order := range session.Orders {
		if order.Status == constants.OrderStatusCancelled {
			continue
		}
		b.WriteString("订单号: " + order.OrderNo + "<BR>")
		b.WriteString("金额: ¥" + order.TotalAmount.String() + "<BR>")
	}
	b.WriteString("================<BR>")
	b.WriteString("<R>小计: ¥" + session.Subtotal.String() + "</R><BR>")
	b.WriteString("<R>优惠: -¥" + session.DiscountAmount.String() + "</R><BR>")
	b.WriteString("<B><R>总计: ¥" + session.TotalAmount.String() + "</R></B><BR>")
	if payment != nil {
		b.WriteString("支付方式: " + paymentMethodName(payment.Method) + "<BR>")
	}
	b.WriteString("================<BR>")
	b.WriteString("<C>感谢光临</C><BR>")
	b.WriteString("<BR><BR>")
	return b.String()
}

func paymentMethodName(method string) string {
	switch method {
	case constants.PaymentMethodWechat:
		return "微信支付"
	case constants.PaymentMethodAlipay:
		return "支付宝"
	case constants.PaymentMethodCash:
		return "现金"
	case constants.PaymentMethodSplitAA:
		return "AA制支付"
	default:
		return method
	}
}

func (s *PrintService) buildTestReceipt(now time.Time) string {
	var b strings.Builder
	b.WriteString("<C><B>测试打印</B></C><BR>")
	b.WriteString("================<BR>")
	b.WriteString("打印机SN: " + s.printerSN + "<BR>")
	b.WriteString("时间: " + now.Format("2006-01-02 15:04:05") + "<BR>")
	b.WriteString("================<BR>")
	b.WriteString("<C>测试成功</C><BR>")
	b.WriteString("<BR><BR>")
	return b.String()
}

func truncateError(err error) string {
	msg := err.Error()
	if len(msg) > 500 {
		msg = msg[:500]
	}
	return msg
}
