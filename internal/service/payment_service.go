package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/payment/alipay"
	"github.com/paobai-next/internal/payment/wechatpay"
	"github.com/paobai-next/internal/queue"
	"github.com/paobai-next/internal/realtime"
	"github.com/paobai-next/internal/repository"
)

// paymentSyncDelay 渠道支付创建后首次状态同步的延迟
const paymentSyncDelay = 30 * time.Second

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	sessionRepo  repository.SessionRepository
	orderRepo    repository.OrderRepository
	settlement   *SettlementService
	wechatClient *wechatpay.Client
	alipayCfg    *alipay.Config
	hub          *realtime.Hub
	queueClient  *queue.Client
	printService *PrintService
}

// NewPaymentService 创建支付服务，未配置的渠道客户端传 nil
func NewPaymentService(paymentRepo repository.PaymentRepository, sessionRepo repository.SessionRepository, orderRepo repository.OrderRepository, settlement *SettlementService, wechatClient *wechatpay.Client, alipayCfg *alipay.Config, hub *realtime.Hub, queueClient *queue.Client, printService *PrintService) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		settlement:   settlement,
		wechatClient: wechatClient,
		alipayCfg:    alipayCfg,
		hub:          hub,
		queueClient:  queueClient,
		printService: printService,
	}
}

// CreatePaymentInput 发起支付输入
type CreatePaymentInput struct {
	SessionID   string
	DinerOpenID string
	Method      string
	// Amount 为空时默认支付会话剩余应付金额
	Amount   *models.Money
	OrderIDs []string
	Remark   string
	// AAAssignments split_aa 方式下各成员认领的菜品
	AAAssignments []AAAssignmentInput
}

// PaymentInteraction 收银台交互信息
type PaymentInteraction struct {
	Type     string `json:"type"`
	CodeURL  string `json:"code_url,omitempty"`
	PayURL   string `json:"pay_url,omitempty"`
	PrepayID string `json:"prepay_id,omitempty"`
}

// CreatePaymentResult 发起支付结果
type CreatePaymentResult struct {
	Payment     *models.Payment        `json:"payment"`
	Interaction *PaymentInteraction    `json:"interaction,omitempty"`
	Splits      []models.AASplitDetail `json:"splits,omitempty"`
}

// CreatePayment 创建支付记录并按支付方式发起渠道下单
func (s *PaymentService) CreatePayment(ctx context.Context, input CreatePaymentInput) (*CreatePaymentResult, error) {
	if !isValidPaymentMethod(input.Method) {
		return nil, ErrInvalidPaymentMethod
	}
	session, err := s.sessionRepo.GetByID(input.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != constants.SessionStatusActive {
		return nil, ErrSessionClosed
	}
	if input.DinerOpenID != "" {
		diner, err := s.sessionRepo.GetDiner(session.ID, input.DinerOpenID)
		if err != nil {
			return nil, err
		}
		if diner == nil {
			return nil, ErrDinerNotInSession
		}
	}

	var splitResult *AASplitResult
	amount := models.ZeroMoney()
	switch {
	case input.Method == constants.PaymentMethodSplitAA:
		splitResult, err = s.settlement.CalculateAASplit(session.ID, input.AAAssignments)
		if err != nil {
			return nil, err
		}
		amount = splitResult.GrandTotal
	case input.Amount != nil:
		amount = *input.Amount
	default:
		amount = session.TotalAmount.AddMoney(models.NewMoneyFromDecimal(session.PaidAmount.Neg()))
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	payment := &models.Payment{
		ID:           models.NewPrefixedID("P"),
		RestaurantID: constants.DefaultRestaurantID,
		SessionID:    session.ID,
		DinerOpenID:  input.DinerOpenID,
		OrderIDs:     models.StringArray(input.OrderIDs),
		Method:       input.Method,
		Amount:       amount,
		Status:       constants.PaymentStatusPending,
		Remark:       strings.TrimSpace(input.Remark),
	}

	var splits []models.AASplitDetail
	if splitResult != nil {
		splits = buildSplitDetails(payment.ID, session.ID, splitResult)
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)
		if err := payments.Create(payment); err != nil {
			return err
		}
		return payments.CreateSplitDetails(splits)
	})
	if err != nil {
		return nil, err
	}

	interaction, gatewayErr := s.createGatewayOrder(ctx, payment)
	if gatewayErr != nil {
		// 渠道下单失败不回滚支付记录，标记失败便于排查后重试
		if updateErr := s.paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
			"status":      constants.PaymentStatusFailed,
			"fail_reason": truncateError(gatewayErr),
			"updated_at":  time.Now(),
		}); updateErr != nil {
			logger.Warnw("payment_mark_failed_error", "payment_id", payment.ID, "error", updateErr)
		}
		return nil, gatewayErr
	}

	if s.queueClient != nil && isGatewayMethod(payment.Method) {
		if err := s.queueClient.EnqueuePaymentSync(queue.PaymentSyncPayload{PaymentID: payment.ID}, paymentSyncDelay); err != nil {
			logger.Warnw("payment_sync_enqueue_failed", "payment_id", payment.ID, "error", err)
		}
	}

	created, err := s.paymentRepo.GetByID(payment.ID)
	if err != nil {
		return nil, err
	}
	return &CreatePaymentResult{Payment: created, Interaction: interaction, Splits: splits}, nil
}

// createGatewayOrder 按支付方式发起渠道下单
func (s *PaymentService) createGatewayOrder(ctx context.Context, payment *models.Payment) (*PaymentInteraction, error) {
	switch payment.Method {
	case constants.PaymentMethodWechat:
		if s.wechatClient == nil {
			logger.Warnw("wechatpay_not_configured", "payment_id", payment.ID)
			return nil, nil
		}
		result, err := s.wechatClient.CreatePayment(ctx, wechatpay.CreateInput{
			PaymentID:   payment.ID,
			OutTradeNo:  payment.ID,
			Description: "堂食点餐",
			Amount:      payment.Amount,
		})
		if err != nil {
			return nil, err
		}
		return &PaymentInteraction{Type: result.InteractionType, CodeURL: result.CodeURL, PrepayID: result.PrepayID}, nil
	case constants.PaymentMethodAlipay:
		if s.alipayCfg == nil {
			logger.Warnw("alipay_not_configured", "payment_id", payment.ID)
			return nil, nil
		}
		result, err := alipay.CreatePayment(ctx, s.alipayCfg, alipay.CreateInput{
			OrderNo:   payment.ID,
			PaymentID: payment.ID,
			Amount:    payment.Amount.String(),
			Subject:   "堂食点餐",
		}, constants.PaymentInteractionQR)
		if err != nil {
			return nil, err
		}
		return &PaymentInteraction{Type: constants.PaymentInteractionQR, CodeURL: result.QRCode}, nil
	default:
		// 现金与 AA 由店员或各成员线下完成，无渠道交互
		return nil, nil
	}
}

// UpdatePaymentStatusInput 支付状态更新输入
type UpdatePaymentStatusInput struct {
	PaymentID     string
	Status        string
	TransactionID string
	FailReason    string
}

// UpdatePaymentStatus 更新支付状态并重算会话已付金额
func (s *PaymentService) UpdatePaymentStatus(input UpdatePaymentStatusInput) (*models.Payment, error) {
	if !isValidPaymentStatus(input.Status) {
		return nil, ErrInvalidPaymentStatus
	}
	payment, err := s.paymentRepo.GetByID(input.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == input.Status {
		return payment, nil
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)
		updates := map[string]interface{}{
			"status":     input.Status,
			"updated_at": now,
		}
		if strings.TrimSpace(input.TransactionID) != "" {
			updates["transaction_id"] = strings.TrimSpace(input.TransactionID)
		}
		if input.Status == constants.PaymentStatusSuccess {
			updates["payment_time"] = now
		}
		if input.Status == constants.PaymentStatusFailed {
			updates["fail_reason"] = strings.TrimSpace(input.FailReason)
		}
		if err := payments.UpdateFields(payment.ID, updates); err != nil {
			return err
		}
		if payment.Method == constants.PaymentMethodSplitAA && input.Status == constants.PaymentStatusSuccess {
			details, err := payments.ListSplitDetails(payment.ID)
			if err != nil {
				return err
			}
			for _, detail := range details {
				if err := payments.UpdateSplitDetailFields(detail.ID, map[string]interface{}{
					"status":     constants.PaymentStatusSuccess,
					"paid_at":    now,
					"updated_at": now,
				}); err != nil {
					return err
				}
			}
		}
		return recomputeSessionAmounts(tx, s.orderRepo, s.paymentRepo, payment.SessionID, now)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.paymentRepo.GetByID(payment.ID)
	if err != nil {
		return nil, err
	}
	s.publishPaymentEvent(updated)
	if updated.Status == constants.PaymentStatusSuccess {
		if s.printService != nil {
			if session, err := s.sessionRepo.GetDetail(updated.SessionID); err == nil && session != nil {
				if err := s.printService.EnqueueBillReceipt(session, updated); err != nil {
					logger.Warnw("bill_receipt_enqueue_failed", "payment_id", updated.ID, "error", err)
				}
			}
		}
		// 结清后由 worker 判断是否自动关台
		if err := s.queueClient.EnqueueSessionSettle(queue.SessionSettlePayload{SessionID: updated.SessionID}); err != nil {
			logger.Warnw("session_settle_enqueue_failed", "session_id", updated.SessionID, "error", err)
		}
	}
	return updated, nil
}

// SyncPaymentStatus 向渠道查询支付结果，由队列 worker 调用
//
// 仍在等待支付时返回错误触发按策略重试，超过次数后任务丢弃
func (s *PaymentService) SyncPaymentStatus(ctx context.Context, paymentID string) error {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		logger.Warnw("payment_sync_missing", "payment_id", paymentID)
		return nil
	}
	if payment.Status != constants.PaymentStatusPending && payment.Status != constants.PaymentStatusProcessing {
		return nil
	}

	var (
		status        string
		known         bool
		transactionID string
	)
	switch payment.Method {
	case constants.PaymentMethodWechat:
		if s.wechatClient == nil {
			return nil
		}
		result, err := s.wechatClient.QueryOrderByOutTradeNo(ctx, payment.ID)
		if err != nil {
			return err
		}
		status, known = wechatpay.ToPaymentStatus(result.TradeState)
		transactionID = result.TransactionID
	case constants.PaymentMethodAlipay:
		if s.alipayCfg == nil {
			return nil
		}
		result, err := alipay.QueryTrade(ctx, s.alipayCfg, payment.ID)
		if err != nil {
			return err
		}
		status, known = alipay.ToPaymentStatus(result.TradeStatus)
		transactionID = result.TradeNo
	default:
		return nil
	}

	if !known || status == constants.PaymentStatusPending {
		return fmt.Errorf("支付 %s 未完成，等待下次同步", payment.ID)
	}
	_, err = s.UpdatePaymentStatus(UpdatePaymentStatusInput{
		PaymentID:     payment.ID,
		Status:        status,
		TransactionID: transactionID,
	})
	return err
}

// HandleWechatWebhook 验签解密微信支付回调并落地支付结果
func (s *PaymentService) HandleWechatWebhook(ctx context.Context, req *http.Request) (*models.Payment, error) {
	if s.wechatClient == nil {
		return nil, fmt.Errorf("微信支付未配置")
	}
	result, err := s.wechatClient.VerifyAndDecodeWebhook(ctx, req)
	if err != nil {
		return nil, err
	}
	paymentID := result.PaymentID
	if paymentID == "" {
		paymentID = result.OutTradeNo
	}
	status, known := wechatpay.ToPaymentStatus(result.TradeState)
	if !known || status == constants.PaymentStatusPending {
		return s.GetPayment(paymentID)
	}
	return s.UpdatePaymentStatus(UpdatePaymentStatusInput{
		PaymentID:     paymentID,
		Status:        status,
		TransactionID: result.TransactionID,
	})
}

// HandleAlipayCallback 验签支付宝异步通知并落地支付结果
func (s *PaymentService) HandleAlipayCallback(form url.Values) (*models.Payment, error) {
	if s.alipayCfg == nil {
		return nil, fmt.Errorf("支付宝未配置")
	}
	if err := alipay.VerifyCallback(s.alipayCfg, form); err != nil {
		return nil, err
	}
	paymentID := strings.TrimSpace(form.Get("passback_params"))
	if paymentID == "" {
		paymentID = strings.TrimSpace(form.Get("out_trade_no"))
	}
	status, known := alipay.ToPaymentStatus(form.Get("trade_status"))
	if !known || status == constants.PaymentStatusPending {
		return s.GetPayment(paymentID)
	}
	return s.UpdatePaymentStatus(UpdatePaymentStatusInput{
		PaymentID:     paymentID,
		Status:        status,
		TransactionID: strings.TrimSpace(form.Get("trade_no")),
	})
}

// GetPayment 获取支付记录
func (s *PaymentService) GetPayment(paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// ListSessionPayments 获取会话内全部支付记录
func (s *PaymentService) ListSessionPayments(sessionID string) ([]models.Payment, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.paymentRepo.ListBySession(sessionID)
}

// ListPayments 查询支付列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.List(filter)
}

// ListSplitDetails 获取 AA 支付的成员分账明细
func (s *PaymentService) ListSplitDetails(paymentID string) ([]models.AASplitDetail, error) {
	return s.paymentRepo.ListSplitDetails(paymentID)
}

func (s *PaymentService) publishPaymentEvent(payment *models.Payment) {
	if s.hub == nil || payment == nil {
		return
	}
	event := realtime.NewEvent(constants.EventPaymentUpdate, map[string]interface{}{
		"payment_id": payment.ID,
		"session_id": payment.SessionID,
		"method":     payment.Method,
		"status":     payment.Status,
		"amount":     payment.Amount,
	})
	s.hub.Publish([]string{
		realtime.SessionChannel(payment.SessionID),
		realtime.RestaurantChannel(payment.RestaurantID),
		constants.ChannelAdmin,
	}, event)
}

func buildSplitDetails(paymentID, sessionID string, result *AASplitResult) []models.AASplitDetail {
	details := make([]models.AASplitDetail, 0, len(result.Splits))
	for _, split := range result.Splits {
		items := make([]map[string]interface{}, 0, len(split.Items))
		for _, item := range split.Items {
			items = append(items, map[string]interface{}{
				"item_id":   item.ItemID,
				"item_name": item.ItemName,
				"quantity":  item.Quantity,
				"subtotal":  item.Subtotal,
			})
		}
		details = append(details, models.AASplitDetail{
			PaymentID:      paymentID,
			SessionID:      sessionID,
			DinerOpenID:    split.DinerOpenID,
			DinerNickname:  split.Nickname,
			OrderItems:     models.JSON{"items": items},
			OriginalAmount: split.OriginalAmount,
			SplitAmount:    split.FinalAmount,
			DiscountAmount: split.DiscountAmount,
			FinalAmount:    split.FinalAmount,
			Status:         constants.PaymentStatusPending,
		})
	}
	return details
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case constants.PaymentMethodWechat, constants.PaymentMethodAlipay,
		constants.PaymentMethodCash, constants.PaymentMethodSplitAA:
		return true
	default:
		return false
	}
}

func isValidPaymentStatus(status string) bool {
	switch status {
	case constants.PaymentStatusPending, constants.PaymentStatusProcessing,
		constants.PaymentStatusSuccess, constants.PaymentStatusFailed,
		constants.PaymentStatusRefunded:
		return true
	default:
		return false
	}
}

func isGatewayMethod(method string) bool {
	return method == constants.PaymentMethodWechat || method == constants.PaymentMethodAlipay
}
