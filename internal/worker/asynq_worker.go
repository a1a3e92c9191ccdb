package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/paobai-next/internal/logger"
	"github.com/paobai-next/internal/provider"
	"github.com/paobai-next/internal/queue"
	"github.com/paobai-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskPrintReceipt, c.handlePrintReceipt)
	mux.HandleFunc(queue.TaskPaymentSync, c.handlePaymentSync)
	mux.HandleFunc(queue.TaskSessionSettle, c.handleSessionSettle)
}

func (c *Consumer) handlePrintReceipt(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_print_receipt_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PrintReceiptPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_print_receipt_unmarshal_failed", "error", err)
		return err
	}
	if payload.PrintJobID == 0 {
		logger.Debugw("worker_print_receipt_skip_invalid_payload", "print_job_id", payload.PrintJobID)
		return nil
	}
	if c.PrintService == nil {
		logger.Warnw("worker_print_receipt_skip_print_service_nil", "print_job_id", payload.PrintJobID)
		return nil
	}
	if err := c.PrintService.ProcessJob(ctx, payload.PrintJobID); err != nil {
		if errors.Is(err, service.ErrPrintJobNotFound) {
			logger.Debugw("worker_print_receipt_skip_job_not_found", "print_job_id", payload.PrintJobID)
			return nil
		}
		logger.Warnw("worker_print_receipt_failed", "print_job_id", payload.PrintJobID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handlePaymentSync(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_sync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentSyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_sync_unmarshal_failed", "error", err)
		return err
	}
	if payload.PaymentID == "" {
		logger.Debugw("worker_payment_sync_skip_invalid_payload")
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_payment_sync_skip_payment_service_nil", "payment_id", payload.PaymentID)
		return nil
	}
	if err := c.PaymentService.SyncPaymentStatus(ctx, payload.PaymentID); err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			logger.Debugw("worker_payment_sync_skip_payment_not_found", "payment_id", payload.PaymentID)
			return nil
		}
		logger.Warnw("worker_payment_sync_retry", "payment_id", payload.PaymentID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleSessionSettle(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_session_settle_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SessionSettlePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_session_settle_unmarshal_failed", "error", err)
		return err
	}
	if payload.SessionID == "" {
		logger.Debugw("worker_session_settle_skip_invalid_payload")
		return nil
	}
	if c.SessionService == nil {
		logger.Warnw("worker_session_settle_skip_session_service_nil", "session_id", payload.SessionID)
		return nil
	}
	_, err := c.SessionService.SettleIfFullyPaid(payload.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			logger.Debugw("worker_session_settle_skip_session_not_found", "session_id", payload.SessionID)
			return nil
		}
		logger.Warnw("worker_session_settle_failed", "session_id", payload.SessionID, "error", err)
		return err
	}
	return nil
}
