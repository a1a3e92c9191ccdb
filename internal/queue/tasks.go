package queue

import (
	"encoding/json"

	"github.com/paobai-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPrintReceipt 小票打印任务
	TaskPrintReceipt = constants.TaskPrintReceipt
	// TaskPaymentSync 支付状态同步任务
	TaskPaymentSync = constants.TaskPaymentSync
	// TaskSessionSettle 会话结算对账任务
	TaskSessionSettle = constants.TaskSessionSettle
)

// PrintReceiptPayload 小票打印任务载荷
type PrintReceiptPayload struct {
	PrintJobID uint `json:"print_job_id"`
}

// PaymentSyncPayload 支付状态同步任务载荷
type PaymentSyncPayload struct {
	PaymentID string `json:"payment_id"`
}

// SessionSettlePayload 会话结算对账任务载荷
type SessionSettlePayload struct {
	SessionID string `json:"session_id"`
}

// NewPrintReceiptTask 创建小票打印任务
func NewPrintReceiptTask(payload PrintReceiptPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPrintReceipt, body), nil
}

// NewPaymentSyncTask 创建支付状态同步任务
func NewPaymentSyncTask(payload PaymentSyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentSync, body), nil
}

// NewSessionSettleTask 创建会话结算对账任务
func NewSessionSettleTask(payload SessionSettlePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionSettle, body), nil
}
