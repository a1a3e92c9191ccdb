package worker

import (
	"context"
	"testing"

	"github.com/paobai-next/internal/provider"
	"github.com/paobai-next/internal/queue"

	"github.com/hibiken/asynq"
)

func TestHandlePrintReceiptInvalidPayload(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task := asynq.NewTask(queue.TaskPrintReceipt, []byte("not-json"))
	if err := c.handlePrintReceipt(context.Background(), task); err == nil {
		t.Fatalf("broken payload should return error for retry visibility")
	}

	task, err := queue.NewPrintReceiptTask(queue.PrintReceiptPayload{PrintJobID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handlePrintReceipt(context.Background(), task); err != nil {
		t.Fatalf("zero job id should be skipped without error, got %v", err)
	}
}

func TestHandlePaymentSyncSkipsWhenServiceMissing(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewPaymentSyncTask(queue.PaymentSyncPayload{PaymentID: "PAY123"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handlePaymentSync(context.Background(), task); err != nil {
		t.Fatalf("missing payment service should not fail the task, got %v", err)
	}
}

func TestHandleSessionSettleSkipsEmptySessionID(t *testing.T) {
	c := NewConsumer(&provider.Container{})

	task, err := queue.NewSessionSettleTask(queue.SessionSettlePayload{SessionID: ""})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := c.handleSessionSettle(context.Background(), task); err != nil {
		t.Fatalf("empty session id should be skipped without error, got %v", err)
	}
}
