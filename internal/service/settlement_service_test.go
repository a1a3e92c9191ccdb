package service

import (
	"context"
	"errors"
	"testing"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

type settlementTestEnv struct {
	orderEnv   *orderServiceTestEnv
	settlement *SettlementService
	items      []models.OrderItem
}

// setupSettlementTest 开台、两人入座并下一单 35 元（20 + 7.50×2）
func setupSettlementTest(t *testing.T, name string) *settlementTestEnv {
	t.Helper()
	env := setupOrderServiceTest(t, name)
	if _, err := env.sessionSvc.JoinSession(JoinSessionInput{
		SessionID: env.session.ID,
		OpenID:    "openid-guest",
		Nickname:  "李四",
	}); err != nil {
		t.Fatalf("join session failed: %v", err)
	}
	order := env.createThirtyFiveYuanOrder(t)

	sessionRepo := repository.NewSessionRepository(env.db)
	orderRepo := repository.NewOrderRepository(env.db)
	settlement := NewSettlementService(sessionRepo, orderRepo)
	return &settlementTestEnv{
		orderEnv:   env,
		settlement: settlement,
		items:      order.Items,
	}
}

func TestCalculateAASplit(t *testing.T) {
	env := setupSettlementTest(t, "aa_split")

	result, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, []AAAssignmentInput{
		{DinerOpenID: "openid-leader", ItemIDs: []uint{env.items[0].ID}},
		{DinerOpenID: "openid-guest", ItemIDs: []uint{env.items[1].ID}},
	})
	if err != nil {
		t.Fatalf("calculate failed: %v", err)
	}
	if result.DinerCount != 2 || len(result.Splits) != 2 {
		t.Fatalf("expected 2 splits, got %+v", result)
	}
	mustMoneyEqual(t, result.GrandTotal, "35.00")
	mustMoneyEqual(t, result.Splits[0].OriginalAmount, "20.00")
	mustMoneyEqual(t, result.Splits[0].FinalAmount, "20.00")
	mustMoneyEqual(t, result.Splits[1].OriginalAmount, "15.00")
	mustMoneyEqual(t, result.Splits[1].FinalAmount, "15.00")
	if result.Splits[1].Nickname != "李四" {
		t.Fatalf("unexpected nickname: %s", result.Splits[1].Nickname)
	}
}

func TestCalculateAASplitRejectsDuplicateItem(t *testing.T) {
	env := setupSettlementTest(t, "aa_dup")

	_, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, []AAAssignmentInput{
		{DinerOpenID: "openid-leader", ItemIDs: []uint{env.items[0].ID}},
		{DinerOpenID: "openid-guest", ItemIDs: []uint{env.items[0].ID}},
	})
	if !errors.Is(err, ErrSplitItemDuplicated) {
		t.Fatalf("expected ErrSplitItemDuplicated, got %v", err)
	}
}

func TestCalculateAASplitRejectsUnknownItem(t *testing.T) {
	env := setupSettlementTest(t, "aa_unknown_item")

	_, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, []AAAssignmentInput{
		{DinerOpenID: "openid-leader", ItemIDs: []uint{999999}},
	})
	if !errors.Is(err, ErrSplitItemNotFound) {
		t.Fatalf("expected ErrSplitItemNotFound, got %v", err)
	}
}

func TestCalculateAASplitRejectsUnknownDiner(t *testing.T) {
	env := setupSettlementTest(t, "aa_unknown_diner")

	_, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, []AAAssignmentInput{
		{DinerOpenID: "openid-stranger", ItemIDs: []uint{env.items[0].ID}},
	})
	if !errors.Is(err, ErrSplitDinerNotFound) {
		t.Fatalf("expected ErrSplitDinerNotFound, got %v", err)
	}
}

func TestCalculateAASplitExcludesCancelledOrder(t *testing.T) {
	env := setupSettlementTest(t, "aa_cancelled")
	if _, err := env.orderEnv.orderSvc.CancelOrderByCustomer(
		env.items[0].OrderID, env.orderEnv.session.ID, "openid-leader", "整单取消"); err != nil {
		t.Fatalf("cancel order failed: %v", err)
	}

	_, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, []AAAssignmentInput{
		{DinerOpenID: "openid-leader", ItemIDs: []uint{env.items[0].ID}},
	})
	if !errors.Is(err, ErrSplitItemNotFound) {
		t.Fatalf("cancelled items must be unassignable, got %v", err)
	}
}

func TestCalculateAASplitClosedSessionRejected(t *testing.T) {
	env := setupSettlementTest(t, "aa_closed")
	if _, err := env.orderEnv.sessionSvc.CloseSession(env.orderEnv.session.ID); err != nil {
		t.Fatalf("close session failed: %v", err)
	}

	_, err := env.settlement.CalculateAASplit(env.orderEnv.session.ID, nil)
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestCreateAAPaymentPersistsSplitDetails(t *testing.T) {
	env := setupSettlementTest(t, "aa_payment")
	paymentRepo := repository.NewPaymentRepository(env.orderEnv.db)
	sessionRepo := repository.NewSessionRepository(env.orderEnv.db)
	orderRepo := repository.NewOrderRepository(env.orderEnv.db)
	paymentSvc := NewPaymentService(paymentRepo, sessionRepo, orderRepo, env.settlement, nil, nil, nil, nil, nil)

	result, err := paymentSvc.CreatePayment(context.Background(), CreatePaymentInput{
		SessionID:   env.orderEnv.session.ID,
		DinerOpenID: "openid-leader",
		Method:      constants.PaymentMethodSplitAA,
		AAAssignments: []AAAssignmentInput{
			{DinerOpenID: "openid-leader", ItemIDs: []uint{env.items[0].ID}},
			{DinerOpenID: "openid-guest", ItemIDs: []uint{env.items[1].ID}},
		},
	})
	if err != nil {
		t.Fatalf("create aa payment failed: %v", err)
	}
	mustMoneyEqual(t, result.Payment.Amount, "35.00")
	if len(result.Splits) != 2 {
		t.Fatalf("expected 2 split details, got %d", len(result.Splits))
	}

	details, err := paymentSvc.ListSplitDetails(result.Payment.ID)
	if err != nil {
		t.Fatalf("list split details failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 persisted details, got %d", len(details))
	}
	mustMoneyEqual(t, details[0].FinalAmount, "20.00")
	mustMoneyEqual(t, details[1].FinalAmount, "15.00")

	// 支付成功后会话已付金额按成功支付重算
	if _, err := paymentSvc.UpdatePaymentStatus(UpdatePaymentStatusInput{
		PaymentID: result.Payment.ID,
		Status:    constants.PaymentStatusSuccess,
	}); err != nil {
		t.Fatalf("update payment status failed: %v", err)
	}
	session, err := env.orderEnv.sessionSvc.GetSessionDetail(env.orderEnv.session.ID)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	mustMoneyEqual(t, session.PaidAmount, "35.00")

	updatedDetails, err := paymentSvc.ListSplitDetails(result.Payment.ID)
	if err != nil {
		t.Fatalf("list split details failed: %v", err)
	}
	for _, detail := range updatedDetails {
		if detail.Status != constants.PaymentStatusSuccess {
			t.Fatalf("split detail should be success, got %s", detail.Status)
		}
	}
}
