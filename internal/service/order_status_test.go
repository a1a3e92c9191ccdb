package service

import (
	"testing"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		current string
		target  string
		allowed bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusReady, false},
		{constants.OrderStatusPending, constants.OrderStatusServed, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusPreparing, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusCancelled, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusServed, false},
		{constants.OrderStatusPreparing, constants.OrderStatusReady, true},
		{constants.OrderStatusPreparing, constants.OrderStatusCancelled, true},
		{constants.OrderStatusReady, constants.OrderStatusServed, true},
		{constants.OrderStatusReady, constants.OrderStatusCancelled, false},
		{constants.OrderStatusServed, constants.OrderStatusCancelled, false},
		{constants.OrderStatusServed, constants.OrderStatusReady, false},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed, false},
		{" Ready ", "served", true},
		{"unknown", constants.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := canTransition(tc.current, tc.target); got != tc.allowed {
			t.Fatalf("canTransition(%q, %q) = %v, want %v", tc.current, tc.target, got, tc.allowed)
		}
	}
}

func TestCanItemTransition(t *testing.T) {
	cases := []struct {
		current string
		target  string
		allowed bool
	}{
		{constants.OrderItemStatusPending, constants.OrderItemStatusPreparing, true},
		{constants.OrderItemStatusPending, constants.OrderItemStatusReady, true},
		{constants.OrderItemStatusPending, constants.OrderItemStatusServed, true},
		{constants.OrderItemStatusPending, constants.OrderItemStatusCancelled, true},
		{constants.OrderItemStatusPreparing, constants.OrderItemStatusReady, true},
		{constants.OrderItemStatusPreparing, constants.OrderItemStatusPending, false},
		{constants.OrderItemStatusReady, constants.OrderItemStatusServed, true},
		{constants.OrderItemStatusReady, constants.OrderItemStatusCancelled, true},
		{constants.OrderItemStatusReady, constants.OrderItemStatusPreparing, false},
		{constants.OrderItemStatusServed, constants.OrderItemStatusCancelled, false},
		{constants.OrderItemStatusServed, constants.OrderItemStatusReady, false},
		{constants.OrderItemStatusCancelled, constants.OrderItemStatusPreparing, false},
		{constants.OrderStatusConfirmed, constants.OrderItemStatusPreparing, true},
		{constants.OrderStatusConfirmed, constants.OrderItemStatusPending, false},
		{constants.OrderItemStatusPending, constants.OrderStatusConfirmed, false},
		{" Pending ", "preparing", true},
		{constants.OrderItemStatusPending, "unknown", false},
	}
	for _, tc := range cases {
		if got := canItemTransition(tc.current, tc.target); got != tc.allowed {
			t.Fatalf("canItemTransition(%q, %q) = %v, want %v", tc.current, tc.target, got, tc.allowed)
		}
	}
}

func TestCalcOrderStatusFromItemsAllReady(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusReady},
		{Status: constants.OrderItemStatusReady},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusPreparing); got != constants.OrderStatusReady {
		t.Fatalf("expected ready, got %q", got)
	}
}

func TestCalcOrderStatusFromItemsAllServed(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusServed},
		{Status: constants.OrderItemStatusServed},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusReady); got != constants.OrderStatusServed {
		t.Fatalf("expected served, got %q", got)
	}
}

func TestCalcOrderStatusFromItemsPartialNoChange(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusReady},
		{Status: constants.OrderItemStatusPreparing},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusPreparing); got != "" {
		t.Fatalf("expected no change, got %q", got)
	}
}

func TestCalcOrderStatusFromItemsIgnoresCancelled(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusServed},
		{Status: constants.OrderItemStatusCancelled},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusReady); got != constants.OrderStatusServed {
		t.Fatalf("expected served, got %q", got)
	}
}

func TestCalcOrderStatusFromItemsNeverBackward(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusReady},
		{Status: constants.OrderItemStatusReady},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusServed); got != "" {
		t.Fatalf("roll-up must not regress, got %q", got)
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusReady); got != "" {
		t.Fatalf("roll-up must be idempotent at same rank, got %q", got)
	}
}

func TestCalcOrderStatusFromItemsAllCancelled(t *testing.T) {
	items := []models.OrderItem{
		{Status: constants.OrderItemStatusCancelled},
		{Status: constants.OrderItemStatusCancelled},
	}
	if got := calcOrderStatusFromItems(items, constants.OrderStatusPreparing); got != "" {
		t.Fatalf("expected no change for fully cancelled items, got %q", got)
	}
}
