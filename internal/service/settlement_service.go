package service

import (
	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

// SettlementService AA 分账结算服务
type SettlementService struct {
	sessionRepo repository.SessionRepository
	orderRepo   repository.OrderRepository
}

// NewSettlementService 创建结算服务
func NewSettlementService(sessionRepo repository.SessionRepository, orderRepo repository.OrderRepository) *SettlementService {
	return &SettlementService{
		sessionRepo: sessionRepo,
		orderRepo:   orderRepo,
	}
}

// AAAssignmentInput 分账分配输入：一位成员认领的订单项
type AAAssignmentInput struct {
	DinerOpenID string
	ItemIDs     []uint
}

// AASplitItem 分账明细中的单个菜品
type AASplitItem struct {
	ItemID   uint         `json:"item_id"`
	ItemName string       `json:"item_name"`
	Quantity int          `json:"quantity"`
	Subtotal models.Money `json:"subtotal"`
}

// DinerSplit 单个成员的分账结果
type DinerSplit struct {
	DinerOpenID    string        `json:"diner_openid"`
	Nickname       string        `json:"nickname"`
	Items          []AASplitItem `json:"items"`
	OriginalAmount models.Money  `json:"original_amount"`
	DiscountAmount models.Money  `json:"discount_amount"`
	FinalAmount    models.Money  `json:"final_amount"`
}

// AASplitResult AA 分账计算结果
type AASplitResult struct {
	SessionID  string       `json:"session_id"`
	Splits     []DinerSplit `json:"splits"`
	GrandTotal models.Money `json:"grand_total"`
	DinerCount int          `json:"diner_count"`
}

// CalculateAASplit 按成员认领的菜品计算各自应付金额。
// 纯计算，不落库；同一菜品被重复分配视为输入错误。
func (s *SettlementService) CalculateAASplit(sessionID string, assignments []AAAssignmentInput) (*AASplitResult, error) {
	session, err := s.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != constants.SessionStatusActive {
		return nil, ErrSessionClosed
	}

	diners, err := s.sessionRepo.ListDiners(sessionID)
	if err != nil {
		return nil, err
	}
	nicknameByOpenID := make(map[string]string, len(diners))
	for _, diner := range diners {
		nicknameByOpenID[diner.OpenID] = diner.Nickname
	}

	orders, err := s.orderRepo.ListBySession(sessionID, "")
	if err != nil {
		return nil, err
	}
	itemByID := make(map[uint]models.OrderItem)
	for _, order := range orders {
		if order.Status == constants.OrderStatusCancelled {
			continue
		}
		for _, item := range order.Items {
			if item.Status == constants.OrderItemStatusCancelled {
				continue
			}
			itemByID[item.ID] = item
		}
	}

	assigned := make(map[uint]bool, len(itemByID))
	splits := make([]DinerSplit, 0, len(assignments))
	grandTotal := models.ZeroMoney()
	for _, assignment := range assignments {
		nickname, ok := nicknameByOpenID[assignment.DinerOpenID]
		if !ok {
			return nil, ErrSplitDinerNotFound
		}

		split := DinerSplit{
			DinerOpenID:    assignment.DinerOpenID,
			Nickname:       nickname,
			Items:          make([]AASplitItem, 0, len(assignment.ItemIDs)),
			OriginalAmount: models.ZeroMoney(),
			DiscountAmount: models.ZeroMoney(),
		}
		for _, itemID := range assignment.ItemIDs {
			item, ok := itemByID[itemID]
			if !ok {
				return nil, ErrSplitItemNotFound
			}
			if assigned[itemID] {
				return nil, ErrSplitItemDuplicated
			}
			assigned[itemID] = true

			split.Items = append(split.Items, AASplitItem{
				ItemID:   item.ID,
				ItemName: item.ItemName,
				Quantity: item.Quantity,
				Subtotal: item.Subtotal,
			})
			split.OriginalAmount = split.OriginalAmount.AddMoney(item.Subtotal)
		}
		// 优惠钩子暂未启用，应付即原始金额
		split.FinalAmount = split.OriginalAmount
		grandTotal = grandTotal.AddMoney(split.FinalAmount)
		splits = append(splits, split)
	}

	return &AASplitResult{
		SessionID:  sessionID,
		Splits:     splits,
		GrandTotal: grandTotal,
		DinerCount: len(splits),
	}, nil
}
