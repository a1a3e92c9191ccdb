package service

import (
	"strings"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
)

// allowedTransitions 订单状态流转表。
// 取消只允许在出餐完成前；已上菜与已取消为终态。
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusPreparing: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPreparing: {
		constants.OrderStatusReady:     true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusReady: {
		constants.OrderStatusServed: true,
	},
	constants.OrderStatusServed:    {},
	constants.OrderStatusCancelled: {},
}

// statusRank 状态推进序，用于保证汇总只前进不回退
var statusRank = map[string]int{
	constants.OrderStatusPending:   0,
	constants.OrderStatusConfirmed: 1,
	constants.OrderStatusPreparing: 2,
	constants.OrderStatusReady:     3,
	constants.OrderStatusServed:    4,
}

// canTransition 判断状态流转是否合法
func canTransition(current, target string) bool {
	targets, ok := allowedTransitions[normalizeStatus(current)]
	if !ok {
		return false
	}
	return targets[normalizeStatus(target)]
}

// itemStatusRank 菜品状态推进序，菜品可独立于订单推进。
// 订单确认下沉会把菜品置为 confirmed，故也纳入推进序。
var itemStatusRank = map[string]int{
	constants.OrderItemStatusPending:   0,
	constants.OrderStatusConfirmed:     1,
	constants.OrderItemStatusPreparing: 2,
	constants.OrderItemStatusReady:     3,
	constants.OrderItemStatusServed:    4,
}

// canItemTransition 判断菜品状态流转是否合法。
// 菜品独立于订单推进，目标只能是备餐/就绪/上菜/取消：
// 非终态菜品可向前推进到任意后续状态，取消允许在上菜前的任意状态，
// 已上菜与已取消为终态。
func canItemTransition(current, target string) bool {
	from := normalizeStatus(current)
	to := normalizeStatus(target)
	if from == constants.OrderItemStatusServed || from == constants.OrderItemStatusCancelled {
		return false
	}
	switch to {
	case constants.OrderItemStatusCancelled:
		return true
	case constants.OrderItemStatusPreparing, constants.OrderItemStatusReady, constants.OrderItemStatusServed:
	default:
		return false
	}
	fromRank, ok := itemStatusRank[from]
	if !ok {
		return false
	}
	return itemStatusRank[to] > fromRank
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// calcOrderStatusFromItems 根据订单项状态汇总订单状态。
// 全部菜品就绪则订单就绪，全部上齐则订单完成；已取消菜品不参与汇总。
// 返回空串表示无需变更。
func calcOrderStatusFromItems(items []models.OrderItem, currentStatus string) string {
	if len(items) == 0 {
		return ""
	}
	var active, ready, served int
	for _, item := range items {
		switch normalizeStatus(item.Status) {
		case constants.OrderItemStatusCancelled:
			continue
		case constants.OrderItemStatusServed:
			active++
			served++
			ready++
		case constants.OrderItemStatusReady:
			active++
			ready++
		default:
			active++
		}
	}
	if active == 0 {
		return ""
	}

	var next string
	switch {
	case served == active:
		next = constants.OrderStatusServed
	case ready == active:
		next = constants.OrderStatusReady
	default:
		return ""
	}

	// 只前进不回退
	if statusRank[next] <= statusRank[normalizeStatus(currentStatus)] {
		return ""
	}
	return next
}
