package service

import (
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/repository"
)

// StatsService 统计服务
type StatsService struct {
	statsRepo repository.StatsRepository
}

// NewStatsService 创建统计服务
func NewStatsService(statsRepo repository.StatsRepository) *StatsService {
	return &StatsService{statsRepo: statsRepo}
}

// KitchenToday 后厨当日统计
type KitchenToday struct {
	Date            string  `json:"date"`
	OrdersTotal     int64   `json:"orders_total"`
	PendingOrders   int64   `json:"pending_orders"`
	PreparingOrders int64   `json:"preparing_orders"`
	ReadyOrders     int64   `json:"ready_orders"`
	ServedOrders    int64   `json:"served_orders"`
	CancelledOrders int64   `json:"cancelled_orders"`
	AvgActualTime   float64 `json:"avg_actual_time"`
	ItemsTotal      int64   `json:"items_total"`
}

// GetKitchenToday 获取后厨当日统计
func (s *StatsService) GetKitchenToday(now time.Time) (*KitchenToday, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	row, err := s.statsRepo.GetKitchenToday(constants.DefaultRestaurantID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	return &KitchenToday{
		Date:            dayStart.Format("2006-01-02"),
		OrdersTotal:     row.OrdersTotal,
		PendingOrders:   row.PendingOrders,
		PreparingOrders: row.PreparingOrders,
		ReadyOrders:     row.ReadyOrders,
		ServedOrders:    row.ServedOrders,
		CancelledOrders: row.CancelledOrders,
		AvgActualTime:   row.AvgActualTime,
		ItemsTotal:      row.ItemsTotal,
	}, nil
}

// RealtimeSnapshot 实时看板快照
type RealtimeSnapshot struct {
	ActiveSessions  int64     `json:"active_sessions"`
	OccupiedTables  int64     `json:"occupied_tables"`
	ActiveOrders    int64     `json:"active_orders"`
	PendingOrders   int64     `json:"pending_orders"`
	PreparingOrders int64     `json:"preparing_orders"`
	ReadyOrders     int64     `json:"ready_orders"`
	Timestamp       time.Time `json:"timestamp"`
}

// GetRealtimeSnapshot 获取实时看板快照
func (s *StatsService) GetRealtimeSnapshot() (*RealtimeSnapshot, error) {
	row, err := s.statsRepo.GetRealtimeSnapshot(constants.DefaultRestaurantID)
	if err != nil {
		return nil, err
	}
	return &RealtimeSnapshot{
		ActiveSessions:  row.ActiveSessions,
		OccupiedTables:  row.OccupiedTables,
		ActiveOrders:    row.ActiveOrders,
		PendingOrders:   row.PendingOrders,
		PreparingOrders: row.PreparingOrders,
		ReadyOrders:     row.ReadyOrders,
		Timestamp:       time.Now(),
	}, nil
}

// Overview 经营总览
type Overview struct {
	StartAt         string  `json:"start_at"`
	EndAt           string  `json:"end_at"`
	SessionsTotal   int64   `json:"sessions_total"`
	SessionsClosed  int64   `json:"sessions_closed"`
	OrdersTotal     int64   `json:"orders_total"`
	OrdersServed    int64   `json:"orders_served"`
	OrdersCancelled int64   `json:"orders_cancelled"`
	RevenueServed   float64 `json:"revenue_served"`
	PaymentsSuccess int64   `json:"payments_success"`
	PaidAmount      float64 `json:"paid_amount"`
	CustomersTotal  int64   `json:"customers_total"`
}

// statsRange 规范统计区间，默认最近 7 天
func statsRange(startAt, endAt time.Time) (time.Time, time.Time) {
	if endAt.IsZero() {
		endAt = time.Now()
	}
	if startAt.IsZero() || !startAt.Before(endAt) {
		startAt = endAt.AddDate(0, 0, -7)
	}
	return startAt, endAt
}

// GetOverview 获取经营总览
func (s *StatsService) GetOverview(startAt, endAt time.Time) (*Overview, error) {
	startAt, endAt = statsRange(startAt, endAt)
	row, err := s.statsRepo.GetOverview(constants.DefaultRestaurantID, startAt, endAt)
	if err != nil {
		return nil, err
	}
	return &Overview{
		StartAt:         startAt.Format("2006-01-02"),
		EndAt:           endAt.Format("2006-01-02"),
		SessionsTotal:   row.SessionsTotal,
		SessionsClosed:  row.SessionsClosed,
		OrdersTotal:     row.OrdersTotal,
		OrdersServed:    row.OrdersServed,
		OrdersCancelled: row.OrdersCancelled,
		RevenueServed:   row.RevenueServed,
		PaymentsSuccess: row.PaymentsSuccess,
		PaidAmount:      row.PaidAmount,
		CustomersTotal:  row.CustomersTotal,
	}, nil
}

// GetOrderTrends 获取按日订单趋势
func (s *StatsService) GetOrderTrends(startAt, endAt time.Time) ([]repository.OrderTrendRow, error) {
	startAt, endAt = statsRange(startAt, endAt)
	return s.statsRepo.GetOrderTrends(constants.DefaultRestaurantID, startAt, endAt)
}

// GetPopularItems 获取热销菜品排行
func (s *StatsService) GetPopularItems(startAt, endAt time.Time, limit int) ([]repository.PopularItemRow, error) {
	startAt, endAt = statsRange(startAt, endAt)
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.statsRepo.GetPopularItems(constants.DefaultRestaurantID, startAt, endAt, limit)
}

// GetCategoryStats 获取分类销售统计
func (s *StatsService) GetCategoryStats(startAt, endAt time.Time) ([]repository.CategoryStatRow, error) {
	startAt, endAt = statsRange(startAt, endAt)
	return s.statsRepo.GetCategoryStats(constants.DefaultRestaurantID, startAt, endAt)
}
