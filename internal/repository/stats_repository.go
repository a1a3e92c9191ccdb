package repository

import (
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// StatsRepository 统计聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type StatsRepository interface {
	GetKitchenToday(restaurantID uint, dayStart, dayEnd time.Time) (KitchenTodayRow, error)
	GetRealtimeSnapshot(restaurantID uint) (RealtimeSnapshotRow, error)
	GetOverview(restaurantID uint, startAt, endAt time.Time) (OverviewRow, error)
	GetOrderTrends(restaurantID uint, startAt, endAt time.Time) ([]OrderTrendRow, error)
	GetPopularItems(restaurantID uint, startAt, endAt time.Time, limit int) ([]PopularItemRow, error)
	GetCategoryStats(restaurantID uint, startAt, endAt time.Time) ([]CategoryStatRow, error)
}

// KitchenTodayRow 后厨当日统计结果
type KitchenTodayRow struct {
	OrdersTotal     int64
	PendingOrders   int64
	PreparingOrders int64
	ReadyOrders     int64
	ServedOrders    int64
	CancelledOrders int64
	AvgActualTime   float64
	ItemsTotal      int64
}

// RealtimeSnapshotRow 实时看板统计结果
type RealtimeSnapshotRow struct {
	ActiveSessions  int64
	OccupiedTables  int64
	ActiveOrders    int64
	PendingOrders   int64
	PreparingOrders int64
	ReadyOrders     int64
}

// OverviewRow 经营总览统计结果
type OverviewRow struct {
	SessionsTotal   int64
	SessionsClosed  int64
	OrdersTotal     int64
	OrdersServed    int64
	OrdersCancelled int64
	RevenueServed   float64
	PaymentsSuccess int64
	PaidAmount      float64
	CustomersTotal  int64
}

// OrderTrendRow 订单按日趋势统计
type OrderTrendRow struct {
	Day          string
	OrdersTotal  int64
	OrdersServed int64
	Revenue      float64
}

// PopularItemRow 热销菜品排行原始行
type PopularItemRow struct {
	MenuItemID uint
	ItemName   string
	Quantity   int64
	Amount     float64
}

// CategoryStatRow 分类销售统计原始行
type CategoryStatRow struct {
	CategoryID   uint
	CategoryName string
	Quantity     int64
	Amount       float64
}

// GormStatsRepository GORM 统计聚合实现
type GormStatsRepository struct {
	db *gorm.DB
}

// NewStatsRepository 创建统计仓库
func NewStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

func activeOrderStatuses() []string {
	return []string{
		constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
	}
}

// GetKitchenToday 后厨当日统计
func (r *GormStatsRepository) GetKitchenToday(restaurantID uint, dayStart, dayEnd time.Time) (KitchenTodayRow, error) {
	var row KitchenTodayRow
	base := r.db.Model(&models.Order{}).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, dayStart, dayEnd)

	err := base.
		Select(
			"COUNT(*) AS orders_total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS preparing_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS ready_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS served_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_orders, "+
				"COALESCE(AVG(CASE WHEN actual_time > 0 THEN actual_time END), 0) AS avg_actual_time, "+
				"COALESCE(SUM(item_count), 0) AS items_total",
			constants.OrderStatusPending,
			constants.OrderStatusPreparing,
			constants.OrderStatusReady,
			constants.OrderStatusServed,
			constants.OrderStatusCancelled,
		).
		Scan(&row).Error
	if err != nil {
		return KitchenTodayRow{}, err
	}
	return row, nil
}

// GetRealtimeSnapshot 实时看板统计
func (r *GormStatsRepository) GetRealtimeSnapshot(restaurantID uint) (RealtimeSnapshotRow, error) {
	var row RealtimeSnapshotRow

	err := r.db.Model(&models.DiningSession{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, constants.SessionStatusActive).
		Count(&row.ActiveSessions).Error
	if err != nil {
		return RealtimeSnapshotRow{}, err
	}

	err = r.db.Model(&models.Table{}).
		Where("restaurant_id = ? AND status = ?", restaurantID, constants.TableStatusOccupied).
		Count(&row.OccupiedTables).Error
	if err != nil {
		return RealtimeSnapshotRow{}, err
	}

	err = r.db.Model(&models.Order{}).
		Where("restaurant_id = ? AND status IN ?", restaurantID, activeOrderStatuses()).
		Count(&row.ActiveOrders).Error
	if err != nil {
		return RealtimeSnapshotRow{}, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	counts := make([]statusCount, 0)
	err = r.db.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("restaurant_id = ? AND status IN ?", restaurantID, activeOrderStatuses()).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return RealtimeSnapshotRow{}, err
	}
	for _, c := range counts {
		switch c.Status {
		case constants.OrderStatusPending:
			row.PendingOrders = c.Count
		case constants.OrderStatusPreparing:
			row.PreparingOrders = c.Count
		case constants.OrderStatusReady:
			row.ReadyOrders = c.Count
		}
	}
	return row, nil
}

// GetOverview 经营总览统计
func (r *GormStatsRepository) GetOverview(restaurantID uint, startAt, endAt time.Time) (OverviewRow, error) {
	var row OverviewRow

	err := r.db.Model(&models.DiningSession{}).
		Select(
			"COUNT(*) AS sessions_total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS sessions_closed, "+
				"COALESCE(SUM(total_customers), 0) AS customers_total",
			constants.SessionStatusClosed,
		).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, startAt, endAt).
		Scan(&row).Error
	if err != nil {
		return OverviewRow{}, err
	}

	var orderRow struct {
		OrdersTotal     int64
		OrdersServed    int64
		OrdersCancelled int64
		RevenueServed   float64
	}
	err = r.db.Model(&models.Order{}).
		Select(
			"COUNT(*) AS orders_total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS orders_served, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS orders_cancelled, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) AS revenue_served",
			constants.OrderStatusServed, constants.OrderStatusCancelled, constants.OrderStatusServed,
		).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, startAt, endAt).
		Scan(&orderRow).Error
	if err != nil {
		return OverviewRow{}, err
	}
	row.OrdersTotal = orderRow.OrdersTotal
	row.OrdersServed = orderRow.OrdersServed
	row.OrdersCancelled = orderRow.OrdersCancelled
	row.RevenueServed = orderRow.RevenueServed

	var paymentRow struct {
		PaymentsSuccess int64
		PaidAmount      float64
	}
	err = r.db.Model(&models.Payment{}).
		Select("COUNT(*) AS payments_success, COALESCE(SUM(amount), 0) AS paid_amount").
		Where("restaurant_id = ? AND status = ? AND created_at >= ? AND created_at < ?",
			restaurantID, constants.PaymentStatusSuccess, startAt, endAt).
		Scan(&paymentRow).Error
	if err != nil {
		return OverviewRow{}, err
	}
	row.PaymentsSuccess = paymentRow.PaymentsSuccess
	row.PaidAmount = paymentRow.PaidAmount
	return row, nil
}

// GetOrderTrends 订单按日趋势
func (r *GormStatsRepository) GetOrderTrends(restaurantID uint, startAt, endAt time.Time) ([]OrderTrendRow, error) {
	dayExpr := dayGroupExpr(r.db, "created_at")
	rows := make([]OrderTrendRow, 0)
	err := r.db.Model(&models.Order{}).
		Select(
			dayExpr+" AS day, "+
				"COUNT(*) AS orders_total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS orders_served, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN total_amount ELSE 0 END), 0) AS revenue",
			constants.OrderStatusServed, constants.OrderStatusServed,
		).
		Where("restaurant_id = ? AND created_at >= ? AND created_at < ?", restaurantID, startAt, endAt).
		Group(dayExpr).
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPopularItems 热销菜品排行（按已上菜订单统计）
func (r *GormStatsRepository) GetPopularItems(restaurantID uint, startAt, endAt time.Time, limit int) ([]PopularItemRow, error) {
	if limit <= 0 {
		limit = 10
	}
	rows := make([]PopularItemRow, 0, limit)
	err := r.db.Model(&models.OrderItem{}).
		Select(
			"order_items.menu_item_id AS menu_item_id, "+
				"order_items.item_name AS item_name, "+
				"COALESCE(SUM(order_items.quantity), 0) AS quantity, "+
				"COALESCE(SUM(order_items.subtotal), 0) AS amount",
		).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ? AND orders.status = ? AND orders.created_at >= ? AND orders.created_at < ?",
			restaurantID, constants.OrderStatusServed, startAt, endAt).
		Group("order_items.menu_item_id, order_items.item_name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetCategoryStats 分类销售统计
func (r *GormStatsRepository) GetCategoryStats(restaurantID uint, startAt, endAt time.Time) ([]CategoryStatRow, error) {
	rows := make([]CategoryStatRow, 0)
	err := r.db.Model(&models.OrderItem{}).
		Select(
			"categories.id AS category_id, "+
				"categories.name AS category_name, "+
				"COALESCE(SUM(order_items.quantity), 0) AS quantity, "+
				"COALESCE(SUM(order_items.subtotal), 0) AS amount",
		).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Joins("JOIN categories ON categories.id = menu_items.category_id").
		Where("orders.restaurant_id = ? AND orders.status = ? AND orders.created_at >= ? AND orders.created_at < ?",
			restaurantID, constants.OrderStatusServed, startAt, endAt).
		Group("categories.id, categories.name").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
