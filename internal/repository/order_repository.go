package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id string) (*models.Order, error)
	GetByOrderNo(orderNo string) (*models.Order, error)
	ListBySession(sessionID string, status string) ([]models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateFields(id string, updates map[string]interface{}) error
	GetItemByID(itemID uint) (*models.OrderItem, error)
	ListItems(orderID string) ([]models.OrderItem, error)
	UpdateItemFields(itemID uint, updates map[string]interface{}) error
	UpdateItemsStatusByOrder(orderID string, fromStatuses []string, status string) error
	SumSessionAmount(sessionID string, statuses []string) (models.Money, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
		items[i].SessionID = order.SessionID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetByID 根据 ID 获取订单（含订单项）
func (r *GormOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByOrderNo 根据订单编号获取订单
func (r *GormOrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// ListBySession 查询会话内订单（可按状态过滤）
func (r *GormOrderRepository) ListBySession(sessionID string, status string) ([]models.Order, error) {
	query := r.db.Preload("Items").Where("session_id = ?", sessionID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	orders := make([]models.Order, 0)
	if err := query.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// List 查询订单列表
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.TableID > 0 {
		query = query.Where("table_id = ?", filter.TableID)
	}
	if filter.OrderNo != "" {
		query = query.Where("order_no = ?", filter.OrderNo)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DinerOpenID != "" {
		query = query.Where("diner_openid = ?", filter.DinerOpenID)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithItems {
		query = query.Preload("Items")
	}
	orders := make([]models.Order, 0)
	err := applyPagination(query.Order("priority DESC, created_at ASC"), filter.Page, filter.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateFields 更新订单部分字段
func (r *GormOrderRepository) UpdateFields(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// GetItemByID 根据 ID 获取订单项
func (r *GormOrderRepository) GetItemByID(itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// ListItems 获取订单项列表
func (r *GormOrderRepository) ListItems(orderID string) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0)
	err := r.db.Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItemFields 更新订单项部分字段
func (r *GormOrderRepository) UpdateItemFields(itemID uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.OrderItem{}).Where("id = ?", itemID).Updates(updates).Error
}

// UpdateItemsStatusByOrder 批量更新订单下处于指定状态的订单项
func (r *GormOrderRepository) UpdateItemsStatusByOrder(orderID string, fromStatuses []string, status string) error {
	query := r.db.Model(&models.OrderItem{}).Where("order_id = ?", orderID)
	if len(fromStatuses) > 0 {
		query = query.Where("status IN ?", fromStatuses)
	}
	return query.Update("status", status).Error
}

// SumSessionAmount 统计会话内指定状态订单的金额之和
func (r *GormOrderRepository) SumSessionAmount(sessionID string, statuses []string) (models.Money, error) {
	var row struct {
		Total models.Money
	}
	query := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) AS total").
		Where("session_id = ?", sessionID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Scan(&row).Error; err != nil {
		return models.ZeroMoney(), err
	}
	return row.Total, nil
}
