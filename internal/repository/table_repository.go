package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// TableRepository 餐桌数据访问接口
type TableRepository interface {
	Create(table *models.Table) error
	GetByID(id uint) (*models.Table, error)
	GetByQRCode(qrCode string) (*models.Table, error)
	GetByTableNumber(restaurantID uint, tableNumber string) (*models.Table, error)
	List(filter TableListFilter) ([]models.Table, int64, error)
	Update(table *models.Table) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormTableRepository
}

// GormTableRepository GORM 实现
type GormTableRepository struct {
	db *gorm.DB
}

// NewTableRepository 创建餐桌仓库
func NewTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTableRepository) WithTx(tx *gorm.DB) *GormTableRepository {
	if tx == nil {
		return r
	}
	return &GormTableRepository{db: tx}
}

// Create 创建餐桌
func (r *GormTableRepository) Create(table *models.Table) error {
	return r.db.Create(table).Error
}

// GetByID 根据 ID 获取餐桌
func (r *GormTableRepository) GetByID(id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

// GetByQRCode 根据二维码标识获取餐桌
func (r *GormTableRepository) GetByQRCode(qrCode string) (*models.Table, error) {
	var table models.Table
	if err := r.db.Where("qr_code = ?", qrCode).First(&table).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

// GetByTableNumber 根据桌号获取餐桌（用于唯一性校验）
func (r *GormTableRepository) GetByTableNumber(restaurantID uint, tableNumber string) (*models.Table, error) {
	var table models.Table
	err := r.db.Where("restaurant_id = ? AND table_number = ?", restaurantID, tableNumber).First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &table, nil
}

// List 查询餐桌列表
func (r *GormTableRepository) List(filter TableListFilter) ([]models.Table, int64, error) {
	query := r.db.Model(&models.Table{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TableType != "" {
		query = query.Where("table_type = ?", filter.TableType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tables := make([]models.Table, 0)
	err := applyPagination(query.Order("table_number ASC"), filter.Page, filter.PageSize).Find(&tables).Error
	if err != nil {
		return nil, 0, err
	}
	return tables, total, nil
}

// Update 保存餐桌
func (r *GormTableRepository) Update(table *models.Table) error {
	return r.db.Save(table).Error
}

// UpdateFields 更新餐桌部分字段
func (r *GormTableRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Table{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除餐桌（软删除）
func (r *GormTableRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Table{}, id).Error
}
