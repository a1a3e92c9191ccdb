package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// MenuItemRepository 菜品数据访问接口
type MenuItemRepository interface {
	Create(item *models.MenuItem) error
	GetByID(id uint) (*models.MenuItem, error)
	GetAvailableByIDs(restaurantID uint, ids []uint) ([]models.MenuItem, error)
	List(filter MenuItemListFilter) ([]models.MenuItem, int64, error)
	Update(item *models.MenuItem) error
	UpdateFields(id uint, updates map[string]interface{}) error
	IncrSalesCount(id uint, delta int) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormMenuItemRepository
}

// GormMenuItemRepository GORM 实现
type GormMenuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository 创建菜品仓库
func NewMenuItemRepository(db *gorm.DB) *GormMenuItemRepository {
	return &GormMenuItemRepository{db: db}
}

// WithTx 绑定事务
func (r *GormMenuItemRepository) WithTx(tx *gorm.DB) *GormMenuItemRepository {
	if tx == nil {
		return r
	}
	return &GormMenuItemRepository{db: tx}
}

// Create 创建菜品
func (r *GormMenuItemRepository) Create(item *models.MenuItem) error {
	return r.db.Create(item).Error
}

// GetByID 根据 ID 获取菜品
func (r *GormMenuItemRepository) GetByID(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.Preload("Category").First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// GetAvailableByIDs 批量获取餐厅内可点的菜品（用于下单校验）
func (r *GormMenuItemRepository) GetAvailableByIDs(restaurantID uint, ids []uint) ([]models.MenuItem, error) {
	items := make([]models.MenuItem, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.
		Where("restaurant_id = ? AND id IN ? AND is_available = ?", restaurantID, ids, true).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// List 查询菜品列表
func (r *GormMenuItemRepository) List(filter MenuItemListFilter) ([]models.MenuItem, int64, error) {
	query := r.db.Model(&models.MenuItem{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.WithCategory {
		query = query.Preload("Category")
	}
	items := make([]models.MenuItem, 0)
	err := applyPagination(query.Order("sort_order ASC, id ASC"), filter.Page, filter.PageSize).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update 保存菜品
func (r *GormMenuItemRepository) Update(item *models.MenuItem) error {
	return r.db.Save(item).Error
}

// UpdateFields 更新菜品部分字段
func (r *GormMenuItemRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates).Error
}

// IncrSalesCount 累加菜品销量
func (r *GormMenuItemRepository) IncrSalesCount(id uint, delta int) error {
	if delta == 0 {
		return nil
	}
	return r.db.Model(&models.MenuItem{}).
		Where("id = ?", id).
		UpdateColumn("sales_count", gorm.Expr("sales_count + ?", delta)).Error
}

// Delete 删除菜品（软删除）
func (r *GormMenuItemRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.MenuItem{}, id).Error
}
