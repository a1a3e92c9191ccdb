package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository 菜品分类数据访问接口
type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id uint) (*models.Category, error)
	List(restaurantID uint, onlyActive bool) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id uint) error
}

// GormCategoryRepository GORM 实现
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create 创建分类
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// GetByID 根据 ID 获取分类
func (r *GormCategoryRepository) GetByID(id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

// List 查询分类列表（按排序权重）
func (r *GormCategoryRepository) List(restaurantID uint, onlyActive bool) ([]models.Category, error) {
	query := r.db.Model(&models.Category{})
	if restaurantID > 0 {
		query = query.Where("restaurant_id = ?", restaurantID)
	}
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	categories := make([]models.Category, 0)
	if err := query.Order("sort_order ASC, id ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Update 保存分类
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// Delete 删除分类（软删除）
func (r *GormCategoryRepository) Delete(id uint) error {
	if id == 0 {
		return nil
	}
	return r.db.Delete(&models.Category{}, id).Error
}
