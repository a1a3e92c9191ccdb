package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// PrintJobRepository 打印任务数据访问接口
type PrintJobRepository interface {
	Create(job *models.PrintJob) error
	GetByID(id uint) (*models.PrintJob, error)
	List(filter PrintJobListFilter) ([]models.PrintJob, int64, error)
	UpdateFields(id uint, updates map[string]interface{}) error
}

// GormPrintJobRepository GORM 实现
type GormPrintJobRepository struct {
	db *gorm.DB
}

// NewPrintJobRepository 创建打印任务仓库
func NewPrintJobRepository(db *gorm.DB) *GormPrintJobRepository {
	return &GormPrintJobRepository{db: db}
}

// Create 创建打印任务
func (r *GormPrintJobRepository) Create(job *models.PrintJob) error {
	return r.db.Create(job).Error
}

// GetByID 根据 ID 获取打印任务
func (r *GormPrintJobRepository) GetByID(id uint) (*models.PrintJob, error) {
	var job models.PrintJob
	if err := r.db.First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// List 查询打印任务列表
func (r *GormPrintJobRepository) List(filter PrintJobListFilter) ([]models.PrintJob, int64, error) {
	query := r.db.Model(&models.PrintJob{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	jobs := make([]models.PrintJob, 0)
	err := applyPagination(query.Order("created_at DESC"), filter.Page, filter.PageSize).Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// UpdateFields 更新打印任务部分字段
func (r *GormPrintJobRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.PrintJob{}).Where("id = ?", id).Updates(updates).Error
}
