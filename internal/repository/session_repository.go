package repository

import (
	"errors"
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// SessionRepository 就餐会话数据访问接口
type SessionRepository interface {
	Create(session *models.DiningSession) error
	GetByID(id string) (*models.DiningSession, error)
	GetDetail(id string) (*models.DiningSession, error)
	GetActiveByTableID(tableID uint) (*models.DiningSession, error)
	List(filter SessionListFilter) ([]models.DiningSession, int64, error)
	UpdateFields(id string, updates map[string]interface{}) error
	CreateDiner(diner *models.Diner) error
	GetDiner(sessionID, openid string) (*models.Diner, error)
	ListDiners(sessionID string) ([]models.Diner, error)
	CountDiners(sessionID string) (int64, error)
	TouchDiner(sessionID, openid string, at time.Time) error
	WithTx(tx *gorm.DB) *GormSessionRepository
}

// GormSessionRepository GORM 实现
type GormSessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository 创建就餐会话仓库
func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSessionRepository) WithTx(tx *gorm.DB) *GormSessionRepository {
	if tx == nil {
		return r
	}
	return &GormSessionRepository{db: tx}
}

// Create 创建会话
func (r *GormSessionRepository) Create(session *models.DiningSession) error {
	return r.db.Create(session).Error
}

// GetByID 根据 ID 获取会话
func (r *GormSessionRepository) GetByID(id string) (*models.DiningSession, error) {
	var session models.DiningSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetDetail 获取会话详情（含餐桌、成员与订单）
func (r *GormSessionRepository) GetDetail(id string) (*models.DiningSession, error) {
	var session models.DiningSession
	err := r.db.
		Preload("Table").
		Preload("Diners").
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Orders.Items").
		Where("id = ?", id).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// GetActiveByTableID 获取餐桌上进行中的会话
func (r *GormSessionRepository) GetActiveByTableID(tableID uint) (*models.DiningSession, error) {
	var session models.DiningSession
	err := r.db.Where("table_id = ? AND status = ?", tableID, constants.SessionStatusActive).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// List 查询会话列表
func (r *GormSessionRepository) List(filter SessionListFilter) ([]models.DiningSession, int64, error) {
	query := r.db.Model(&models.DiningSession{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.TableID > 0 {
		query = query.Where("table_id = ?", filter.TableID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
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

	sessions := make([]models.DiningSession, 0)
	err := applyPagination(query.Preload("Table").Order("created_at DESC"), filter.Page, filter.PageSize).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// UpdateFields 更新会话部分字段
func (r *GormSessionRepository) UpdateFields(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.DiningSession{}).Where("id = ?", id).Updates(updates).Error
}

// CreateDiner 添加就餐成员
func (r *GormSessionRepository) CreateDiner(diner *models.Diner) error {
	return r.db.Create(diner).Error
}

// GetDiner 获取会话内指定成员
func (r *GormSessionRepository) GetDiner(sessionID, openid string) (*models.Diner, error) {
	var diner models.Diner
	err := r.db.Where("session_id = ? AND openid = ?", sessionID, openid).First(&diner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &diner, nil
}

// ListDiners 获取会话成员列表
func (r *GormSessionRepository) ListDiners(sessionID string) ([]models.Diner, error) {
	diners := make([]models.Diner, 0)
	err := r.db.Where("session_id = ?", sessionID).Order("joined_at ASC").Find(&diners).Error
	if err != nil {
		return nil, err
	}
	return diners, nil
}

// CountDiners 统计会话成员数量
func (r *GormSessionRepository) CountDiners(sessionID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Diner{}).Where("session_id = ?", sessionID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// TouchDiner 刷新成员最后活跃时间
func (r *GormSessionRepository) TouchDiner(sessionID, openid string, at time.Time) error {
	return r.db.Model(&models.Diner{}).
		Where("session_id = ? AND openid = ?", sessionID, openid).
		Update("last_active_at", at).Error
}
