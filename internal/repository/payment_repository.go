package repository

import (
	"errors"

	"github.com/paobai-next/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository 支付记录数据访问接口
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	GetByTransactionID(transactionID string) (*models.Payment, error)
	ListBySession(sessionID string) ([]models.Payment, error)
	List(filter PaymentListFilter) ([]models.Payment, int64, error)
	UpdateFields(id string, updates map[string]interface{}) error
	SumSessionPaid(sessionID string, statuses []string) (models.Money, error)
	CreateSplitDetails(details []models.AASplitDetail) error
	ListSplitDetails(paymentID string) ([]models.AASplitDetail, error)
	UpdateSplitDetailFields(id uint, updates map[string]interface{}) error
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository GORM 实现
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建支付仓库
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx 绑定事务
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create 创建支付记录
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// GetByID 根据 ID 获取支付记录
func (r *GormPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.Where("id = ?", id).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// GetByTransactionID 根据渠道交易号获取支付记录
func (r *GormPaymentRepository) GetByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("transaction_id = ?", transactionID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

// ListBySession 获取会话内支付记录
func (r *GormPaymentRepository) ListBySession(sessionID string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	err := r.db.Where("session_id = ?", sessionID).Order("created_at ASC").Find(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

// List 查询支付列表
func (r *GormPaymentRepository) List(filter PaymentListFilter) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{})
	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.SessionID != "" {
		query = query.Where("session_id = ?", filter.SessionID)
	}
	if filter.DinerOpenID != "" {
		query = query.Where("diner_openid = ?", filter.DinerOpenID)
	}
	if filter.Method != "" {
		query = query.Where("method = ?", filter.Method)
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

	payments := make([]models.Payment, 0)
	err := applyPagination(query.Order("created_at DESC"), filter.Page, filter.PageSize).Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

// UpdateFields 更新支付记录部分字段
func (r *GormPaymentRepository) UpdateFields(id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
}

// SumSessionPaid 统计会话内指定状态支付金额之和
func (r *GormPaymentRepository) SumSessionPaid(sessionID string, statuses []string) (models.Money, error) {
	var row struct {
		Total models.Money
	}
	query := r.db.Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("session_id = ?", sessionID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if err := query.Scan(&row).Error; err != nil {
		return models.ZeroMoney(), err
	}
	return row.Total, nil
}

// CreateSplitDetails 批量创建 AA 分账明细
func (r *GormPaymentRepository) CreateSplitDetails(details []models.AASplitDetail) error {
	if len(details) == 0 {
		return nil
	}
	return r.db.Create(&details).Error
}

// ListSplitDetails 获取支付的 AA 分账明细
func (r *GormPaymentRepository) ListSplitDetails(paymentID string) ([]models.AASplitDetail, error) {
	details := make([]models.AASplitDetail, 0)
	err := r.db.Where("payment_id = ?", paymentID).Order("id ASC").Find(&details).Error
	if err != nil {
		return nil, err
	}
	return details, nil
}

// UpdateSplitDetailFields 更新分账明细部分字段
func (r *GormPaymentRepository) UpdateSplitDetailFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.AASplitDetail{}).Where("id = ?", id).Updates(updates).Error
}
