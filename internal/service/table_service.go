package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"
	"github.com/paobai-next/internal/repository"
)

// TableService 餐桌服务
type TableService struct {
	tableRepo   repository.TableRepository
	sessionRepo repository.SessionRepository
}

// NewTableService 创建餐桌服务
func NewTableService(tableRepo repository.TableRepository, sessionRepo repository.SessionRepository) *TableService {
	return &TableService{
		tableRepo:   tableRepo,
		sessionRepo: sessionRepo,
	}
}

// GetByQRCode 扫码定位餐桌
func (s *TableService) GetByQRCode(qrCode string) (*models.Table, error) {
	table, err := s.tableRepo.GetByQRCode(strings.TrimSpace(qrCode))
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// GetTable 获取餐桌详情
func (s *TableService) GetTable(id uint) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	return table, nil
}

// List 查询餐桌列表
func (s *TableService) List(filter repository.TableListFilter) ([]models.Table, int64, error) {
	filter.RestaurantID = constants.DefaultRestaurantID
	return s.tableRepo.List(filter)
}

// CreateTableInput 创建餐桌输入
type CreateTableInput struct {
	TableNumber string
	TableName   string
	Capacity    int
	TableType   string
	Location    string
}

// CreateTable 创建餐桌，桌号唯一，二维码标识自动生成
func (s *TableService) CreateTable(input CreateTableInput) (*models.Table, error) {
	tableNumber := strings.TrimSpace(input.TableNumber)
	existing, err := s.tableRepo.GetByTableNumber(constants.DefaultRestaurantID, tableNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrTableNumberExists
	}

	capacity := input.Capacity
	if capacity <= 0 {
		capacity = 4
	}
	tableType := strings.TrimSpace(input.TableType)
	if tableType == "" {
		tableType = constants.TableTypeNormal
	}
	table := &models.Table{
		RestaurantID: constants.DefaultRestaurantID,
		TableNumber:  tableNumber,
		Name:         strings.TrimSpace(input.TableName),
		Capacity:     capacity,
		TableType:    tableType,
		Status:       constants.TableStatusAvailable,
		QRCode:       "QR" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
		Location:     strings.TrimSpace(input.Location),
	}
	if err := s.tableRepo.Create(table); err != nil {
		return nil, err
	}
	return table, nil
}

// UpdateTable 更新餐桌部分字段
func (s *TableService) UpdateTable(id uint, updates map[string]interface{}) (*models.Table, error) {
	table, err := s.tableRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, ErrTableNotFound
	}
	if tableNumber, ok := updates["table_number"].(string); ok {
		tableNumber = strings.TrimSpace(tableNumber)
		if tableNumber != table.TableNumber {
			existing, err := s.tableRepo.GetByTableNumber(constants.DefaultRestaurantID, tableNumber)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, ErrTableNumberExists
			}
		}
		updates["table_number"] = tableNumber
	}
	if err := s.tableRepo.UpdateFields(id, updates); err != nil {
		return nil, err
	}
	return s.tableRepo.GetByID(id)
}

// DeleteTable 删除餐桌，有进行中会话时拒绝
func (s *TableService) DeleteTable(id uint) error {
	table, err := s.tableRepo.GetByID(id)
	if err != nil {
		return err
	}
	if table == nil {
		return ErrTableNotFound
	}
	session, err := s.sessionRepo.GetActiveByTableID(id)
	if err != nil {
		return err
	}
	if session != nil {
		return ErrTableInUse
	}
	return s.tableRepo.Delete(id)
}
