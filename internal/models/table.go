package models

import (
	"time"

	"gorm.io/gorm"
)

// Table 餐桌表
type Table struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                          // 主键
	RestaurantID     uint           `gorm:"index;not null" json:"restaurant_id"`                           // 所属餐厅ID
	TableNumber      string         `gorm:"uniqueIndex;not null" json:"table_number"`                      // 桌号（如 A01）
	Name             string         `gorm:"column:table_name;type:varchar(100)" json:"table_name"`         // 桌台名称
	Capacity         int            `gorm:"not null;default:4" json:"capacity"`                            // 可容纳人数
	TableType        string         `gorm:"not null;default:'normal'" json:"table_type"`                   // 桌型 normal/vip/private
	Status           string         `gorm:"index;not null;default:'available'" json:"status"`              // 状态 available/occupied/reserved/cleaning
	QRCode           string         `gorm:"uniqueIndex;not null" json:"qr_code"`                           // 扫码入座的二维码标识
	CurrentSessionID *string        `gorm:"index;type:varchar(64)" json:"current_session_id,omitempty"`    // 当前就餐会话ID（仅占用时非空）
	Location         string         `gorm:"type:varchar(100)" json:"location,omitempty"`                   // 位置描述
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt        time.Time      `json:"updated_at"`                                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                                // 软删除时间
}

// TableName 指定表名
func (Table) TableName() string {
	return "tables"
}
