package models

import (
	"time"

	"gorm.io/gorm"
)

// DiningSession 就餐会话表（一桌一次就餐）
type DiningSession struct {
	ID             string         `gorm:"primarykey;type:varchar(64)" json:"id"`                          // 会话ID（SS 前缀）
	RestaurantID   uint           `gorm:"index;not null" json:"restaurant_id"`                            // 所属餐厅ID
	TableID        uint           `gorm:"index;not null" json:"table_id"`                                 // 餐桌ID
	LeaderOpenID   string         `gorm:"column:leader_openid;index;not null;type:varchar(128)" json:"leader_openid"` // 发起人 openid
	LeaderNickname string         `gorm:"type:varchar(100)" json:"leader_nickname"`                       // 发起人昵称
	TotalCustomers int            `gorm:"not null;default:1" json:"total_customers"`                      // 就餐人数
	Status         string         `gorm:"index;not null;default:'active'" json:"status"`                  // 状态 active/closed
	Subtotal       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`          // 已上菜金额小计
	DiscountAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`   // 优惠金额
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`      // 应付金额
	PaidAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"paid_amount"`       // 已付金额
	StartedAt      time.Time      `gorm:"index" json:"started_at"`                                        // 开台时间
	ClosedAt       *time.Time     `gorm:"index" json:"closed_at,omitempty"`                               // 结束时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                        // 创建时间
	UpdatedAt      time.Time      `json:"updated_at"`                                                     // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                                 // 软删除时间

	Table  *Table  `gorm:"foreignKey:TableID" json:"table,omitempty"`     // 餐桌
	Diners []Diner `gorm:"foreignKey:SessionID" json:"diners,omitempty"`  // 就餐成员
	Orders []Order `gorm:"foreignKey:SessionID" json:"orders,omitempty"`  // 会话订单
}

// TableName 指定表名
func (DiningSession) TableName() string {
	return "dining_sessions"
}
