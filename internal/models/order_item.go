package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（名称与单价为下单时快照）
type OrderItem struct {
	ID                  uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID             string         `gorm:"index;not null;type:varchar(64)" json:"order_id"`           // 订单ID
	SessionID           string         `gorm:"index;not null;type:varchar(64)" json:"session_id"`         // 就餐会话ID（冗余，便于按会话统计）
	MenuItemID          uint           `gorm:"index;not null" json:"menu_item_id"`                        // 菜品ID
	ItemName            string         `gorm:"not null" json:"item_name"`                                 // 菜品名称快照
	ItemPrice           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"item_price"`   // 单价快照
	Quantity            int            `gorm:"not null;default:1" json:"quantity"`                        // 数量
	Subtotal            Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`     // 小计（单价×数量）
	SpecialInstructions string         `gorm:"type:varchar(500)" json:"special_instructions,omitempty"`   // 单品备注（忌口等）
	Status              string         `gorm:"index;not null;default:'pending'" json:"status"`            // 菜品状态（与订单状态同一词表）
	DinerOpenID         string         `gorm:"index;type:varchar(128)" json:"diner_openid"`               // 点餐成员 openid
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt           time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
