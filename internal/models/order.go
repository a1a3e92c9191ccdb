package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（一次下单为一张订单）
type Order struct {
	ID              string         `gorm:"primarykey;type:varchar(64)" json:"id"`                        // 订单ID（O 前缀）
	OrderNo         string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 订单编号（PO+时间+随机）
	RestaurantID    uint           `gorm:"index;not null" json:"restaurant_id"`                          // 所属餐厅ID
	SessionID       string         `gorm:"index;not null;type:varchar(64)" json:"session_id"`            // 就餐会话ID
	TableID         uint           `gorm:"index;not null" json:"table_id"`                               // 餐桌ID
	DinerOpenID     string         `gorm:"column:diner_openid;index;not null;type:varchar(128)" json:"diner_openid"` // 下单成员 openid
	DinerNickname   string         `gorm:"type:varchar(100)" json:"diner_nickname"`                      // 下单成员昵称
	Status          string         `gorm:"index;not null;default:'pending'" json:"status"`               // 订单状态
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 订单金额（= 订单项小计之和）
	ItemCount       int            `gorm:"not null;default:0" json:"item_count"`                         // 菜品件数
	Priority        int            `gorm:"not null;default:0;index" json:"priority"`                     // 出餐优先级（越大越优先）
	SpecialRequests string         `gorm:"type:varchar(500)" json:"special_requests,omitempty"`          // 整单备注
	CancelReason    string         `gorm:"type:varchar(200)" json:"cancel_reason,omitempty"`             // 取消原因
	ActualTime      int            `gorm:"default:0" json:"actual_time"`                                 // 实际出餐用时（分钟）
	ConfirmedAt     *time.Time     `gorm:"index" json:"confirmed_at,omitempty"`                          // 接单时间
	CompletedAt     *time.Time     `gorm:"index" json:"completed_at,omitempty"`                          // 出餐/上菜完成时间
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
