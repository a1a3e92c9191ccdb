package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录表
type Payment struct {
	ID            string         `gorm:"primarykey;type:varchar(64)" json:"id"`                     // 支付ID（P 前缀）
	RestaurantID  uint           `gorm:"index;not null" json:"restaurant_id"`                       // 所属餐厅ID
	SessionID     string         `gorm:"index;not null;type:varchar(64)" json:"session_id"`         // 就餐会话ID
	DinerOpenID   string         `gorm:"column:diner_openid;index;type:varchar(128)" json:"diner_openid"` // 付款人 openid
	OrderIDs      StringArray    `gorm:"type:json" json:"order_ids,omitempty"`                      // 覆盖的订单ID列表
	Method        string         `gorm:"index;not null" json:"method"`                              // 支付方式 wechat/alipay/cash/split_aa
	Amount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`       // 支付金额
	TransactionID string         `gorm:"index;type:varchar(128)" json:"transaction_id,omitempty"`   // 渠道交易号（TX 前缀或渠道返回）
	Status        string         `gorm:"index;not null;default:'pending'" json:"status"`            // 状态 pending/processing/success/failed/refunded
	FailReason    string         `gorm:"type:varchar(200)" json:"fail_reason,omitempty"`            // 失败原因
	Remark        string         `gorm:"type:varchar(200)" json:"remark,omitempty"`                 // 备注
	PaymentTime   *time.Time     `gorm:"index" json:"payment_time,omitempty"`                       // 支付成功时间
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
