package models

import (
	"time"
)

// AASplitDetail AA 分账明细表（每位成员一条）
type AASplitDetail struct {
	ID             uint       `gorm:"primarykey" json:"id"`                                          // 主键
	PaymentID      string     `gorm:"index;not null;type:varchar(64)" json:"payment_id"`             // 所属支付ID
	SessionID      string     `gorm:"index;not null;type:varchar(64)" json:"session_id"`             // 就餐会话ID
	DinerOpenID    string     `gorm:"column:diner_openid;index;not null;type:varchar(128)" json:"diner_openid"` // 成员 openid
	DinerNickname  string     `gorm:"type:varchar(100)" json:"diner_nickname"`                       // 成员昵称
	OrderItems     JSON       `gorm:"type:json" json:"order_items,omitempty"`                        // 该成员分摊的菜品明细
	OriginalAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"original_amount"`  // 分摊原始金额
	SplitAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"split_amount"`     // 分摊金额
	DiscountAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"discount_amount"`  // 优惠金额
	FinalAmount    Money      `gorm:"type:decimal(20,2);not null;default:0" json:"final_amount"`     // 应付金额
	Status         string     `gorm:"index;not null;default:'pending'" json:"status"`                // 状态 pending/success/failed
	PaidAt         *time.Time `json:"paid_at,omitempty"`                                             // 支付时间
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt      time.Time  `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (AASplitDetail) TableName() string {
	return "aa_split_details"
}
