package models

import (
	"time"
)

// PrintJob 云打印任务表
type PrintJob struct {
	ID           uint       `gorm:"primarykey" json:"id"`                               // 主键
	RestaurantID uint       `gorm:"index;not null" json:"restaurant_id"`                // 所属餐厅ID
	OrderID      string     `gorm:"index;type:varchar(64)" json:"order_id,omitempty"`   // 关联订单ID
	JobType      string     `gorm:"not null;default:'receipt'" json:"job_type"`         // 任务类型 receipt/test
	Content      string     `gorm:"type:text;not null" json:"content"`                  // 打印内容（ESC 指令文本）
	PrinterSN    string     `gorm:"type:varchar(64)" json:"printer_sn"`                 // 打印机编号
	Status       string     `gorm:"index;not null;default:'pending'" json:"status"`     // 状态 pending/success/failed
	ExternalID   string     `gorm:"type:varchar(128)" json:"external_id,omitempty"`     // 云平台返回的任务ID
	RetryCount   int        `gorm:"not null;default:0" json:"retry_count"`              // 重试次数
	LastError    string     `gorm:"type:varchar(500)" json:"last_error,omitempty"`      // 最后一次失败原因
	SentAt       *time.Time `json:"sent_at,omitempty"`                                  // 发送成功时间
	CreatedAt    time.Time  `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt    time.Time  `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (PrintJob) TableName() string {
	return "print_jobs"
}
