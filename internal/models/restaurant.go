package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant 餐厅表
type Restaurant struct {
	ID           uint           `gorm:"primarykey" json:"id"`                     // 主键
	Name         string         `gorm:"not null" json:"name"`                     // 餐厅名称
	Description  string         `gorm:"type:text" json:"description,omitempty"`   // 餐厅简介
	Address      string         `gorm:"type:varchar(500)" json:"address"`         // 地址
	Phone        string         `gorm:"type:varchar(32)" json:"phone"`            // 联系电话
	LogoURL      string         `gorm:"type:varchar(500)" json:"logo_url"`        // 门店 Logo
	BusinessHour string         `gorm:"type:varchar(100)" json:"business_hour"`   // 营业时间描述
	Status       string         `gorm:"not null;default:'open'" json:"status"`    // 营业状态 open/closed
	Settings     JSON           `gorm:"type:json" json:"settings,omitempty"`      // 扩展配置（打印、通知等）
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                  // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                               // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                           // 软删除时间
}

// TableName 指定表名
func (Restaurant) TableName() string {
	return "restaurants"
}
