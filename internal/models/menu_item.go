package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem 菜品表
type MenuItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                      // 主键
	RestaurantID    uint           `gorm:"index;not null" json:"restaurant_id"`                       // 所属餐厅ID
	CategoryID      uint           `gorm:"index;not null" json:"category_id"`                         // 分类ID
	Name            string         `gorm:"not null" json:"name"`                                      // 菜品名称
	Description     string         `gorm:"type:text" json:"description,omitempty"`                    // 菜品描述
	Price           Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`       // 售价
	OriginalPrice   Money          `gorm:"type:decimal(20,2);not null;default:0" json:"original_price"` // 原价（划线价）
	ImageURL        string         `gorm:"type:varchar(500)" json:"image_url,omitempty"`              // 菜品图片
	Tags            StringArray    `gorm:"type:json" json:"tags,omitempty"`                           // 标签（辣、招牌等）
	IsAvailable     bool           `gorm:"not null;default:true;index" json:"is_available"`           // 是否可点
	IsRecommended   bool           `gorm:"not null;default:false" json:"is_recommended"`              // 是否推荐
	SortOrder       int            `gorm:"default:0;index" json:"sort_order"`                         // 排序权重
	PreparationTime int            `gorm:"default:0" json:"preparation_time"`                         // 预计制作时长（分钟）
	SalesCount      int            `gorm:"default:0" json:"sales_count"`                              // 累计销量
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 所属分类
}

// TableName 指定表名
func (MenuItem) TableName() string {
	return "menu_items"
}
