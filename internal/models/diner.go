package models

import (
	"time"
)

// Diner 就餐成员表（同一会话内 openid 唯一）
type Diner struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                       // 主键
	SessionID    string    `gorm:"index:idx_session_openid,unique;not null;type:varchar(64)" json:"session_id"` // 就餐会话ID
	OpenID       string    `gorm:"column:openid;index:idx_session_openid,unique;not null;type:varchar(128)" json:"openid"` // 微信 openid
	Nickname     string    `gorm:"type:varchar(100)" json:"nickname"`                                          // 昵称
	AvatarURL    string    `gorm:"type:varchar(500)" json:"avatar_url,omitempty"`                              // 头像
	IsLeader     bool      `gorm:"not null;default:false" json:"is_leader"`                                    // 是否发起人
	JoinedAt     time.Time `gorm:"index" json:"joined_at"`                                                     // 加入时间
	LastActiveAt time.Time `json:"last_active_at"`                                                             // 最后活跃时间
	CreatedAt    time.Time `json:"created_at"`                                                                 // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                                 // 更新时间
}

// TableName 指定表名
func (Diner) TableName() string {
	return "diners"
}
