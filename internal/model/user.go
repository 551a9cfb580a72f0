package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Admin   UserRole = "admin"
)

// User 平台用户。admin 使用用户名+密码登录，student 使用邮箱/Google 身份登录，
// 两类身份字段按约定互斥，不做 discriminator 约束。
// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;index" json:"email"`
	Username  string    `gorm:"size:100;index" json:"username,omitempty"`
	Password  string    `gorm:"size:100" json:"-"`
	GoogleID  string    `gorm:"size:100;index" json:"-"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Role      UserRole  `gorm:"type:enum('student','admin');default:'student'" json:"role"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
