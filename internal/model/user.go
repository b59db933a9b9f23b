package model

// ==================== 用户状态常量 ====================

const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"

	// 系统级角色: admin (管理员), host (场主)
	RoleAdmin = "admin"
	RoleHost  = "host"
)

// HostUser 场主账号
type HostUser struct {
	BaseModel
	Username string `gorm:"size:100;uniqueIndex;not null"`
	Password string `gorm:"size:255;not null"` // 哈希密码
	Email    string `gorm:"size:100"`

	Role   string `gorm:"size:20;default:'host'"`
	Status string `gorm:"size:20;default:'active'"`
}

func (HostUser) TableName() string {
	return "host_users"
}
