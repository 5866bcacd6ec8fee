package model

import "time"

type UserRole string

const (
	RoleResearcher UserRole = "researcher"
	RoleModerator  UserRole = "moderator"
	RoleAdmin      UserRole = "admin"
)

// User is managed by the external account service; this service only reads
// the role to derive feedback weights.
type User struct {
	ID       uint     `gorm:"primarykey" json:"id"`
	Username string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email    string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role     UserRole `gorm:"type:varchar(20);default:researcher;not null" json:"role"`
	IsActive bool     `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}
