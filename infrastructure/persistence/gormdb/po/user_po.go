package po

import (
	"time"

	"ordercore/domain/user"
)

// UserPO User persistence object
type UserPO struct {
	UserID    string    `gorm:"column:user_id;primaryKey;size:64"`
	Email     string    `gorm:"column:email;size:255;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserPO) TableName() string {
	return "users"
}

// UserUpdateColumns columns overwritten on upsert
var UserUpdateColumns = []string{"email", "updated_at"}

func FromUserDomain(u *user.User) *UserPO {
	return &UserPO{
		UserID: u.UserID,
		Email:  u.Email,
	}
}

func (p *UserPO) ToDomain() *user.User {
	return &user.User{
		UserID: p.UserID,
		Email:  p.Email,
	}
}
