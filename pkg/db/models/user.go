package models

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

// User is an account holder. Password fields are owned by the identity
// provider and never read here.
type User struct {
	ID        string         `gorm:"column:id;primaryKey"`
	Email     string         `gorm:"column:email;uniqueIndex;not null"`
	Phone     *string        `gorm:"column:phone"`
	Role      enums.UserRole `gorm:"column:role;not null;default:'msme'"`
	Name      *string        `gorm:"column:name"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
