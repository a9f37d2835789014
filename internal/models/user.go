package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Username    string           `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email       string           `gorm:"size:120;not null;uniqueIndex" json:"email"`
	IsAdmin     bool             `gorm:"not null;default:false" json:"is_admin"`
	IsConfirmed bool             `gorm:"not null;default:false" json:"is_confirmed"`
	ConfirmedOn *time.Time       `json:"confirmed_on,omitempty"`
	Allergies   JSONBStringArray `gorm:"type:jsonb" json:"allergies"`
}

// BeforeCreate assigns a UUID when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
