package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the wire and storage format for expiration dates
const DateLayout = "2006-01-02"

type PantryCategory struct {
	ID       uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	Name     string          `gorm:"size:50;not null;uniqueIndex" json:"name"`
	ParentID *uuid.UUID      `gorm:"type:varchar(36);index" json:"parent_id,omitempty"`
	Parent   *PantryCategory `gorm:"foreignKey:ParentID" json:"-"`
}

func (c *PantryCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type PantryItem struct {
	ID             uuid.UUID       `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	UserID         uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name           string          `gorm:"size:100;not null" json:"name"`
	CategoryID     *uuid.UUID      `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Category       *PantryCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Quantity       *float64        `json:"quantity"`
	Unit           string          `gorm:"size:20" json:"unit"`
	ExpirationDate *time.Time      `gorm:"type:date;index" json:"-"`
}

func (p *PantryItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ExpirationString formats the expiration date, or returns "" when unset
func (p *PantryItem) ExpirationString() string {
	if p.ExpirationDate == nil {
		return ""
	}
	return p.ExpirationDate.Format(DateLayout)
}
