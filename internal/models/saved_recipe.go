package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the size of SavedRecipe.Embedding
const EmbeddingDimensions = 64

// SavedRecipe is a generated recipe a user chose to keep
type SavedRecipe struct {
	ID                 uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt          time.Time        `gorm:"index" json:"created_at"`
	UserID             uuid.UUID        `gorm:"type:varchar(36);not null;index" json:"user_id"`
	MealName           string           `gorm:"size:200;not null" json:"meal_name"`
	Description        string           `gorm:"type:text" json:"description"`
	PantryIngredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"pantry_ingredients"`
	MissingIngredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"missing_ingredients"`
	Instructions       JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	Embedding          pgvector.Vector  `gorm:"type:vector(64)" json:"-"`
}

func (r *SavedRecipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
