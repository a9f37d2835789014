package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/mealmind/backend/internal/llm"
	"github.com/pageza/mealmind/backend/internal/models"
)

// RecipeNormalizer is satisfied by *llm.Normalizer
type RecipeNormalizer interface {
	Normalize(ctx context.Context, req llm.RecipeRequest) (any, error)
	DefaultModel() string
}

// IPantryService defines the interface for pantry operations
type IPantryService interface {
	ListCategories(ctx context.Context) ([]models.PantryCategory, error)
	ListItems(ctx context.Context, userID uuid.UUID, filter PantryFilter) ([]models.PantryItem, error)
	GetItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.PantryItem, error)
	ListExpiring(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error)
	CreateItem(ctx context.Context, userID uuid.UUID, input PantryItemInput) (*models.PantryItem, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input PantryItemInput) (*models.PantryItem, error)
	DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error
}

// IFavoriteService defines the interface for saved recipe operations
type IFavoriteService interface {
	Save(ctx context.Context, userID uuid.UUID, input SaveRecipeInput) (*models.SavedRecipe, error)
	List(ctx context.Context, userID uuid.UUID, query string) ([]models.SavedRecipe, error)
	SavedNames(ctx context.Context, userID uuid.UUID) ([]string, error)
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	Unsave(ctx context.Context, userID uuid.UUID, recipeID *uuid.UUID, mealName string) error
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateAllergies(ctx context.Context, userID uuid.UUID, allergies []string) (*models.User, error)
}

// IAdminService defines the interface for account administration
type IAdminService interface {
	ListUsers(ctx context.Context, q string) ([]models.User, error)
	Apply(ctx context.Context, actorID, targetID uuid.UUID, action string) (*models.User, error)
}

// IGeneratorService defines the interface for recipe generation
type IGeneratorService interface {
	Generate(ctx context.Context, user *models.User, input GenerateInput) (*GenerateResult, error)
}
