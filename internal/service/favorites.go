package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/internal/models"
)

// SaveRecipeInput is a generated recipe as submitted for saving
type SaveRecipeInput struct {
	MealName           string
	Description        string
	PantryIngredients  []string
	MissingIngredients []string
	Instructions       []string
}

// FavoriteService stores the recipes users keep
type FavoriteService struct {
	db               *gorm.DB
	embeddingService EmbeddingServiceInterface
}

var _ IFavoriteService = (*FavoriteService)(nil)

func NewFavoriteService(db *gorm.DB, embeddingService EmbeddingServiceInterface) *FavoriteService {
	if embeddingService == nil {
		embeddingService = HashEmbedder{}
	}
	return &FavoriteService{
		db:               db,
		embeddingService: embeddingService,
	}
}

func (s *FavoriteService) Save(ctx context.Context, userID uuid.UUID, input SaveRecipeInput) (*models.SavedRecipe, error) {
	recipe := models.SavedRecipe{
		UserID:             userID,
		MealName:           strings.TrimSpace(input.MealName),
		Description:        input.Description,
		PantryIngredients:  input.PantryIngredients,
		MissingIngredients: input.MissingIngredients,
		Instructions:       input.Instructions,
	}

	vec, err := s.embeddingService.GenerateEmbedding(searchText(&recipe))
	if err != nil {
		return nil, fmt.Errorf("failed to embed recipe: %w", err)
	}
	recipe.Embedding = vec

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return &recipe, nil
}

// List returns the user's saved recipes, newest first. With a query, postgres ranks
// keyword matches by vector distance; other databases fall back to keyword search.
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID, query string) ([]models.SavedRecipe, error) {
	dbQuery := s.db.WithContext(ctx).Where("saved_recipes.user_id = ?", userID)

	query = strings.TrimSpace(query)
	if query == "" {
		dbQuery = dbQuery.Order("created_at DESC")
	} else {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec, err := s.embeddingService.GenerateEmbedding(query)
			if err != nil {
				return nil, fmt.Errorf("failed to embed query: %w", err)
			}

			subQuery := s.db.Model(&models.SavedRecipe{}).
				Select("id, embedding <-> ? as similarity", vec).
				Where("user_id = ?", userID).
				Where("LOWER(meal_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(pantry_ingredients::text) LIKE ? OR LOWER(missing_ingredients::text) LIKE ?",
					like, like, like, like)

			dbQuery = dbQuery.Joins("JOIN (?) as search ON saved_recipes.id = search.id", subQuery).
				Order("search.similarity ASC")
		} else {
			dbQuery = dbQuery.
				Where("LOWER(meal_name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(pantry_ingredients) LIKE ? OR LOWER(missing_ingredients) LIKE ?",
					like, like, like, like).
				Order("created_at DESC")
		}
	}

	var recipes []models.SavedRecipe
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	return recipes, nil
}

// SavedNames returns the meal names the user has saved
func (s *FavoriteService) SavedNames(ctx context.Context, userID uuid.UUID) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).Model(&models.SavedRecipe{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("meal_name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list saved names: %w", err)
	}
	return names, nil
}

// Delete removes a saved recipe. Recipes of other users are reported as ErrForbidden.
func (s *FavoriteService) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	var recipe models.SavedRecipe
	if err := s.db.WithContext(ctx).Where("id = ?", recipeID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load saved recipe: %w", err)
	}
	if recipe.UserID != userID {
		return ErrForbidden
	}
	if err := s.db.WithContext(ctx).Delete(&recipe).Error; err != nil {
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	return nil
}

// Unsave removes one of the user's saved recipes by id, or else by meal name
func (s *FavoriteService) Unsave(ctx context.Context, userID uuid.UUID, recipeID *uuid.UUID, mealName string) error {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case recipeID != nil:
		query = query.Where("id = ?", *recipeID)
	case mealName != "":
		query = query.Where("meal_name = ?", mealName)
	default:
		return fmt.Errorf("%w: no id or meal_name provided", ErrInvalidInput)
	}

	var recipe models.SavedRecipe
	if err := query.Order("created_at ASC").First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load saved recipe: %w", err)
	}
	if err := s.db.WithContext(ctx).Delete(&recipe).Error; err != nil {
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	return nil
}

func searchText(r *models.SavedRecipe) string {
	parts := []string{r.MealName, r.Description}
	parts = append(parts, r.PantryIngredients...)
	parts = append(parts, r.MissingIngredients...)
	return strings.Join(parts, " ")
}
