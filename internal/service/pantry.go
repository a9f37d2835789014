package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/mealmind/backend/internal/models"
)

// PantryFilter narrows ListItems. Zero values mean no filter.
type PantryFilter struct {
	CategoryID *uuid.UUID
	Query      string
	ExpBefore  *time.Time
	ExpAfter   *time.Time
}

// PantryItemInput carries the editable fields of a pantry item
type PantryItemInput struct {
	Name           string
	CategoryID     *uuid.UUID
	Quantity       *float64
	Unit           string
	ExpirationDate *time.Time
}

// PantryService handles pantry items and categories
type PantryService struct {
	db *gorm.DB
}

var _ IPantryService = (*PantryService)(nil)

func NewPantryService(db *gorm.DB) *PantryService {
	return &PantryService{db: db}
}

// ListCategories returns every category ordered by name
func (s *PantryService) ListCategories(ctx context.Context) ([]models.PantryCategory, error) {
	var categories []models.PantryCategory
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListItems returns the user's items, soonest expiration first and undated items last
func (s *PantryService) ListItems(ctx context.Context, userID uuid.UUID, filter PantryFilter) ([]models.PantryItem, error) {
	query := s.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if filter.ExpBefore != nil {
		query = query.Where("expiration_date <= ?", *filter.ExpBefore)
	}
	if filter.ExpAfter != nil {
		query = query.Where("expiration_date >= ?", *filter.ExpAfter)
	}

	var items []models.PantryItem
	if err := query.Order("expiration_date IS NULL, expiration_date ASC, name ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list pantry items: %w", err)
	}
	return items, nil
}

// GetItems returns the user's items with the given ids in the order requested.
// Unknown ids and items owned by someone else are skipped.
func (s *PantryService) GetItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.PantryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []models.PantryItem
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to load pantry items: %w", err)
	}

	byID := make(map[uuid.UUID]models.PantryItem, len(found))
	for _, item := range found {
		byID[item.ID] = item
	}

	items := make([]models.PantryItem, 0, len(found))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok && !seen[id] {
			items = append(items, item)
			seen[id] = true
		}
	}
	return items, nil
}

// ListExpiring returns the user's dated items, soonest first
func (s *PantryService) ListExpiring(ctx context.Context, userID uuid.UUID) ([]models.PantryItem, error) {
	var items []models.PantryItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND expiration_date IS NOT NULL", userID).
		Order("expiration_date ASC, name ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring items: %w", err)
	}
	return items, nil
}

func (s *PantryService) CreateItem(ctx context.Context, userID uuid.UUID, input PantryItemInput) (*models.PantryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	item := models.PantryItem{
		UserID:         userID,
		Name:           name,
		CategoryID:     input.CategoryID,
		Quantity:       input.Quantity,
		Unit:           strings.TrimSpace(input.Unit),
		ExpirationDate: input.ExpirationDate,
	}
	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("failed to create pantry item: %w", err)
	}
	return &item, nil
}

// UpdateItem replaces quantity, unit and expiration; name and category are kept when
// not supplied.
func (s *PantryService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, input PantryItemInput) (*models.PantryItem, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.CategoryID != nil {
		item.CategoryID = input.CategoryID
		item.Category = nil
	}
	item.Quantity = input.Quantity
	item.Unit = strings.TrimSpace(input.Unit)
	item.ExpirationDate = input.ExpirationDate

	if err := s.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update pantry item: %w", err)
	}
	return item, nil
}

func (s *PantryService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete pantry item: %w", err)
	}
	return nil
}

// ownedItem loads an item and hides items of other users behind ErrNotFound
func (s *PantryService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*models.PantryItem, error) {
	var item models.PantryItem
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load pantry item: %w", err)
	}
	return &item, nil
}

func (s *PantryService) checkCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PantryCategory{}).Where("id = ?", *categoryID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up category: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: unknown category", ErrInvalidInput)
	}
	return nil
}
