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

// ProfileService handles user profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &user, nil
}

// UpdateAllergies replaces the user's allergy list. Entries are trimmed and blanks dropped.
func (s *ProfileService) UpdateAllergies(ctx context.Context, userID uuid.UUID, allergies []string) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Allergies = CleanList(allergies)
	if err := s.db.WithContext(ctx).Model(user).Update("allergies", user.Allergies).Error; err != nil {
		return nil, fmt.Errorf("failed to update allergies: %w", err)
	}
	return user, nil
}

// SplitList splits a comma-separated string into a clean list
func SplitList(raw string) []string {
	return CleanList(strings.Split(raw, ","))
}

// CleanList trims every entry and drops the blank ones
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
