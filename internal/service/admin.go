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

// Admin actions accepted by AdminService.Apply
const (
	ActionToggleConfirm = "toggle_confirm"
	ActionToggleAdmin   = "toggle_admin"
	ActionDelete        = "delete"
)

// AdminService manages user accounts
type AdminService struct {
	db  *gorm.DB
	now func() time.Time
}

var _ IAdminService = (*AdminService)(nil)

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db, now: time.Now}
}

// ListUsers returns users newest first, optionally filtered by username or email
func (s *AdminService) ListUsers(ctx context.Context, q string) ([]models.User, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Apply runs an admin action against target. It returns the updated user, or nil
// after a delete.
func (s *AdminService) Apply(ctx context.Context, actorID, targetID uuid.UUID, action string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", targetID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	switch action {
	case ActionToggleConfirm:
		user.IsConfirmed = !user.IsConfirmed
		if user.IsConfirmed && user.ConfirmedOn == nil {
			now := s.now().UTC()
			user.ConfirmedOn = &now
		}
		err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
			"is_confirmed": user.IsConfirmed,
			"confirmed_on": user.ConfirmedOn,
		}).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &user, nil

	case ActionToggleAdmin:
		user.IsAdmin = !user.IsAdmin
		if err := s.db.WithContext(ctx).Model(&user).Update("is_admin", user.IsAdmin).Error; err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return &user, nil

	case ActionDelete:
		if user.ID == actorID {
			return nil, fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.PantryItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.SavedRecipe{}).Error; err != nil {
				return err
			}
			return tx.Delete(&user).Error
		})
		if err != nil {
			return nil, fmt.Errorf("failed to delete user: %w", err)
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}
}
