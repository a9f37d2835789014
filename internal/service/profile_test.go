package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/pageza/mealmind/backend/internal/testdb"
)

func TestProfileUpdateAllergies(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewProfileService(db)
	ctx := context.Background()
	user := createUser(t, db, "cook")

	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Allergies)

	updated, err := svc.UpdateAllergies(ctx, user.ID, []string{" peanut ", "", "shellfish"})
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"peanut", "shellfish"}, updated.Allergies)

	profile, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JSONBStringArray{"peanut", "shellfish"}, profile.Allergies)

	_, err = svc.UpdateAllergies(ctx, user.ID, nil)
	require.NoError(t, err)
	profile, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Allergies)
}

func TestProfileNotFound(t *testing.T) {
	db := testdb.NewSQLite(t)
	svc := service.NewProfileService(db)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.UpdateAllergies(context.Background(), uuid.New(), []string{"egg"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"peanut", []string{"peanut"}},
		{" peanut , , soy ,", []string{"peanut", "soy"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, service.SplitList(tt.in), tt.in)
	}
}
