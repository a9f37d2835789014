package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/llm"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/service"
	"github.com/pageza/mealmind/backend/internal/storage"
	"github.com/pageza/mealmind/backend/internal/testdb"
)

type recordingArchive struct {
	failures []*storage.Failure
	err      error
}

func (a *recordingArchive) Store(_ context.Context, f *storage.Failure) (string, error) {
	a.failures = append(a.failures, f)
	return "diagnostics/key.json", a.err
}

type generatorFixture struct {
	svc      *service.GeneratorService
	pantry   *service.PantryService
	favs     *service.FavoriteService
	user     *models.User
	payloads []llm.Payload
	archive  *recordingArchive
}

func newGeneratorFixture(t *testing.T, respond func(llm.Payload) any) *generatorFixture {
	t.Helper()
	db := testdb.NewSQLite(t)
	catalog, err := config.LoadCatalog("")
	require.NoError(t, err)

	f := &generatorFixture{
		pantry:  service.NewPantryService(db),
		favs:    service.NewFavoriteService(db, nil),
		user:    createUser(t, db, "cook"),
		archive: &recordingArchive{},
	}
	gateway := llm.GatewayFunc(func(_ context.Context, p llm.Payload) any {
		f.payloads = append(f.payloads, p)
		return respond(p)
	})
	normalizer := llm.NewNormalizer(gateway, catalog.Models[0])
	f.svc = service.NewGeneratorService(normalizer, f.pantry, f.favs, catalog, f.archive)
	return f
}

func okResponse(text string) func(llm.Payload) any {
	return func(llm.Payload) any {
		return map[string]any{"generated_text": text}
	}
}

func TestBuildRequestPantryMode(t *testing.T) {
	f := newGeneratorFixture(t, okResponse("[]"))
	ctx := context.Background()

	milk, err := f.pantry.CreateItem(ctx, f.user.ID, service.PantryItemInput{Name: "milk", ExpirationDate: date(t, "2024-03-05")})
	require.NoError(t, err)
	rice, err := f.pantry.CreateItem(ctx, f.user.ID, service.PantryItemInput{Name: "rice"})
	require.NoError(t, err)
	eggs, err := f.pantry.CreateItem(ctx, f.user.ID, service.PantryItemInput{Name: "eggs", ExpirationDate: date(t, "2024-03-01")})
	require.NoError(t, err)
	ids := []string{milk.ID.String(), rice.ID.String(), eggs.ID.String()}

	req, err := f.svc.BuildRequest(ctx, f.user, service.GenerateInput{Mode: service.ModePantry, PantryItems: ids})
	require.NoError(t, err)
	assert.Equal(t, "milk, rice, eggs", req.Ingredients)
	assert.Empty(t, req.Instructions)

	req, err = f.svc.BuildRequest(ctx, f.user, service.GenerateInput{
		Mode:               service.ModePantry,
		PantryItems:        ids,
		PrioritizeExpiring: true,
		Instructions:       "No oven",
	})
	require.NoError(t, err)
	assert.Equal(t, "eggs (exp: 2024-03-01), milk (exp: 2024-03-05), rice", req.Ingredients)
	assert.Equal(t, "No oven\nPrioritize ingredients that are close to expiration and use them first.", req.Instructions)
}

func TestBuildRequestRandomAndManual(t *testing.T) {
	f := newGeneratorFixture(t, okResponse("[]"))
	ctx := context.Background()

	_, err := f.pantry.CreateItem(ctx, f.user.ID, service.PantryItemInput{Name: "tofu", ExpirationDate: date(t, "2024-01-02")})
	require.NoError(t, err)
	_, err = f.pantry.CreateItem(ctx, f.user.ID, service.PantryItemInput{Name: "salt"})
	require.NoError(t, err)

	req, err := f.svc.BuildRequest(ctx, f.user, service.GenerateInput{Mode: service.ModeRandom})
	require.NoError(t, err)
	assert.Equal(t, "tofu (exp: 2024-01-02)", req.Ingredients)

	req, err = f.svc.BuildRequest(ctx, f.user, service.GenerateInput{Mode: service.ModeManual, Ingredients: "  chicken, leeks "})
	require.NoError(t, err)
	assert.Equal(t, "chicken, leeks", req.Ingredients)
}

func TestBuildRequestOptions(t *testing.T) {
	f := newGeneratorFixture(t, okResponse("[]"))
	f.user.Allergies = models.JSONBStringArray{"peanut"}

	req, err := f.svc.BuildRequest(context.Background(), f.user, service.GenerateInput{
		Mode:              service.ModeManual,
		Categories:        []string{"Balanced", " "},
		CustomCategories:  "Quick",
		Styles:            []string{"Korean"},
		CustomPreferences: "  ",
		Model:             "meta-llama/Llama-3.1-8B-Instruct:novita",
	})
	require.NoError(t, err)
	assert.Equal(t, "Balanced, Quick", req.Categories)
	assert.Equal(t, "Korean", req.Style)
	assert.Equal(t, "", req.Preferences)
	assert.Equal(t, "meta-llama/Llama-3.1-8B-Instruct:novita", req.Model)
	assert.Equal(t, llm.AllergyList{"peanut"}, req.Allergies)

	req, err = f.svc.BuildRequest(context.Background(), f.user, service.GenerateInput{Mode: service.ModeManual, Model: "unknown/model"})
	require.NoError(t, err)
	assert.Empty(t, req.Model)
}

func TestBuildRequestInvalidInput(t *testing.T) {
	f := newGeneratorFixture(t, okResponse("[]"))

	_, err := f.svc.BuildRequest(context.Background(), f.user, service.GenerateInput{Mode: "surprise"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.svc.BuildRequest(context.Background(), f.user, service.GenerateInput{Mode: service.ModePantry, PantryItems: []string{"nope"}})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestGenerateSuccess(t *testing.T) {
	text := `Sure! [{"meal_name": "Fried Rice", "description": "d", "pantry_ingredients": [], "missing_ingredients": [], "instructions": []}]`
	f := newGeneratorFixture(t, okResponse(text))
	ctx := context.Background()

	_, err := f.favs.Save(ctx, f.user.ID, service.SaveRecipeInput{MealName: "Soup"})
	require.NoError(t, err)

	result, err := f.svc.Generate(ctx, f.user, service.GenerateInput{Mode: service.ModeManual, Ingredients: "rice"})
	require.NoError(t, err)

	recipes, err := llm.DecodeRecipes(result.Recipes)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Fried Rice", recipes[0].MealName)
	assert.Equal(t, []string{"Soup"}, result.SavedNames)

	require.Len(t, f.payloads, 1)
	assert.Equal(t, "mistralai/mixtral-instruct-8x", f.payloads[0].Model)
	assert.Empty(t, f.archive.failures)
}

func TestGenerateArchivesFailureWithResponse(t *testing.T) {
	f := newGeneratorFixture(t, func(llm.Payload) any {
		return map[string]any{"generated_text": 42.0}
	})

	_, err := f.svc.Generate(context.Background(), f.user, service.GenerateInput{Mode: service.ModeManual, Ingredients: "rice"})
	var nerr *llm.Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, llm.KindExtraction, nerr.Kind)

	require.Len(t, f.archive.failures, 1)
	failure := f.archive.failures[0]
	assert.Equal(t, f.user.ID.String(), failure.UserID)
	assert.Equal(t, "mistralai/mixtral-instruct-8x", failure.Model)
	assert.Equal(t, string(llm.KindExtraction), failure.Kind)
	assert.Equal(t, map[string]any{"generated_text": 42.0}, failure.Response)
}

func TestGenerateRecoveryErrorNotArchived(t *testing.T) {
	f := newGeneratorFixture(t, okResponse("no recipes today"))

	_, err := f.svc.Generate(context.Background(), f.user, service.GenerateInput{Mode: service.ModeManual, Ingredients: "rice"})
	var nerr *llm.Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, llm.KindRecovery, nerr.Kind)
	assert.Empty(t, f.archive.failures)
}

func TestGenerateConnectionErrorNotArchived(t *testing.T) {
	f := newGeneratorFixture(t, func(llm.Payload) any {
		return map[string]any{"error": "connection refused"}
	})
	f.archive.err = errors.New("archive down")

	_, err := f.svc.Generate(context.Background(), f.user, service.GenerateInput{Mode: service.ModeManual})
	var nerr *llm.Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, llm.KindConnection, nerr.Kind)
	assert.Empty(t, f.archive.failures)
}

func TestGenerateArchiveErrorIsNotFatal(t *testing.T) {
	f := newGeneratorFixture(t, func(llm.Payload) any { return []any{"not", "a", "map"} })
	f.archive.err = errors.New("archive down")

	_, err := f.svc.Generate(context.Background(), f.user, service.GenerateInput{Mode: service.ModeManual})
	var nerr *llm.Error
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, llm.KindUnexpectedFormat, nerr.Kind)
	assert.Len(t, f.archive.failures, 1)
}
