package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/mealmind/backend/config"
	"github.com/pageza/mealmind/backend/internal/llm"
	"github.com/pageza/mealmind/backend/internal/logging"
	"github.com/pageza/mealmind/backend/internal/metrics"
	"github.com/pageza/mealmind/backend/internal/models"
	"github.com/pageza/mealmind/backend/internal/storage"
)

// Generation modes
const (
	ModePantry = "pantry"
	ModeRandom = "random"
	ModeManual = "manual"
)

const prioritizeInstruction = "Prioritize ingredients that are close to expiration and use them first."

// GenerateInput is the generator form as submitted
type GenerateInput struct {
	Mode               string
	PantryItems        []string
	Ingredients        string
	PrioritizeExpiring bool
	Categories         []string
	CustomCategories   string
	Styles             []string
	CustomStyles       string
	Preferences        []string
	CustomPreferences  string
	Instructions       string
	Model              string
}

// GenerateResult is the normalized model output plus the names the user already saved
type GenerateResult struct {
	Recipes    any      `json:"recipes"`
	SavedNames []string `json:"saved_names"`
}

// GeneratorService turns the generator form into a normalizer request
type GeneratorService struct {
	normalizer RecipeNormalizer
	pantry     IPantryService
	favorites  IFavoriteService
	catalog    *config.Catalog
	archive    storage.Archive
}

var _ IGeneratorService = (*GeneratorService)(nil)

func NewGeneratorService(normalizer RecipeNormalizer, pantry IPantryService, favorites IFavoriteService, catalog *config.Catalog, archive storage.Archive) *GeneratorService {
	if archive == nil {
		archive = storage.NopArchive{}
	}
	return &GeneratorService{
		normalizer: normalizer,
		pantry:     pantry,
		favorites:  favorites,
		catalog:    catalog,
		archive:    archive,
	}
}

// BuildRequest assembles the normalizer request for user from the form input
func (s *GeneratorService) BuildRequest(ctx context.Context, user *models.User, input GenerateInput) (llm.RecipeRequest, error) {
	ingredients, err := s.ingredients(ctx, user, input)
	if err != nil {
		return llm.RecipeRequest{}, err
	}

	instructions := strings.TrimSpace(input.Instructions)
	if input.PrioritizeExpiring {
		if instructions == "" {
			instructions = prioritizeInstruction
		} else {
			instructions += "\n" + prioritizeInstruction
		}
	}

	model := ""
	if s.catalog != nil && s.catalog.AllowsModel(input.Model) {
		model = input.Model
	}

	return llm.RecipeRequest{
		Ingredients:  ingredients,
		Categories:   joinWithCustom(input.Categories, input.CustomCategories),
		Style:        joinWithCustom(input.Styles, input.CustomStyles),
		Preferences:  joinWithCustom(input.Preferences, input.CustomPreferences),
		Instructions: instructions,
		Model:        model,
		Allergies:    llm.AllergyList(user.Allergies),
	}, nil
}

// Generate calls the normalizer once. Normalizer failures come back as *llm.Error;
// the ones carrying the raw response are archived first.
func (s *GeneratorService) Generate(ctx context.Context, user *models.User, input GenerateInput) (*GenerateResult, error) {
	req, err := s.BuildRequest(ctx, user, input)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithFields(ctx, zap.String("user_id", user.ID.String()), zap.String("mode", input.Mode))

	value, err := s.normalizer.Normalize(ctx, req)
	if err != nil {
		var nerr *llm.Error
		if !errors.As(err, &nerr) {
			metrics.ObserveNormalization("internal")
			return nil, err
		}
		metrics.ObserveNormalization(string(nerr.Kind))
		s.archiveFailure(ctx, user, req, nerr)
		return nil, nerr
	}
	metrics.ObserveNormalization("ok")

	names, err := s.favorites.SavedNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Recipes: value, SavedNames: names}, nil
}

func (s *GeneratorService) archiveFailure(ctx context.Context, user *models.User, req llm.RecipeRequest, nerr *llm.Error) {
	if !nerr.HasResponse() {
		return
	}

	key, err := s.archive.Store(ctx, &storage.Failure{
		UserID:   user.ID.String(),
		Model:    llm.ResolveModel(req.Model, s.normalizer.DefaultModel()),
		Kind:     string(nerr.Kind),
		Error:    nerr.Message,
		Response: nerr.Response,
	})
	if err != nil {
		logging.L(ctx).Warn("failed to archive normalization failure", zap.Error(err))
		return
	}
	if key != "" {
		logging.L(ctx).Info("archived normalization failure", zap.String("key", key))
	}
}

func (s *GeneratorService) ingredients(ctx context.Context, user *models.User, input GenerateInput) (string, error) {
	switch input.Mode {
	case ModePantry:
		ids, err := parseIDs(input.PantryItems)
		if err != nil {
			return "", err
		}
		items, err := s.pantry.GetItems(ctx, user.ID, ids)
		if err != nil {
			return "", err
		}
		if !input.PrioritizeExpiring {
			names := make([]string, len(items))
			for i, item := range items {
				names[i] = item.Name
			}
			return strings.Join(names, ", "), nil
		}
		sortByExpiration(items)
		return annotate(items), nil

	case ModeRandom:
		items, err := s.pantry.ListExpiring(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return annotate(items), nil

	case ModeManual:
		return strings.TrimSpace(input.Ingredients), nil

	default:
		return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, input.Mode)
	}
}

// sortByExpiration orders items soonest first, undated last, keeping input order on ties
func sortByExpiration(items []models.PantryItem) {
	far := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	expiry := func(item models.PantryItem) time.Time {
		if item.ExpirationDate == nil {
			return far
		}
		return *item.ExpirationDate
	}
	sort.SliceStable(items, func(i, j int) bool {
		return expiry(items[i]).Before(expiry(items[j]))
	})
}

// annotate renders "name (exp: YYYY-MM-DD)" for dated items and the bare name otherwise
func annotate(items []models.PantryItem) string {
	parts := make([]string, len(items))
	for i, item := range items {
		if exp := item.ExpirationString(); exp != "" {
			parts[i] = fmt.Sprintf("%s (exp: %s)", item.Name, exp)
		} else {
			parts[i] = item.Name
		}
	}
	return strings.Join(parts, ", ")
}

// joinWithCustom joins the selected options and the free-text addition with ", "
func joinWithCustom(selected []string, custom string) string {
	parts := CleanList(selected)
	if custom = strings.TrimSpace(custom); custom != "" {
		parts = append(parts, custom)
	}
	return strings.Join(parts, ", ")
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("%w: invalid pantry item id %q", ErrInvalidInput, r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
