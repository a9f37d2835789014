package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecipeRequest carries everything the prompt is assembled from
type RecipeRequest struct {
	Ingredients  string      `json:"ingredients"`
	Categories   string      `json:"categories"`
	Style        string      `json:"style"`
	Preferences  string      `json:"preferences"`
	Instructions string      `json:"instructions"`
	Model        string      `json:"model,omitempty"`
	Allergies    AllergyList `json:"allergies,omitempty"`
}

// Recipe is a single meal suggestion as returned by the model
type Recipe struct {
	MealName           string   `json:"meal_name"`
	Description        string   `json:"description"`
	PantryIngredients  []string `json:"pantry_ingredients"`
	MissingIngredients []string `json:"missing_ingredients"`
	Instructions       []string `json:"instructions"`
}

// Message is one chat message in the gateway payload
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Payload is the request body sent to the chat-completion endpoint
type Payload struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// AllergyList accepts either a JSON array of strings or a single string
type AllergyList []string

func (a *AllergyList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*a = nil
			return nil
		}
		*a = AllergyList{single}
		return nil
	}

	return fmt.Errorf("invalid allergies format")
}

// Clean trims every entry and drops the blank ones
func (a AllergyList) Clean() []string {
	out := make([]string, 0, len(a))
	for _, item := range a {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// DecodeRecipes converts a normalized value into typed recipes. It fails when the
// value is not a JSON array.
func DecodeRecipes(v any) ([]Recipe, error) {
	if _, ok := v.([]any); !ok {
		return nil, fmt.Errorf("model output is %s, not a recipe list", describe(v))
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal recipes: %w", err)
	}

	var recipes []Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return recipes, nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "an object"
	case []any:
		return "a list"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case json.Number, float64, int:
		return "a number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
