package llm

import (
	"fmt"
	"strings"
)

const (
	// Temperature is fixed low so the model sticks to the requested JSON shape
	Temperature = 0.2
	// MaxTokens bounds the completion size
	MaxTokens = 800

	expiryMarker = "(exp:"
)

const recipeFormat = `Return **strict JSON array** of recipes. Each recipe must have:
- meal_name
- description
- pantry_ingredients (%s)
- missing_ingredients (list of any additional ingredients needed)
- instructions (list)
`

// BuildPrompt assembles the user prompt for a request. Ingredients annotated with
// expiration dates switch to the pantry-selection template.
func BuildPrompt(req RecipeRequest) string {
	var prompt string
	if strings.Contains(req.Ingredients, expiryMarker) {
		prompt = fmt.Sprintf("Generate 3 random meal ideas for %s meals in %s style. "+
			"Select random ingredients from this pantry list: %s, prioritizing those with earlier expiration dates. "+
			"Dietary Preferences: %s. %s\n\n",
			req.Categories, req.Style, req.Ingredients, req.Preferences, req.Instructions)
		prompt += fmt.Sprintf(recipeFormat, "list of ingredients selected from the pantry list")
	} else {
		prompt = fmt.Sprintf("Generate 3 meal ideas using:\n\n"+
			"Ingredients: %s\n"+
			"Categories: %s\n"+
			"Style: %s\n"+
			"Dietary Preferences: %s\n"+
			"Additional Instructions: %s\n\n",
			req.Ingredients, req.Categories, req.Style, req.Preferences, req.Instructions)
		prompt += fmt.Sprintf(recipeFormat, "list of ingredients used from the provided list")
		prompt += "\nPrioritize recipes that use all the provided ingredients. " +
			"If insufficient ingredients are given, suggest complementary ingredients commonly used in the specified cuisine style.\n"
	}

	return prompt + allergyClause(req.Allergies)
}

func allergyClause(allergies AllergyList) string {
	list := allergies.Clean()
	if len(list) == 0 {
		return ""
	}
	return fmt.Sprintf("\n\nIMPORTANT: The user has the following allergies: %s. "+
		"DO NOT include any of these ingredients in the recipes, pantry_ingredients, missing_ingredients, or instructions. "+
		"If a common ingredient conflicts with these allergies, suggest safe substitutes and explicitly state the substitution.",
		strings.Join(list, ", "))
}

// ResolveModel picks the override when set, otherwise the default, and strips any
// provider-routing suffix after the first colon. A suffix strip that would leave
// nothing keeps the identifier as given.
func ResolveModel(override, fallback string) string {
	model := override
	if model == "" {
		model = fallback
	}
	if base, _, found := strings.Cut(model, ":"); found && base != "" {
		return base
	}
	return model
}

// BuildPayload produces the gateway payload for a request
func BuildPayload(req RecipeRequest, defaultModel string) Payload {
	return Payload{
		Messages: []Message{
			{Role: "user", Content: BuildPrompt(req)},
		},
		Model:       ResolveModel(req.Model, defaultModel),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
}
