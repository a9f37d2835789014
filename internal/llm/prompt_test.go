package llm

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		override string
		fallback string
		expected string
	}{
		{"", "meta-llama/Llama-3.1-8B-Instruct:novita", "meta-llama/Llama-3.1-8B-Instruct"},
		{"mistralai/mixtral-instruct-8x:latest", "other", "mistralai/mixtral-instruct-8x"},
		{"plain-model", "other", "plain-model"},
		{"", "a:b:c", "a"},
		{":novita", "", ":novita"},
		{"", "", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ResolveModel(tt.override, tt.fallback), "override=%q fallback=%q", tt.override, tt.fallback)
	}
}

func TestBuildPrompt_Default(t *testing.T) {
	prompt := BuildPrompt(RecipeRequest{
		Ingredients:  "rice, egg",
		Categories:   "High Protein",
		Style:        "Korean",
		Preferences:  "Vegetarian",
		Instructions: "quick",
	})

	assert.True(t, strings.HasPrefix(prompt, "Generate 3 meal ideas using:"))
	assert.Contains(t, prompt, "Ingredients: rice, egg\n")
	assert.Contains(t, prompt, "Categories: High Protein\n")
	assert.Contains(t, prompt, "Style: Korean\n")
	assert.Contains(t, prompt, "Dietary Preferences: Vegetarian\n")
	assert.Contains(t, prompt, "Additional Instructions: quick\n")
	assert.Contains(t, prompt, "strict JSON array")
	assert.Contains(t, prompt, "Prioritize recipes that use all the provided ingredients.")
	assert.NotContains(t, prompt, "IMPORTANT")
}

func TestBuildPrompt_ExpiringIngredients(t *testing.T) {
	prompt := BuildPrompt(RecipeRequest{
		Ingredients: "milk (exp: 2026-01-02), bread",
		Style:       "Western",
	})

	assert.True(t, strings.HasPrefix(prompt, "Generate 3 random meal ideas"))
	assert.Contains(t, prompt, "milk (exp: 2026-01-02), bread, prioritizing those with earlier expiration dates")
	assert.Contains(t, prompt, "list of ingredients selected from the pantry list")
	assert.NotContains(t, prompt, "Prioritize recipes that use all")
}

func TestBuildPrompt_Allergies(t *testing.T) {
	prompt := BuildPrompt(RecipeRequest{
		Ingredients: "rice",
		Allergies:   AllergyList{" peanut ", "", "shellfish"},
	})
	assert.Contains(t, prompt, "IMPORTANT: The user has the following allergies: peanut, shellfish.")
	assert.Contains(t, prompt, "DO NOT include any of these ingredients")

	blank := BuildPrompt(RecipeRequest{Ingredients: "rice", Allergies: AllergyList{" ", ""}})
	assert.NotContains(t, blank, "allergies")
}

func TestBuildPayload(t *testing.T) {
	payload := BuildPayload(RecipeRequest{Ingredients: "rice", Model: "custom:tag"}, "default")

	assert.Equal(t, "custom", payload.Model)
	assert.Equal(t, Temperature, payload.Temperature)
	assert.Equal(t, MaxTokens, payload.MaxTokens)
	require.Len(t, payload.Messages, 1)
	assert.Equal(t, "user", payload.Messages[0].Role)

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, float64(800), body["max_tokens"])
	assert.Equal(t, "custom", body["model"])
}

func TestAllergyList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected AllergyList
		wantErr  bool
	}{
		{`["peanut","soy"]`, AllergyList{"peanut", "soy"}, false},
		{`"peanut"`, AllergyList{"peanut"}, false},
		{`""`, nil, false},
		{`null`, nil, false},
		{`42`, nil, true},
	}

	for _, tt := range tests {
		var list AllergyList
		err := json.Unmarshal([]byte(tt.input), &list)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, list, tt.input)
	}
}
