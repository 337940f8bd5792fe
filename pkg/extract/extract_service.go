package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"forkd/domain"
	"forkd/internal/utils"
)

const spoonacularExtractURL = "https://api.spoonacular.com/recipes/extract"

type (
	ExtractService interface {
		ExtractRecipe(ctx context.Context, recipeURL string) (domain.ExtractedRecipe, error)
	}

	extractService struct {
		httpClient *http.Client
	}
)

func NewExtractService() ExtractService {
	return &extractService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ExtractRecipe passes the given page URL to the Spoonacular extraction API
// and returns its structured fields. Upstream failures are reported as
// ErrExtractFailed; partial data is never substituted.
func (s *extractService) ExtractRecipe(ctx context.Context, recipeURL string) (domain.ExtractedRecipe, error) {
	apiKey := utils.GetConfig("SPOONACULAR_KEY")
	if apiKey == "" {
		return domain.ExtractedRecipe{}, fmt.Errorf("SPOONACULAR_KEY not set")
	}

	params := url.Values{}
	params.Set("apiKey", apiKey)
	params.Set("url", recipeURL)
	params.Set("forceExtraction", "false")
	params.Set("analyze", "false")
	params.Set("includeNutrition", "false")
	params.Set("includeTaste", "false")

	req, err := http.NewRequestWithContext(ctx, "GET", spoonacularExtractURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.ExtractedRecipe{}, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return domain.ExtractedRecipe{}, domain.ErrExtractFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ExtractedRecipe{}, domain.ErrExtractFailed
	}

	var details struct {
		Title               string `json:"title"`
		Summary             string `json:"summary"`
		SourceName          string `json:"sourceName"`
		License             string `json:"license"`
		Instructions        string `json:"instructions"`
		Image               string `json:"image"`
		ExtendedIngredients []struct {
			Original string `json:"original"`
		} `json:"extendedIngredients"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return domain.ExtractedRecipe{}, domain.ErrExtractFailed
	}

	ingredients := ""
	for _, ingredient := range details.ExtendedIngredients {
		if ingredients != "" {
			ingredients += "\n"
		}
		ingredients += ingredient.Original
	}

	description := fmt.Sprintf(
		"Grabbed via Spoonacular from %s\nGiven summary: %s\nGiven license: %s",
		details.SourceName, details.Summary, details.License,
	)

	return domain.ExtractedRecipe{
		Title:        details.Title,
		Description:  description,
		Ingredients:  ingredients,
		Instructions: details.Instructions,
		ImageURL:     details.Image,
	}, nil
}
