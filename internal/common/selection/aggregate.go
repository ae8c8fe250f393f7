package selection

import (
	"fmt"
	"strings"

	"promptstudio-workers/internal/models"
)

// Aggregate groups a flat deployment list by recipe. It returns one option per
// recipe, ordered by the recipe's first appearance; the option value is the
// encoded group of all deployments of that recipe in list order. The label is
// the recipe name of the first deployment seen for the recipe.
func Aggregate(deployments []models.Deployment) ([]models.RecipeOption, error) {
	order := make([]string, 0)
	labels := make(map[string]string)
	groups := make(map[string]*Group)

	for _, d := range deployments {
		g, seen := groups[d.RecipeID]
		if !seen {
			g = &Group{Deployments: make([]Entry, 0, 1)}
			groups[d.RecipeID] = g
			labels[d.RecipeID] = d.RecipeName
			order = append(order, d.RecipeID)
		}
		g.Deployments = append(g.Deployments, Entry{
			ID:        d.DeploymentID,
			CreatedAt: d.CreatedAt,
			Schemas:   d.Schemas,
		})
	}

	options := make([]models.RecipeOption, 0, len(order))
	for _, recipeID := range order {
		value, err := Encode(*groups[recipeID])
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", recipeID, err)
		}
		options = append(options, models.RecipeOption{
			RecipeID: recipeID,
			Option:   models.Option{Name: labels[recipeID], Value: value},
		})
	}
	return options, nil
}

// FilterOptions keeps the options whose name contains query, ignoring case.
// An empty query keeps everything.
func FilterOptions(options []models.RecipeOption, query string) []models.RecipeOption {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return options
	}
	out := make([]models.RecipeOption, 0, len(options))
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Name), query) {
			out = append(out, o)
		}
	}
	return out
}
