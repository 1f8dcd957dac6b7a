package dto

import "time"

// CreateRecipeRequest entrada para crear una receta.
type CreateRecipeRequest struct {
	Name         string   `json:"name" validate:"required,notblank,max=200"`
	Description  string   `json:"description" validate:"max=2000"`
	ImageURL     string   `json:"imageUrl" validate:"max=2048"`
	Link         string   `json:"link" validate:"omitempty,url,max=2048"`
	Category     string   `json:"category" validate:"max=100"`
	KidsRating   int      `json:"kidsRating" validate:"min=0,max=5"`
	Ingredients  []string `json:"ingredients" validate:"max=100,dive,max=200"`
	Instructions string   `json:"instructions" validate:"max=10000"`
	PrepTime     int      `json:"prepTime" validate:"min=0,max=1440"`
	Portions     int      `json:"portions" validate:"min=0,max=100"`
	IsFavorite   bool     `json:"isFavorite"`
}

// UpdateRecipeRequest actualización parcial de una receta.
type UpdateRecipeRequest struct {
	Name         *string   `json:"name" validate:"omitempty,notblank,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	ImageURL     *string   `json:"imageUrl" validate:"omitempty,max=2048"`
	Link         *string   `json:"link" validate:"omitempty,url,max=2048"`
	Category     *string   `json:"category" validate:"omitempty,max=100"`
	KidsRating   *int      `json:"kidsRating" validate:"omitempty,min=0,max=5"`
	Ingredients  *[]string `json:"ingredients" validate:"omitempty,max=100,dive,max=200"`
	Instructions *string   `json:"instructions" validate:"omitempty,max=10000"`
	PrepTime     *int      `json:"prepTime" validate:"omitempty,min=0,max=1440"`
	Portions     *int      `json:"portions" validate:"omitempty,min=0,max=100"`
	IsFavorite   *bool     `json:"isFavorite"`
}

// RecipeListQuery filtros del listado (query string).
type RecipeListQuery struct {
	Category  string `query:"category"`
	Search    string `query:"search"`
	Favorites bool   `query:"favorites"`
}

// RecipeResponse salida de una receta.
type RecipeResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	Link         string    `json:"link"`
	Category     string    `json:"category"`
	KidsRating   int       `json:"kidsRating"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions"`
	PrepTime     int       `json:"prepTime"`
	Portions     int       `json:"portions"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedBy    string    `json:"createdBy"`
	FamilyID     *string   `json:"familyId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RecipeSummaryResponse receta embebida en un plan de comidas.
type RecipeSummaryResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	ImageURL   string `json:"imageUrl"`
	KidsRating int    `json:"kidsRating"`
}
