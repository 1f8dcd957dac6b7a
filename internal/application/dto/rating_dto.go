package dto

import "time"

// RateRecipeRequest calificación 1-5 con comentario opcional.
type RateRecipeRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=500"`
}

// RatingResponse calificación de un usuario.
type RatingResponse struct {
	ID        string    `json:"id"`
	RecipeID  string    `json:"recipeId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RatingSummaryResponse promedio con un decimal, ej. "4.5".
type RatingSummaryResponse struct {
	Count         int    `json:"count"`
	AverageRating string `json:"averageRating"`
}

// RecipeRatingsResponse calificaciones de una receta con su resumen.
type RecipeRatingsResponse struct {
	Ratings    []RatingResponse      `json:"ratings"`
	Summary    RatingSummaryResponse `json:"summary"`
	UserRating *RatingResponse       `json:"userRating,omitempty"` // la del usuario que consulta
}
