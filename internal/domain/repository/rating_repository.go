package repository

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// RatingRepository calificaciones de recetas; una fila por (receta, usuario).
type RatingRepository interface {
	// Upsert inserta o reemplaza la calificación del usuario y completa ID y timestamps.
	Upsert(ctx context.Context, rating *entity.RecipeRating) error
	ListByRecipe(ctx context.Context, recipeID string, scope Scope) ([]*entity.RecipeRating, error)
	Summary(ctx context.Context, recipeID string, scope Scope) (entity.RatingSummary, error)
	GetByUser(ctx context.Context, recipeID, userID string) (*entity.RecipeRating, error)
	Delete(ctx context.Context, recipeID, userID string) (bool, error)
}
