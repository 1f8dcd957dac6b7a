package repository

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// RecipeFilter filtros opcionales del listado.
type RecipeFilter struct {
	Category      string
	Search        string // texto libre; se compara plegado contra nombre y descripción
	FavoritesOnly bool
}

// RecipeRepository persistencia de recetas. Toda operación respeta el Scope:
// fuera de alcance se comporta igual que inexistente.
type RecipeRepository interface {
	List(ctx context.Context, scope Scope, filter RecipeFilter) ([]*entity.Recipe, error)
	GetByID(ctx context.Context, id string, scope Scope) (*entity.Recipe, error)
	// GetForUpdate bloquea la fila (FOR UPDATE) dentro de una transacción.
	GetForUpdate(ctx context.Context, id string, scope Scope) (*entity.Recipe, error)
	// GetForShare bloquea la fila en modo compartido (FOR SHARE) dentro de una transacción.
	GetForShare(ctx context.Context, id string, scope Scope) (*entity.Recipe, error)
	Create(ctx context.Context, recipe *entity.Recipe) error
	// Update ErrNotFound si la receta no existe en el alcance.
	Update(ctx context.Context, recipe *entity.Recipe, scope Scope) error
	Delete(ctx context.Context, id string, scope Scope) (bool, error)
	IsUsedInMealPlans(ctx context.Context, id string, scope Scope) (bool, error)
	SetFavorite(ctx context.Context, id string, scope Scope, favorite bool) error
}
