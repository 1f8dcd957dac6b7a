package repository

import (
	"context"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// MealPlanFilter rango de fechas inclusivo; fechas cero = sin límite.
type MealPlanFilter struct {
	From time.Time
	To   time.Time
}

// MealPlanRepository persistencia de la planificación semanal.
type MealPlanRepository interface {
	List(ctx context.Context, scope Scope, filter MealPlanFilter) ([]*entity.MealPlan, error)
	GetByID(ctx context.Context, id string, scope Scope) (*entity.MealPlan, error)
	Create(ctx context.Context, plan *entity.MealPlan) error
	// Update ErrNotFound si el plan no existe en el alcance.
	Update(ctx context.Context, plan *entity.MealPlan, scope Scope) error
	Delete(ctx context.Context, id string, scope Scope) (bool, error)
}
