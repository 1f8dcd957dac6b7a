package repository

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// CommentRepository comentarios sobre comidas planificadas.
type CommentRepository interface {
	ListByMealPlan(ctx context.Context, mealPlanID string, scope Scope) ([]*entity.MealComment, error)
	Create(ctx context.Context, comment *entity.MealComment) error
	GetByID(ctx context.Context, id string, scope Scope) (*entity.MealComment, error)
	Delete(ctx context.Context, id string, scope Scope) (bool, error)
}
