package usecase

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Se usa en los flujos verificar-y-actuar (borrar receta, planificar comida) para cerrar la ventana de carrera.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		recipeRepo repository.RecipeRepository,
		mealPlanRepo repository.MealPlanRepository,
	) error) error
}

// DBPinger verifica la conectividad con la base de datos.
type DBPinger interface {
	Ping(ctx context.Context) error
}
