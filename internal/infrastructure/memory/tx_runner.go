package memory

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner serializa los callbacks transaccionales. No hay rollback:
// los flujos que lo usan escriben solo en el último paso.
type TxRunner struct {
	db *DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run ejecuta fn con exclusión mutua respecto de otras transacciones.
func (r *TxRunner) Run(ctx context.Context, fn func(
	recipeRepo repository.RecipeRepository,
	mealPlanRepo repository.MealPlanRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.db.txMu.Lock()
	defer r.db.txMu.Unlock()
	return fn(NewRecipeRepository(r.db), NewMealPlanRepository(r.db))
}
