package memory

import (
	"context"
	"strings"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/pkg/textnorm"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo recetas en memoria.
type RecipeRepo struct {
	db *DB
}

// NewRecipeRepository construye el repositorio.
func NewRecipeRepository(db *DB) *RecipeRepo {
	return &RecipeRepo{db: db}
}

func (r *RecipeRepo) List(_ context.Context, scope repository.Scope, filter repository.RecipeFilter) ([]*entity.Recipe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	search := textnorm.Fold(filter.Search)
	var out []*entity.Recipe
	for _, rec := range r.db.recipes {
		if !scope.Allows(rec.CreatedBy, rec.FamilyID) {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(rec.Category, filter.Category) {
			continue
		}
		if filter.FavoritesOnly && !rec.IsFavorite {
			continue
		}
		if search != "" && !strings.Contains(textnorm.SearchKey(rec.Name, rec.Description), search) {
			continue
		}
		out = append(out, cloneRecipe(rec))
	}
	sortByCreatedDesc(out, func(r *entity.Recipe) time.Time { return r.CreatedAt })
	return out, nil
}

func (r *RecipeRepo) GetByID(_ context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rec := r.db.recipes[id]
	if rec == nil || !scope.Allows(rec.CreatedBy, rec.FamilyID) {
		return nil, nil
	}
	return cloneRecipe(rec), nil
}

// GetForUpdate equivale a GetByID: la exclusión la da TxRunner.
func (r *RecipeRepo) GetForUpdate(ctx context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	return r.GetByID(ctx, id, scope)
}

// GetForShare equivale a GetByID: la exclusión la da TxRunner.
func (r *RecipeRepo) GetForShare(ctx context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	return r.GetByID(ctx, id, scope)
}

func (r *RecipeRepo) Create(_ context.Context, recipe *entity.Recipe) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.recipes[recipe.ID]; ok {
		return domain.ErrDuplicate
	}
	r.db.recipes[recipe.ID] = cloneRecipe(recipe)
	return nil
}

func (r *RecipeRepo) Update(_ context.Context, recipe *entity.Recipe, scope repository.Scope) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur := r.db.recipes[recipe.ID]
	if cur == nil || !scope.Allows(cur.CreatedBy, cur.FamilyID) {
		return domain.ErrNotFound
	}
	c := cloneRecipe(recipe)
	c.CreatedBy, c.FamilyID, c.CreatedAt = cur.CreatedBy, cur.FamilyID, cur.CreatedAt
	r.db.recipes[recipe.ID] = c
	return nil
}

func (r *RecipeRepo) Delete(_ context.Context, id string, scope repository.Scope) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rec := r.db.recipes[id]
	if rec == nil || !scope.Allows(rec.CreatedBy, rec.FamilyID) {
		return false, nil
	}
	r.db.deleteRecipeLocked(id)
	return true, nil
}

func (r *RecipeRepo) IsUsedInMealPlans(_ context.Context, id string, scope repository.Scope) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.plans {
		if p.RecipeID == id && scope.Allows(p.CreatedBy, p.FamilyID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecipeRepo) SetFavorite(_ context.Context, id string, scope repository.Scope, favorite bool) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rec := r.db.recipes[id]
	if rec == nil || !scope.Allows(rec.CreatedBy, rec.FamilyID) {
		return domain.ErrNotFound
	}
	rec.IsFavorite = favorite
	rec.UpdatedAt = time.Now()
	return nil
}
