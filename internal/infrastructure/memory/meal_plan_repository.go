package memory

import (
	"context"
	"sort"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.MealPlanRepository = (*MealPlanRepo)(nil)

// MealPlanRepo planes de comidas en memoria.
type MealPlanRepo struct {
	db *DB
}

// NewMealPlanRepository construye el repositorio.
func NewMealPlanRepository(db *DB) *MealPlanRepo {
	return &MealPlanRepo{db: db}
}

func (r *MealPlanRepo) List(_ context.Context, scope repository.Scope, filter repository.MealPlanFilter) ([]*entity.MealPlan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*entity.MealPlan
	for _, p := range r.db.plans {
		if !scope.Allows(p.CreatedBy, p.FamilyID) {
			continue
		}
		if !filter.From.IsZero() && p.Fecha.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && p.Fecha.After(filter.To) {
			continue
		}
		out = append(out, r.db.clonePlan(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fecha.Equal(out[j].Fecha) {
			return out[i].Fecha.Before(out[j].Fecha)
		}
		return out[i].TipoComida < out[j].TipoComida
	})
	return out, nil
}

func (r *MealPlanRepo) GetByID(_ context.Context, id string, scope repository.Scope) (*entity.MealPlan, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p := r.db.plans[id]
	if p == nil || !scope.Allows(p.CreatedBy, p.FamilyID) {
		return nil, nil
	}
	return r.db.clonePlan(p), nil
}

func (r *MealPlanRepo) Create(_ context.Context, plan *entity.MealPlan) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.recipes[plan.RecipeID] == nil {
		return domain.ErrNotFound
	}
	c := *plan
	c.Recipe = nil
	r.db.plans[plan.ID] = &c
	return nil
}

func (r *MealPlanRepo) Update(_ context.Context, plan *entity.MealPlan, scope repository.Scope) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur := r.db.plans[plan.ID]
	if cur == nil || !scope.Allows(cur.CreatedBy, cur.FamilyID) {
		return domain.ErrNotFound
	}
	cur.RecipeID = plan.RecipeID
	cur.Fecha = plan.Fecha
	cur.TipoComida = plan.TipoComida
	cur.Notas = plan.Notas
	cur.UpdatedAt = plan.UpdatedAt
	return nil
}

func (r *MealPlanRepo) Delete(_ context.Context, id string, scope repository.Scope) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p := r.db.plans[id]
	if p == nil || !scope.Allows(p.CreatedBy, p.FamilyID) {
		return false, nil
	}
	r.db.deletePlanLocked(id)
	return true, nil
}
