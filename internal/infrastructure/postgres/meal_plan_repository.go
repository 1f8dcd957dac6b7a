package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.MealPlanRepository = (*MealPlanRepo)(nil)

const mealPlanSelect = `
	SELECT p.id, p.recipe_id, p.fecha, p.tipo_comida, p.notas, p.user_id, p.family_id, p.created_at, p.updated_at,
		r.name, r.category, r.image_url, r.kids_rating
	FROM meal_plans p
	JOIN recipes r ON r.id = p.recipe_id`

// MealPlanRepo planificación semanal sobre PostgreSQL.
type MealPlanRepo struct {
	q Querier
}

// NewMealPlanRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMealPlanRepository(q Querier) *MealPlanRepo {
	return &MealPlanRepo{q: q}
}

// List planes del alcance ordenados por fecha y comida.
func (r *MealPlanRepo) List(ctx context.Context, scope repository.Scope, filter repository.MealPlanFilter) ([]*entity.MealPlan, error) {
	where, args := scopeClause("p", scope, nil)
	conds := []string{where}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		conds = append(conds, fmt.Sprintf("p.fecha >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		conds = append(conds, fmt.Sprintf("p.fecha <= $%d", len(args)))
	}
	query := mealPlanSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY p.fecha, p.tipo_comida`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meal plans: %w", err)
	}
	defer rows.Close()
	var out []*entity.MealPlan
	for rows.Next() {
		p, err := scanMealPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meal plan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *MealPlanRepo) GetByID(ctx context.Context, id string, scope repository.Scope) (*entity.MealPlan, error) {
	where, args := scopeClause("p", scope, []any{id})
	p, err := scanMealPlan(r.q.QueryRow(ctx, mealPlanSelect+` WHERE p.id = $1 AND `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get meal plan: %w", err)
	}
	return p, nil
}

func (r *MealPlanRepo) Create(ctx context.Context, plan *entity.MealPlan) error {
	query := `
		INSERT INTO meal_plans (id, recipe_id, fecha, tipo_comida, notas, user_id, family_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		plan.ID, plan.RecipeID, plan.Fecha, string(plan.TipoComida), plan.Notas,
		plan.CreatedBy, nullable(plan.FamilyID), plan.CreatedAt, plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert meal plan: %w", err)
	}
	return nil
}

// Update ErrNotFound si el plan no está en el alcance.
func (r *MealPlanRepo) Update(ctx context.Context, plan *entity.MealPlan, scope repository.Scope) error {
	args := []any{plan.ID, plan.RecipeID, plan.Fecha, string(plan.TipoComida), plan.Notas, plan.UpdatedAt}
	where, args := scopeClause("", scope, args)
	tag, err := r.q.Exec(ctx, `
		UPDATE meal_plans SET recipe_id = $2, fecha = $3, tipo_comida = $4, notas = $5, updated_at = $6
		WHERE id = $1 AND `+where, args...)
	if err != nil {
		return fmt.Errorf("update meal plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MealPlanRepo) Delete(ctx context.Context, id string, scope repository.Scope) (bool, error) {
	where, args := scopeClause("", scope, []any{id})
	tag, err := r.q.Exec(ctx, `DELETE FROM meal_plans WHERE id = $1 AND `+where, args...)
	if err != nil {
		return false, fmt.Errorf("delete meal plan: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanMealPlan(row pgx.Row) (*entity.MealPlan, error) {
	var (
		p        entity.MealPlan
		tipo     string
		familyID *string
		summary  entity.RecipeSummary
	)
	err := row.Scan(
		&p.ID, &p.RecipeID, &p.Fecha, &tipo, &p.Notas, &p.CreatedBy, &familyID, &p.CreatedAt, &p.UpdatedAt,
		&summary.Name, &summary.Category, &summary.ImageURL, &summary.KidsRating,
	)
	if err != nil {
		return nil, err
	}
	p.TipoComida = entity.MealType(tipo)
	p.FamilyID = deref(familyID)
	summary.ID = p.RecipeID
	p.Recipe = &summary
	return &p, nil
}
