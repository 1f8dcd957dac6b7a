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
	"github.com/luchotourn/menusemanal-sub000/pkg/textnorm"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

const recipeColumns = `r.id, r.name, r.description, r.image_url, r.link, r.category, r.kids_rating, r.ingredients,
	r.instructions, r.prep_time, r.portions, r.is_favorite, r.user_id, r.family_id, r.created_at, r.updated_at`

// RecipeRepo recetas sobre PostgreSQL. Toda consulta agrega el predicado del Scope.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// List recetas del alcance, más recientes primero.
func (r *RecipeRepo) List(ctx context.Context, scope repository.Scope, filter repository.RecipeFilter) ([]*entity.Recipe, error) {
	where, args := scopeClause("r", scope, nil)
	conds := []string{where}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("lower(r.category) = lower($%d)", len(args)))
	}
	if filter.FavoritesOnly {
		conds = append(conds, "r.is_favorite")
	}
	if s := textnorm.Fold(filter.Search); s != "" {
		args = append(args, s)
		conds = append(conds, fmt.Sprintf("strpos(r.search_key, $%d) > 0", len(args)))
	}
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY r.created_at DESC`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var out []*entity.Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *RecipeRepo) GetByID(ctx context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	return r.get(ctx, id, scope, "")
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *RecipeRepo) GetForUpdate(ctx context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	return r.get(ctx, id, scope, " FOR UPDATE")
}

// GetForShare impide borrar la fila hasta el fin de la transacción.
func (r *RecipeRepo) GetForShare(ctx context.Context, id string, scope repository.Scope) (*entity.Recipe, error) {
	return r.get(ctx, id, scope, " FOR SHARE")
}

func (r *RecipeRepo) get(ctx context.Context, id string, scope repository.Scope, lock string) (*entity.Recipe, error) {
	where, args := scopeClause("r", scope, []any{id})
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.id = $1 AND ` + where + lock
	rec, err := scanRecipe(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return rec, nil
}

func (r *RecipeRepo) Create(ctx context.Context, recipe *entity.Recipe) error {
	query := `
		INSERT INTO recipes (id, name, description, image_url, link, category, kids_rating, ingredients,
			instructions, prep_time, portions, is_favorite, search_key, user_id, family_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		recipe.ID, recipe.Name, recipe.Description, recipe.ImageURL, recipe.Link, recipe.Category,
		recipe.KidsRating, ingredientsArg(recipe.Ingredients), recipe.Instructions, recipe.PrepTime,
		recipe.Portions, recipe.IsFavorite, textnorm.SearchKey(recipe.Name, recipe.Description),
		recipe.CreatedBy, nullable(recipe.FamilyID), recipe.CreatedAt, recipe.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// Update reescribe los campos editables; ErrNotFound si la receta no está en el alcance.
func (r *RecipeRepo) Update(ctx context.Context, recipe *entity.Recipe, scope repository.Scope) error {
	args := []any{
		recipe.ID, recipe.Name, recipe.Description, recipe.ImageURL, recipe.Link, recipe.Category,
		recipe.KidsRating, ingredientsArg(recipe.Ingredients), recipe.Instructions, recipe.PrepTime,
		recipe.Portions, recipe.IsFavorite, textnorm.SearchKey(recipe.Name, recipe.Description), recipe.UpdatedAt,
	}
	where, args := scopeClause("", scope, args)
	query := `
		UPDATE recipes SET name = $2, description = $3, image_url = $4, link = $5, category = $6,
			kids_rating = $7, ingredients = $8, instructions = $9, prep_time = $10, portions = $11,
			is_favorite = $12, search_key = $13, updated_at = $14
		WHERE id = $1 AND ` + where
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete devuelve false si la receta no existe o está fuera del alcance.
func (r *RecipeRepo) Delete(ctx context.Context, id string, scope repository.Scope) (bool, error) {
	where, args := scopeClause("", scope, []any{id})
	tag, err := r.q.Exec(ctx, `DELETE FROM recipes WHERE id = $1 AND `+where, args...)
	if err != nil {
		return false, fmt.Errorf("delete recipe: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RecipeRepo) IsUsedInMealPlans(ctx context.Context, id string, scope repository.Scope) (bool, error) {
	where, args := scopeClause("", scope, []any{id})
	var used bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM meal_plans WHERE recipe_id = $1 AND `+where+`)`, args...).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("recipe in use: %w", err)
	}
	return used, nil
}

func (r *RecipeRepo) SetFavorite(ctx context.Context, id string, scope repository.Scope, favorite bool) error {
	where, args := scopeClause("", scope, []any{id, favorite})
	tag, err := r.q.Exec(ctx,
		`UPDATE recipes SET is_favorite = $2, updated_at = now() WHERE id = $1 AND `+where, args...)
	if err != nil {
		return fmt.Errorf("set favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func ingredientsArg(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func scanRecipe(row pgx.Row) (*entity.Recipe, error) {
	var (
		rec      entity.Recipe
		familyID *string
	)
	err := row.Scan(
		&rec.ID, &rec.Name, &rec.Description, &rec.ImageURL, &rec.Link, &rec.Category, &rec.KidsRating,
		&rec.Ingredients, &rec.Instructions, &rec.PrepTime, &rec.Portions, &rec.IsFavorite,
		&rec.CreatedBy, &familyID, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.FamilyID = deref(familyID)
	return &rec, nil
}
