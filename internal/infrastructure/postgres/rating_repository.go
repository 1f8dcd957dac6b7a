package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.RatingRepository = (*RatingRepo)(nil)

// RatingRepo calificaciones sobre PostgreSQL; UNIQUE(recipe_id, user_id).
type RatingRepo struct {
	q Querier
}

// NewRatingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRatingRepository(q Querier) *RatingRepo {
	return &RatingRepo{q: q}
}

// Upsert inserta o reemplaza la calificación; conserva id y created_at de la fila existente.
func (r *RatingRepo) Upsert(ctx context.Context, rating *entity.RecipeRating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	query := `
		INSERT INTO recipe_ratings (id, recipe_id, user_id, family_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (recipe_id, user_id) DO UPDATE
			SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		rating.ID, rating.RecipeID, rating.UserID, nullable(rating.FamilyID), rating.Rating, rating.Comment,
		rating.CreatedAt, rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// ListByRecipe calificaciones del alcance, la más reciente primero.
func (r *RatingRepo) ListByRecipe(ctx context.Context, recipeID string, scope repository.Scope) ([]*entity.RecipeRating, error) {
	where, args := scopeClause("rr", scope, []any{recipeID})
	rows, err := r.q.Query(ctx, `
		SELECT rr.id, rr.recipe_id, rr.user_id, u.name, rr.family_id, rr.rating, rr.comment, rr.created_at, rr.updated_at
		FROM recipe_ratings rr
		JOIN users u ON u.id = rr.user_id
		WHERE rr.recipe_id = $1 AND `+where+`
		ORDER BY rr.updated_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()
	var out []*entity.RecipeRating
	for rows.Next() {
		rt, err := scanRating(rows, true)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, rt)
	}
	return out, rows.Err()
}

// Summary cantidad y promedio exacto (NUMERIC) de las calificaciones del alcance.
func (r *RatingRepo) Summary(ctx context.Context, recipeID string, scope repository.Scope) (entity.RatingSummary, error) {
	where, args := scopeClause("", scope, []any{recipeID})
	var summary entity.RatingSummary
	err := r.q.QueryRow(ctx, `
		SELECT count(*), COALESCE(AVG(rating)::numeric, 0)
		FROM recipe_ratings
		WHERE recipe_id = $1 AND `+where, args...).Scan(&summary.Count, &summary.Average)
	if err != nil {
		return entity.RatingSummary{Average: decimal.Zero}, fmt.Errorf("rating summary: %w", err)
	}
	return summary, nil
}

func (r *RatingRepo) GetByUser(ctx context.Context, recipeID, userID string) (*entity.RecipeRating, error) {
	rt, err := scanRating(r.q.QueryRow(ctx, `
		SELECT id, recipe_id, user_id, family_id, rating, comment, created_at, updated_at
		FROM recipe_ratings WHERE recipe_id = $1 AND user_id = $2`, recipeID, userID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return rt, nil
}

func (r *RatingRepo) Delete(ctx context.Context, recipeID, userID string) (bool, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM recipe_ratings WHERE recipe_id = $1 AND user_id = $2`, recipeID, userID)
	if err != nil {
		return false, fmt.Errorf("delete rating: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanRating(row pgx.Row, withName bool) (*entity.RecipeRating, error) {
	var (
		rt       entity.RecipeRating
		familyID *string
	)
	dest := []any{&rt.ID, &rt.RecipeID, &rt.UserID}
	if withName {
		dest = append(dest, &rt.UserName)
	}
	dest = append(dest, &familyID, &rt.Rating, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	rt.FamilyID = deref(familyID)
	return &rt, nil
}
