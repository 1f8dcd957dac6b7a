package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

const commentSelect = `
	SELECT c.id, c.meal_plan_id, c.user_id, u.name, c.family_id, c.comment, c.emoji, c.created_at
	FROM meal_comments c
	JOIN users u ON u.id = c.user_id`

// CommentRepo comentarios de comidas sobre PostgreSQL.
type CommentRepo struct {
	q Querier
}

// NewCommentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommentRepository(q Querier) *CommentRepo {
	return &CommentRepo{q: q}
}

// ListByMealPlan comentarios en orden cronológico.
func (r *CommentRepo) ListByMealPlan(ctx context.Context, mealPlanID string, scope repository.Scope) ([]*entity.MealComment, error) {
	where, args := scopeClause("c", scope, []any{mealPlanID})
	rows, err := r.q.Query(ctx, commentSelect+` WHERE c.meal_plan_id = $1 AND `+where+` ORDER BY c.created_at`, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()
	var out []*entity.MealComment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepo) Create(ctx context.Context, comment *entity.MealComment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO meal_comments (id, meal_plan_id, user_id, family_id, comment, emoji, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		comment.ID, comment.MealPlanID, comment.UserID, nullable(comment.FamilyID),
		comment.Comment, comment.Emoji, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id string, scope repository.Scope) (*entity.MealComment, error) {
	where, args := scopeClause("c", scope, []any{id})
	c, err := scanComment(r.q.QueryRow(ctx, commentSelect+` WHERE c.id = $1 AND `+where, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string, scope repository.Scope) (bool, error) {
	where, args := scopeClause("", scope, []any{id})
	tag, err := r.q.Exec(ctx, `DELETE FROM meal_comments WHERE id = $1 AND `+where, args...)
	if err != nil {
		return false, fmt.Errorf("delete comment: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanComment(row pgx.Row) (*entity.MealComment, error) {
	var (
		c        entity.MealComment
		familyID *string
	)
	if err := row.Scan(&c.ID, &c.MealPlanID, &c.UserID, &c.UserName, &familyID, &c.Comment, &c.Emoji, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.FamilyID = deref(familyID)
	return &c, nil
}
