package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.RatingRepository = (*RatingRepo)(nil)

// RatingRepo calificaciones en memoria.
type RatingRepo struct {
	db *DB
}

// NewRatingRepository construye el repositorio.
func NewRatingRepository(db *DB) *RatingRepo {
	return &RatingRepo{db: db}
}

func ratingKey(recipeID, userID string) string { return recipeID + "|" + userID }

func (r *RatingRepo) Upsert(_ context.Context, rating *entity.RecipeRating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.recipes[rating.RecipeID] == nil {
		return domain.ErrNotFound
	}
	key := ratingKey(rating.RecipeID, rating.UserID)
	if cur := r.db.ratings[key]; cur != nil {
		cur.Rating = rating.Rating
		cur.Comment = rating.Comment
		cur.UpdatedAt = rating.UpdatedAt
		rating.ID, rating.CreatedAt = cur.ID, cur.CreatedAt
		return nil
	}
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	c := *rating
	r.db.ratings[key] = &c
	return nil
}

func (r *RatingRepo) ListByRecipe(_ context.Context, recipeID string, scope repository.Scope) ([]*entity.RecipeRating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*entity.RecipeRating
	for _, rt := range r.db.ratings {
		if rt.RecipeID != recipeID || !scope.Allows(rt.UserID, rt.FamilyID) {
			continue
		}
		c := *rt
		c.UserName = r.db.userName(rt.UserID)
		out = append(out, &c)
	}
	sortByCreatedDesc(out, func(r *entity.RecipeRating) time.Time { return r.UpdatedAt })
	return out, nil
}

func (r *RatingRepo) Summary(ctx context.Context, recipeID string, scope repository.Scope) (entity.RatingSummary, error) {
	list, err := r.ListByRecipe(ctx, recipeID, scope)
	if err != nil || len(list) == 0 {
		return entity.RatingSummary{Average: decimal.Zero}, err
	}
	sum := decimal.Zero
	for _, rt := range list {
		sum = sum.Add(decimal.NewFromInt(int64(rt.Rating)))
	}
	return entity.RatingSummary{
		Count:   len(list),
		Average: sum.DivRound(decimal.NewFromInt(int64(len(list))), 2),
	}, nil
}

func (r *RatingRepo) GetByUser(_ context.Context, recipeID, userID string) (*entity.RecipeRating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if rt := r.db.ratings[ratingKey(recipeID, userID)]; rt != nil {
		c := *rt
		return &c, nil
	}
	return nil, nil
}

func (r *RatingRepo) Delete(_ context.Context, recipeID, userID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := ratingKey(recipeID, userID)
	if _, ok := r.db.ratings[key]; !ok {
		return false, nil
	}
	delete(r.db.ratings, key)
	return true, nil
}
