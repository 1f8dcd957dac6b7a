package memory

import (
	"context"
	"sort"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.CommentRepository = (*CommentRepo)(nil)

// CommentRepo comentarios en memoria.
type CommentRepo struct {
	db *DB
}

// NewCommentRepository construye el repositorio.
func NewCommentRepository(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) ListByMealPlan(_ context.Context, mealPlanID string, scope repository.Scope) ([]*entity.MealComment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*entity.MealComment
	for _, c := range r.db.comments {
		if c.MealPlanID != mealPlanID || !scope.Allows(c.UserID, c.FamilyID) {
			continue
		}
		cp := *c
		cp.UserName = r.db.userName(c.UserID)
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CommentRepo) Create(_ context.Context, comment *entity.MealComment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.plans[comment.MealPlanID] == nil {
		return domain.ErrNotFound
	}
	c := *comment
	r.db.comments[comment.ID] = &c
	return nil
}

func (r *CommentRepo) GetByID(_ context.Context, id string, scope repository.Scope) (*entity.MealComment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c := r.db.comments[id]
	if c == nil || !scope.Allows(c.UserID, c.FamilyID) {
		return nil, nil
	}
	cp := *c
	cp.UserName = r.db.userName(c.UserID)
	return &cp, nil
}

func (r *CommentRepo) Delete(_ context.Context, id string, scope repository.Scope) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	c := r.db.comments[id]
	if c == nil || !scope.Allows(c.UserID, c.FamilyID) {
		return false, nil
	}
	delete(r.db.comments, id)
	return true, nil
}
