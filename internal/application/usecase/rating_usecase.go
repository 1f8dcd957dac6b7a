package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// RatingUseCase calificaciones de recetas; cualquier miembro puede calificar.
type RatingUseCase struct {
	ratingRepo repository.RatingRepository
	recipeRepo repository.RecipeRepository
	now        func() time.Time
}

// NewRatingUseCase construye el caso de uso.
func NewRatingUseCase(ratingRepo repository.RatingRepository, recipeRepo repository.RecipeRepository) *RatingUseCase {
	return &RatingUseCase{ratingRepo: ratingRepo, recipeRepo: recipeRepo, now: time.Now}
}

// Rate guarda la calificación del usuario; si ya existía se reemplaza.
func (uc *RatingUseCase) Rate(ctx context.Context, user *entity.User, recipeID string, in dto.RateRecipeRequest) (*dto.RatingResponse, error) {
	if !user.Role.CanRate() {
		return nil, domain.ErrForbidden
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrInvalidInput
	}
	recipe, err := uc.visibleRecipe(ctx, user, recipeID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	rating := &entity.RecipeRating{
		RecipeID:  recipe.ID,
		UserID:    user.ID,
		UserName:  user.Name,
		FamilyID:  recipe.FamilyID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}
	out := toRatingResponse(rating)
	return &out, nil
}

// List devuelve las calificaciones de una receta con el resumen (promedio con un decimal)
// y la calificación propia del usuario, si existe.
func (uc *RatingUseCase) List(ctx context.Context, user *entity.User, recipeID string) (*dto.RecipeRatingsResponse, error) {
	recipe, err := uc.visibleRecipe(ctx, user, recipeID)
	if err != nil {
		return nil, err
	}
	scope := repository.ScopeFor(user)
	ratings, err := uc.ratingRepo.ListByRecipe(ctx, recipe.ID, scope)
	if err != nil {
		return nil, err
	}
	summary, err := uc.ratingRepo.Summary(ctx, recipe.ID, scope)
	if err != nil {
		return nil, err
	}
	out := &dto.RecipeRatingsResponse{
		Ratings: make([]dto.RatingResponse, 0, len(ratings)),
		Summary: dto.RatingSummaryResponse{
			Count:         summary.Count,
			AverageRating: summary.Average.StringFixed(1),
		},
	}
	for _, r := range ratings {
		out.Ratings = append(out.Ratings, toRatingResponse(r))
	}
	own, err := uc.ratingRepo.GetByUser(ctx, recipe.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if own != nil {
		mine := toRatingResponse(own)
		out.UserRating = &mine
	}
	return out, nil
}

func (uc *RatingUseCase) visibleRecipe(ctx context.Context, user *entity.User, recipeID string) (*entity.Recipe, error) {
	if !validID(recipeID) {
		return nil, domain.ErrNotFound
	}
	recipe, err := uc.recipeRepo.GetByID(ctx, recipeID, repository.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	return recipe, nil
}

func toRatingResponse(r *entity.RecipeRating) dto.RatingResponse {
	return dto.RatingResponse{
		ID:        r.ID,
		RecipeID:  r.RecipeID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
