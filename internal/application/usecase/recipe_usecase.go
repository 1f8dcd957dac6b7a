package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// RecipeUseCase catálogo de recetas de la familia (o personal si el usuario no tiene familia).
type RecipeUseCase struct {
	repo     repository.RecipeRepository
	txRunner TxRunner
	now      func() time.Time
}

// NewRecipeUseCase construye el caso de uso.
func NewRecipeUseCase(repo repository.RecipeRepository, txRunner TxRunner) *RecipeUseCase {
	return &RecipeUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// List lista las recetas visibles para el usuario con filtros opcionales.
func (uc *RecipeUseCase) List(ctx context.Context, user *entity.User, q dto.RecipeListQuery) ([]dto.RecipeResponse, error) {
	list, err := uc.repo.List(ctx, repository.ScopeFor(user), repository.RecipeFilter{
		Category:      strings.TrimSpace(q.Category),
		Search:        strings.TrimSpace(q.Search),
		FavoritesOnly: q.Favorites,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecipeResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecipeResponse(r))
	}
	return out, nil
}

// GetByID obtiene una receta del alcance del usuario.
func (uc *RecipeUseCase) GetByID(ctx context.Context, user *entity.User, id string) (*dto.RecipeResponse, error) {
	recipe, err := uc.find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// Create crea una receta en la familia del usuario.
func (uc *RecipeUseCase) Create(ctx context.Context, user *entity.User, in dto.CreateRecipeRequest) (*dto.RecipeResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	recipe := &entity.Recipe{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  in.Description,
		ImageURL:     in.ImageURL,
		Link:         in.Link,
		Category:     strings.TrimSpace(in.Category),
		KidsRating:   in.KidsRating,
		Ingredients:  cleanIngredients(in.Ingredients),
		Instructions: in.Instructions,
		PrepTime:     in.PrepTime,
		Portions:     in.Portions,
		IsFavorite:   in.IsFavorite,
		CreatedBy:    user.ID,
		FamilyID:     user.FamilyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// Update actualiza los campos enviados de una receta del alcance del usuario.
func (uc *RecipeUseCase) Update(ctx context.Context, user *entity.User, id string, in dto.UpdateRecipeRequest) (*dto.RecipeResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	recipe, err := uc.find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		recipe.Name = name
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if in.ImageURL != nil {
		recipe.ImageURL = *in.ImageURL
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}
	if in.Category != nil {
		recipe.Category = strings.TrimSpace(*in.Category)
	}
	if in.KidsRating != nil {
		recipe.KidsRating = *in.KidsRating
	}
	if in.Ingredients != nil {
		recipe.Ingredients = cleanIngredients(*in.Ingredients)
	}
	if in.Instructions != nil {
		recipe.Instructions = *in.Instructions
	}
	if in.PrepTime != nil {
		recipe.PrepTime = *in.PrepTime
	}
	if in.Portions != nil {
		recipe.Portions = *in.Portions
	}
	if in.IsFavorite != nil {
		recipe.IsFavorite = *in.IsFavorite
	}
	recipe.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, recipe, repository.ScopeFor(user)); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

// Delete elimina una receta que no esté asignada a ninguna comida.
// Bloqueo, verificación de uso y borrado ocurren en la misma transacción.
func (uc *RecipeUseCase) Delete(ctx context.Context, user *entity.User, id string) error {
	if !canEdit(user) {
		return domain.ErrForbidden
	}
	if !validID(id) {
		return domain.ErrNotFound
	}
	scope := repository.ScopeFor(user)
	return uc.txRunner.Run(ctx, func(recipeRepo repository.RecipeRepository, _ repository.MealPlanRepository) error {
		recipe, err := recipeRepo.GetForUpdate(ctx, id, scope)
		if err != nil {
			return err
		}
		if recipe == nil {
			return domain.ErrNotFound
		}
		used, err := recipeRepo.IsUsedInMealPlans(ctx, id, scope)
		if err != nil {
			return err
		}
		if used {
			return domain.ErrRecipeInUse
		}
		deleted, err := recipeRepo.Delete(ctx, id, scope)
		if err != nil {
			return err
		}
		if !deleted {
			return domain.ErrNotFound
		}
		return nil
	})
}

// ToggleFavorite invierte la marca de favorita.
func (uc *RecipeUseCase) ToggleFavorite(ctx context.Context, user *entity.User, id string) (*dto.RecipeResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	recipe, err := uc.find(ctx, user, id)
	if err != nil {
		return nil, err
	}
	recipe.IsFavorite = !recipe.IsFavorite
	if err := uc.repo.SetFavorite(ctx, id, repository.ScopeFor(user), recipe.IsFavorite); err != nil {
		return nil, err
	}
	return toRecipeResponse(recipe), nil
}

func (uc *RecipeUseCase) find(ctx context.Context, user *entity.User, id string) (*entity.Recipe, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	recipe, err := uc.repo.GetByID(ctx, id, repository.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	if recipe == nil {
		return nil, domain.ErrNotFound
	}
	return recipe, nil
}

func cleanIngredients(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toRecipeResponse(r *entity.Recipe) *dto.RecipeResponse {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return &dto.RecipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		Link:         r.Link,
		Category:     r.Category,
		KidsRating:   r.KidsRating,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		Portions:     r.Portions,
		IsFavorite:   r.IsFavorite,
		CreatedBy:    r.CreatedBy,
		FamilyID:     optionalString(r.FamilyID),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
