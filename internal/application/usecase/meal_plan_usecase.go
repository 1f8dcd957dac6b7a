package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// weekDays largo de la ventana de startDate.
const weekDays = 7

// MealPlanUseCase planificación semanal de comidas.
type MealPlanUseCase struct {
	repo     repository.MealPlanRepository
	txRunner TxRunner
	pdf      ports.MenuPDFGenerator
	now      func() time.Time
}

// NewMealPlanUseCase construye el caso de uso.
func NewMealPlanUseCase(repo repository.MealPlanRepository, txRunner TxRunner, pdf ports.MenuPDFGenerator) *MealPlanUseCase {
	return &MealPlanUseCase{repo: repo, txRunner: txRunner, pdf: pdf, now: time.Now}
}

// ParseDate interpreta una fecha YYYY-MM-DD en UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(entity.DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
	}
	return t, nil
}

// List lista los planes visibles: startDate = 7 días desde esa fecha; date = un día; nada = todos.
func (uc *MealPlanUseCase) List(ctx context.Context, user *entity.User, q dto.MealPlanListQuery) ([]dto.MealPlanResponse, error) {
	filter, err := listFilter(q)
	if err != nil {
		return nil, err
	}
	plans, err := uc.repo.List(ctx, repository.ScopeFor(user), filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MealPlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, *toMealPlanResponse(p))
	}
	return out, nil
}

// GetByID obtiene un plan del alcance del usuario.
func (uc *MealPlanUseCase) GetByID(ctx context.Context, user *entity.User, id string) (*dto.MealPlanResponse, error) {
	plan, err := uc.find(ctx, uc.repo, user, id)
	if err != nil {
		return nil, err
	}
	return toMealPlanResponse(plan), nil
}

// Create asigna una receta del alcance a un día. La receta se bloquea en modo compartido
// para que no pueda borrarse mientras se inserta el plan.
func (uc *MealPlanUseCase) Create(ctx context.Context, user *entity.User, in dto.CreateMealPlanRequest) (*dto.MealPlanResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	fecha, err := ParseDate(in.Fecha)
	if err != nil {
		return nil, err
	}
	tipo := entity.MealType(in.TipoComida)
	if !tipo.Valid() || !validID(in.RecipeID) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	plan := &entity.MealPlan{
		ID:         uuid.New().String(),
		RecipeID:   in.RecipeID,
		Fecha:      fecha,
		TipoComida: tipo,
		Notas:      in.Notas,
		CreatedBy:  user.ID,
		FamilyID:   user.FamilyID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	scope := repository.ScopeFor(user)
	err = uc.txRunner.Run(ctx, func(recipeRepo repository.RecipeRepository, planRepo repository.MealPlanRepository) error {
		recipe, err := recipeRepo.GetForShare(ctx, plan.RecipeID, scope)
		if err != nil {
			return err
		}
		if recipe == nil {
			return fmt.Errorf("receta: %w", domain.ErrNotFound)
		}
		plan.Recipe = summaryOf(recipe)
		return planRepo.Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return toMealPlanResponse(plan), nil
}

// Update modifica los campos enviados de un plan.
func (uc *MealPlanUseCase) Update(ctx context.Context, user *entity.User, id string, in dto.UpdateMealPlanRequest) (*dto.MealPlanResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	scope := repository.ScopeFor(user)
	var plan *entity.MealPlan
	err := uc.txRunner.Run(ctx, func(recipeRepo repository.RecipeRepository, planRepo repository.MealPlanRepository) error {
		var err error
		plan, err = uc.find(ctx, planRepo, user, id)
		if err != nil {
			return err
		}
		if in.RecipeID != nil && *in.RecipeID != plan.RecipeID {
			if !validID(*in.RecipeID) {
				return domain.ErrInvalidInput
			}
			recipe, err := recipeRepo.GetForShare(ctx, *in.RecipeID, scope)
			if err != nil {
				return err
			}
			if recipe == nil {
				return fmt.Errorf("receta: %w", domain.ErrNotFound)
			}
			plan.RecipeID = recipe.ID
			plan.Recipe = summaryOf(recipe)
		}
		if in.Fecha != nil {
			fecha, err := ParseDate(*in.Fecha)
			if err != nil {
				return err
			}
			plan.Fecha = fecha
		}
		if in.TipoComida != nil {
			tipo := entity.MealType(*in.TipoComida)
			if !tipo.Valid() {
				return domain.ErrInvalidInput
			}
			plan.TipoComida = tipo
		}
		if in.Notas != nil {
			plan.Notas = *in.Notas
		}
		plan.UpdatedAt = uc.now()
		return planRepo.Update(ctx, plan, scope)
	})
	if err != nil {
		return nil, err
	}
	return toMealPlanResponse(plan), nil
}

// Delete elimina un plan del alcance del usuario.
func (uc *MealPlanUseCase) Delete(ctx context.Context, user *entity.User, id string) error {
	if !canEdit(user) {
		return domain.ErrForbidden
	}
	if !validID(id) {
		return domain.ErrNotFound
	}
	deleted, err := uc.repo.Delete(ctx, id, repository.ScopeFor(user))
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// ExportWeekPDF genera el menú imprimible de los 7 días desde startDate (vacío = lunes de esta semana).
func (uc *MealPlanUseCase) ExportWeekPDF(ctx context.Context, user *entity.User, startDate string) ([]byte, error) {
	var start time.Time
	if startDate == "" {
		start = mondayOf(uc.now())
	} else {
		var err error
		if start, err = ParseDate(startDate); err != nil {
			return nil, err
		}
	}
	plans, err := uc.repo.List(ctx, repository.ScopeFor(user), repository.MealPlanFilter{
		From: start,
		To:   start.AddDate(0, 0, weekDays-1),
	})
	if err != nil {
		return nil, err
	}
	menu := ports.WeeklyMenu{Title: "Menú semanal", StartDate: start}
	for _, p := range plans {
		entry := ports.MenuEntry{Fecha: p.Fecha, TipoComida: string(p.TipoComida), Notas: p.Notas}
		if p.Recipe != nil {
			entry.RecipeName = p.Recipe.Name
			entry.Category = p.Recipe.Category
		}
		menu.Entries = append(menu.Entries, entry)
	}
	return uc.pdf.WeeklyMenu(menu)
}

func (uc *MealPlanUseCase) find(ctx context.Context, repo repository.MealPlanRepository, user *entity.User, id string) (*entity.MealPlan, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	plan, err := repo.GetByID(ctx, id, repository.ScopeFor(user))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrNotFound
	}
	return plan, nil
}

func listFilter(q dto.MealPlanListQuery) (repository.MealPlanFilter, error) {
	switch {
	case q.StartDate != "":
		start, err := ParseDate(q.StartDate)
		if err != nil {
			return repository.MealPlanFilter{}, err
		}
		return repository.MealPlanFilter{From: start, To: start.AddDate(0, 0, weekDays-1)}, nil
	case q.Date != "":
		day, err := ParseDate(q.Date)
		if err != nil {
			return repository.MealPlanFilter{}, err
		}
		return repository.MealPlanFilter{From: day, To: day}, nil
	}
	return repository.MealPlanFilter{}, nil
}

func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func summaryOf(r *entity.Recipe) *entity.RecipeSummary {
	return &entity.RecipeSummary{
		ID:         r.ID,
		Name:       r.Name,
		Category:   r.Category,
		ImageURL:   r.ImageURL,
		KidsRating: r.KidsRating,
	}
}

func toMealPlanResponse(p *entity.MealPlan) *dto.MealPlanResponse {
	out := &dto.MealPlanResponse{
		ID:         p.ID,
		RecipeID:   p.RecipeID,
		Fecha:      p.Fecha.Format(entity.DateLayout),
		TipoComida: string(p.TipoComida),
		Notas:      p.Notas,
		CreatedBy:  p.CreatedBy,
		FamilyID:   optionalString(p.FamilyID),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Recipe != nil {
		out.Recipe = &dto.RecipeSummaryResponse{
			ID:         p.Recipe.ID,
			Name:       p.Recipe.Name,
			Category:   p.Recipe.Category,
			ImageURL:   p.Recipe.ImageURL,
			KidsRating: p.Recipe.KidsRating,
		}
	}
	return out
}
