package dto

import "time"

// CreateMealPlanRequest asigna una receta a un día y comida.
type CreateMealPlanRequest struct {
	RecipeID   string `json:"recipeId" validate:"required,uuid"`
	Fecha      string `json:"fecha" validate:"required,datetime=2006-01-02"`
	TipoComida string `json:"tipoComida" validate:"required,oneof=almuerzo cena"`
	Notas      string `json:"notas" validate:"max=500"`
}

// UpdateMealPlanRequest actualización parcial de un plan.
type UpdateMealPlanRequest struct {
	RecipeID   *string `json:"recipeId" validate:"omitempty,uuid"`
	Fecha      *string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	TipoComida *string `json:"tipoComida" validate:"omitempty,oneof=almuerzo cena"`
	Notas      *string `json:"notas" validate:"omitempty,max=500"`
}

// MealPlanListQuery startDate = semana de 7 días desde esa fecha; date = un día puntual.
type MealPlanListQuery struct {
	StartDate string `query:"startDate" validate:"omitempty,datetime=2006-01-02"`
	Date      string `query:"date" validate:"omitempty,datetime=2006-01-02"`
}

// MealPlanResponse salida de un plan con la receta embebida.
type MealPlanResponse struct {
	ID         string                 `json:"id"`
	RecipeID   string                 `json:"recipeId"`
	Fecha      string                 `json:"fecha"`
	TipoComida string                 `json:"tipoComida"`
	Notas      string                 `json:"notas"`
	CreatedBy  string                 `json:"createdBy"`
	FamilyID   *string                `json:"familyId"`
	Recipe     *RecipeSummaryResponse `json:"recipe,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}
