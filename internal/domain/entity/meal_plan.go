package entity

import "time"

// MealType comida del día.
type MealType string

const (
	MealTypeAlmuerzo MealType = "almuerzo"
	MealTypeCena     MealType = "cena"
)

// Valid indica si el tipo de comida es conocido.
func (t MealType) Valid() bool {
	return t == MealTypeAlmuerzo || t == MealTypeCena
}

// DateLayout formato de fecha de los planes (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// MealPlan asignación de una receta a un día y comida.
type MealPlan struct {
	ID         string
	RecipeID   string
	Fecha      time.Time // solo fecha, UTC
	TipoComida MealType
	Notas      string
	CreatedBy  string
	FamilyID   string
	Recipe     *RecipeSummary // se completa en lecturas
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
