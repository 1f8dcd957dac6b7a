package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecipeRating calificación 1-5 de un usuario sobre una receta. Una por (receta, usuario).
type RecipeRating struct {
	ID        string
	RecipeID  string
	UserID    string
	UserName  string
	FamilyID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingSummary agregado de calificaciones de una receta.
type RatingSummary struct {
	Count   int
	Average decimal.Decimal
}
