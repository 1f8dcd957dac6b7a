package entity

import "time"

// Recipe receta del catálogo familiar.
type Recipe struct {
	ID           string
	Name         string
	Description  string
	ImageURL     string
	Link         string // receta externa
	Category     string
	KidsRating   int // 0-5, valoración de los chicos cargada por el adulto
	Ingredients  []string
	Instructions string
	PrepTime     int // minutos
	Portions     int
	IsFavorite   bool
	CreatedBy    string
	FamilyID     string // vacío = receta personal de un usuario sin familia
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RecipeSummary datos de la receta embebidos en un plan de comidas.
type RecipeSummary struct {
	ID         string
	Name       string
	Category   string
	ImageURL   string
	KidsRating int
}
