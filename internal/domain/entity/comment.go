package entity

import "time"

// MaxCommentLength largo máximo de un comentario.
const MaxCommentLength = 500

// MealComment comentario sobre una comida planificada.
type MealComment struct {
	ID         string
	MealPlanID string
	UserID     string
	UserName   string
	FamilyID   string
	Comment    string
	Emoji      string
	CreatedAt  time.Time
}
