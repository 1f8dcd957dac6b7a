package dto

import "time"

// CreateCommentRequest comentario sobre una comida planificada.
type CreateCommentRequest struct {
	Comment string `json:"comment" validate:"required,notblank,max=500"`
	Emoji   string `json:"emoji" validate:"max=16"`
}

// CommentResponse salida de un comentario.
type CommentResponse struct {
	ID         string    `json:"id"`
	MealPlanID string    `json:"mealPlanId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName,omitempty"`
	Comment    string    `json:"comment"`
	Emoji      string    `json:"emoji,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
