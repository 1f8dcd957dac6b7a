package ports

import "context"

// Recipient destinatario de una notificación.
type Recipient struct {
	Email string
	Name  string
}

// MealCommentNotification aviso a los adultos de la familia cuando alguien comenta una comida.
type MealCommentNotification struct {
	Recipients []Recipient
	AuthorName string
	RecipeName string
	Fecha      string // YYYY-MM-DD
	TipoComida string
	Comment    string
	Emoji      string
}

// Notifier define el puerto de salida para notificaciones por e-mail.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type Notifier interface {
	NotifyMealComment(ctx context.Context, n MealCommentNotification) error
}
