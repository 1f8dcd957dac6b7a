package entity

import "time"

// Family agrupa usuarios que comparten recetas y planificación.
// CreatedBy es el dueño: no puede ser removido por otros miembros.
type Family struct {
	ID             string
	Name           string
	InvitationCode string // XXX-XXX, único
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsOwner indica si userID creó la familia.
func (f *Family) IsOwner(userID string) bool {
	return f != nil && f.CreatedBy == userID
}

// FamilyMember pertenencia de un usuario a una familia, con datos básicos del usuario para listados.
type FamilyMember struct {
	FamilyID      string
	UserID        string
	Name          string
	Email         string
	Role          Role
	Avatar        string
	Notifications NotificationPreferences
	JoinedAt      time.Time
}
