package entity

import "time"

// Role rol de un usuario dentro de la familia.
type Role string

// Roles válidos para User.
const (
	RoleCreator     Role = "creator"     // adulto: planifica y edita recetas
	RoleCommentator Role = "commentator" // niño: califica recetas y comenta comidas
	RoleAdmin       Role = "admin"       // operador; satisface cualquier rol requerido
)

// ParseRole valida un rol textual.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Valid indica si el rol es conocido.
func (r Role) Valid() bool {
	switch r {
	case RoleCreator, RoleCommentator, RoleAdmin:
		return true
	}
	return false
}

// CanEdit recetas, planes y la familia.
func (r Role) CanEdit() bool { return r == RoleCreator || r == RoleAdmin }

// CanRate recetas.
func (r Role) CanRate() bool { return r.Valid() }

// CanComment comidas planificadas.
func (r Role) CanComment() bool { return r.Valid() }

// Satisfies indica si el rol cumple alguno de los requeridos. admin cumple todos.
func (r Role) Satisfies(required ...Role) bool {
	if r == RoleAdmin {
		return true
	}
	for _, want := range required {
		if r == want {
			return true
		}
	}
	return false
}

// NotificationPreferences preferencias de notificación del usuario.
type NotificationPreferences struct {
	Email        bool `json:"email"`
	MealComments bool `json:"mealComments"`
	WeeklyMenu   bool `json:"weeklyMenu"`
}

// DefaultNotificationPreferences valores para usuarios nuevos.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, MealComments: true, WeeklyMenu: false}
}

// User representa un miembro del hogar. FamilyID vacío = usuario sin familia.
type User struct {
	ID               string
	Email            string
	PasswordHash     string // bcrypt hash; nunca sale de la capa de aplicación
	Name             string
	Role             Role
	FamilyID         string
	Avatar           string // URL o data URL
	Notifications    NotificationPreferences
	LoginAttempts    int
	LastLoginAttempt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasFamily indica si el usuario pertenece a una familia.
func (u *User) HasFamily() bool { return u != nil && u.FamilyID != "" }
