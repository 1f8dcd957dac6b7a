package dto

import "time"

// RegisterRequest entrada para registro. Solo se auto-asignan los roles creator y commentator.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"role" validate:"required,oneof=creator commentator"`
}

// LoginRequest entrada para login (sesión) y emisión de token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NotificationPreferencesDTO preferencias de notificación.
type NotificationPreferencesDTO struct {
	Email        bool `json:"email"`
	MealComments bool `json:"mealComments"`
	WeeklyMenu   bool `json:"weeklyMenu"`
}

// UpdateNotificationPreferences actualización parcial de preferencias.
type UpdateNotificationPreferences struct {
	Email        *bool `json:"email"`
	MealComments *bool `json:"mealComments"`
	WeeklyMenu   *bool `json:"weeklyMenu"`
}

// UserResponse salida de un usuario (sin credenciales ni contadores de login).
type UserResponse struct {
	ID                      string                     `json:"id"`
	Email                   string                     `json:"email"`
	Name                    string                     `json:"name"`
	Role                    string                     `json:"role"`
	FamilyID                *string                    `json:"familyId"`
	Avatar                  string                     `json:"avatar,omitempty"`
	NotificationPreferences NotificationPreferencesDTO `json:"notificationPreferences"`
	CreatedAt               time.Time                  `json:"createdAt"`
	UpdatedAt               time.Time                  `json:"updatedAt"`
}

// AuthResponse salida de registro y login por sesión.
type AuthResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

// TokenResponse salida de /api/auth/token para clientes API.
type TokenResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresIn int          `json:"expiresIn"` // segundos
	User      UserResponse `json:"user"`
}

// AuthStatusResponse estado de autenticación; nunca responde 401.
type AuthStatusResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// UpdateProfileRequest actualización parcial del perfil.
type UpdateProfileRequest struct {
	Name                    *string                        `json:"name" validate:"omitempty,notblank,max=100"`
	Email                   *string                        `json:"email" validate:"omitempty,email,max=255"`
	NotificationPreferences *UpdateNotificationPreferences `json:"notificationPreferences"`
}

// ChangePasswordRequest cambio de contraseña con verificación de la actual.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// AvatarRequest avatar como URL http(s) o data URL de imagen.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required"`
}

// DeleteAccountRequest confirmación con contraseña para eliminar la cuenta.
type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}
