package repository

import (
	"context"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get devuelven (nil, nil) si no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste nombre, email y preferencias de notificación.
	Update(ctx context.Context, user *entity.User) error
	// IncrementLoginAttempts suma un intento fallido de forma atómica y devuelve el total.
	IncrementLoginAttempts(ctx context.Context, id string, at time.Time) (int, error)
	UpdateLoginAttempts(ctx context.Context, id string, attempts int, lastAttempt *time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id, avatar string) error
	// Delete elimina el usuario y en cascada sus recetas, planes, calificaciones, comentarios y membresías.
	Delete(ctx context.Context, id string) error
}
