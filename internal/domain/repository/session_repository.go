package repository

import "context"

// SessionPurger elimina sesiones vencidas del almacenamiento persistente.
type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}
