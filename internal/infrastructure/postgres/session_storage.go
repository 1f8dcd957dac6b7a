package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var (
	_ fiber.Storage            = (*SessionStorage)(nil)
	_ repository.SessionPurger = (*SessionStorage)(nil)
)

// sessionQueryTimeout límite de cada operación; fiber.Storage no recibe contexto.
const sessionQueryTimeout = 5 * time.Second

// SessionStorage fiber.Storage sobre la tabla user_sessions.
// Las filas vencidas son invisibles para Get aunque todavía no se hayan purgado.
type SessionStorage struct {
	q   Querier
	now func() time.Time
}

// NewSessionStorage construye el storage de sesiones.
func NewSessionStorage(q Querier) *SessionStorage {
	return &SessionStorage{q: q, now: time.Now}
}

// Get devuelve nil, nil si la sesión no existe o venció.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionQueryTimeout)
	defer cancel()
	var data []byte
	err := s.q.QueryRow(ctx,
		`SELECT sess FROM user_sessions WHERE sid = $1 AND (expire IS NULL OR expire > $2)`,
		key, s.now()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return data, nil
}

// Set guarda la sesión; exp = 0 significa sin vencimiento.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	var expire *time.Time
	if exp > 0 {
		t := s.now().Add(exp)
		expire = &t
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionQueryTimeout)
	defer cancel()
	_, err := s.q.Exec(ctx, `
		INSERT INTO user_sessions (sid, sess, expire) VALUES ($1, $2, $3)
		ON CONFLICT (sid) DO UPDATE SET sess = EXCLUDED.sess, expire = EXCLUDED.expire`,
		key, val, expire)
	if err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), sessionQueryTimeout)
	defer cancel()
	if _, err := s.q.Exec(ctx, `DELETE FROM user_sessions WHERE sid = $1`, key); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Reset elimina todas las sesiones.
func (s *SessionStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), sessionQueryTimeout)
	defer cancel()
	if _, err := s.q.Exec(ctx, `DELETE FROM user_sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

// Close no cierra el pool: lo maneja main.
func (s *SessionStorage) Close() error { return nil }

// PurgeExpired elimina las sesiones vencidas y devuelve cuántas borró.
func (s *SessionStorage) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.q.Exec(ctx, `DELETE FROM user_sessions WHERE expire IS NOT NULL AND expire <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
