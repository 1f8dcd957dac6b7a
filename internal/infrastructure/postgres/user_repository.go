package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, email, password_hash, name, role, family_id, avatar, notification_preferences,
	login_attempts, last_login_attempt, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, family_id, avatar,
			notification_preferences, login_attempts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, string(user.Role), nullable(user.FamilyID),
		user.Avatar, user.Notifications, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene un usuario por email (ya normalizado en minúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// Update persiste nombre, email y preferencias de notificación.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET name = $2, email = $3, notification_preferences = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, user.ID, user.Name, user.Email, user.Notifications, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// IncrementLoginAttempts suma un intento fallido en la misma sentencia y devuelve el total.
func (r *UserRepo) IncrementLoginAttempts(ctx context.Context, id string, at time.Time) (int, error) {
	query := `
		UPDATE users SET login_attempts = login_attempts + 1, last_login_attempt = $2
		WHERE id = $1
		RETURNING login_attempts`
	var attempts int
	if err := r.q.QueryRow(ctx, query, id, at).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("increment login attempts: %w", err)
	}
	return attempts, nil
}

// UpdateLoginAttempts fija el contador y la fecha del último intento.
func (r *UserRepo) UpdateLoginAttempts(ctx context.Context, id string, attempts int, lastAttempt *time.Time) error {
	_, err := r.q.Exec(ctx,
		`UPDATE users SET login_attempts = $2, last_login_attempt = $3 WHERE id = $1`,
		id, attempts, lastAttempt,
	)
	if err != nil {
		return fmt.Errorf("update login attempts: %w", err)
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, "update password",
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
}

// UpdateAvatar reemplaza el avatar (URL o data URL).
func (r *UserRepo) UpdateAvatar(ctx context.Context, id, avatar string) error {
	return r.exec(ctx, "update avatar",
		`UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1`, id, avatar)
}

// Delete elimina el usuario; las FK ON DELETE CASCADE borran lo que le pertenece.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepo) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u        entity.User
		role     string
		familyID *string
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &role, &familyID, &u.Avatar, &u.Notifications,
		&u.LoginAttempts, &u.LastLoginAttempt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	u.FamilyID = deref(familyID)
	return &u, nil
}
