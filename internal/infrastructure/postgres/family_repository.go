package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.FamilyRepository = (*FamilyRepo)(nil)

const familyColumns = `f.id, f.name, f.invitation_code, f.created_by, f.created_at, f.updated_at`

// FamilyRepo familias y membresías sobre PostgreSQL.
type FamilyRepo struct {
	q Querier
}

// NewFamilyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFamilyRepository(q Querier) *FamilyRepo {
	return &FamilyRepo{q: q}
}

// CreateWithOwner inserta familia, membresía del dueño y users.family_id en una transacción.
func (r *FamilyRepo) CreateWithOwner(ctx context.Context, family *entity.Family) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO families (id, name, invitation_code, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			family.ID, family.Name, family.InvitationCode, family.CreatedBy, family.CreatedAt, family.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert family: %w", err)
		}
		return addMember(ctx, tx, family.ID, family.CreatedBy)
	})
}

func (r *FamilyRepo) GetByID(ctx context.Context, id string) (*entity.Family, error) {
	return r.findOne(ctx, `SELECT `+familyColumns+` FROM families f WHERE f.id = $1`, id)
}

func (r *FamilyRepo) GetByInvitationCode(ctx context.Context, code string) (*entity.Family, error) {
	return r.findOne(ctx, `SELECT `+familyColumns+` FROM families f WHERE f.invitation_code = $1`, code)
}

// UpdateInvitationCode reemplaza el código; ErrDuplicate si colisiona.
func (r *FamilyRepo) UpdateInvitationCode(ctx context.Context, id, code string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE families SET invitation_code = $2, updated_at = now() WHERE id = $1`, id, code)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invitation code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddMember agrega al usuario y actualiza users.family_id en una transacción.
func (r *FamilyRepo) AddMember(ctx context.Context, familyID, userID string) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		return addMember(ctx, tx, familyID, userID)
	})
}

func addMember(ctx context.Context, tx pgx.Tx, familyID, userID string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO family_members (family_id, user_id, joined_at) VALUES ($1, $2, now())`,
		familyID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyInFamily
		}
		return fmt.Errorf("insert family member: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`UPDATE users SET family_id = $2, updated_at = now() WHERE id = $1`, userID, familyID); err != nil {
		return fmt.Errorf("set user family: %w", err)
	}
	return nil
}

// RemoveMember quita la membresía y limpia users.family_id en una transacción.
func (r *FamilyRepo) RemoveMember(ctx context.Context, familyID, userID string) error {
	return inTx(ctx, r.q, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM family_members WHERE family_id = $1 AND user_id = $2`, familyID, userID)
		if err != nil {
			return fmt.Errorf("delete family member: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrMemberNotFound
		}
		if _, err := tx.Exec(ctx,
			`UPDATE users SET family_id = NULL, updated_at = now() WHERE id = $1 AND family_id = $2`,
			userID, familyID); err != nil {
			return fmt.Errorf("clear user family: %w", err)
		}
		return nil
	})
}

func (r *FamilyRepo) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM family_members WHERE family_id = $1 AND user_id = $2)`,
		familyID, userID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("is member: %w", err)
	}
	return ok, nil
}

// ListMembers miembros en orden de ingreso.
func (r *FamilyRepo) ListMembers(ctx context.Context, familyID string) ([]*entity.FamilyMember, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.family_id, m.user_id, u.name, u.email, u.role, u.avatar, u.notification_preferences, m.joined_at
		FROM family_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.family_id = $1
		ORDER BY m.joined_at, u.name`, familyID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()
	var out []*entity.FamilyMember
	for rows.Next() {
		var (
			m    entity.FamilyMember
			role string
		)
		if err := rows.Scan(&m.FamilyID, &m.UserID, &m.Name, &m.Email, &role, &m.Avatar, &m.Notifications, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.Role = entity.Role(role)
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (r *FamilyRepo) ListUserFamilies(ctx context.Context, userID string) ([]*entity.Family, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+familyColumns+`
		FROM families f
		JOIN family_members m ON m.family_id = f.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user families: %w", err)
	}
	defer rows.Close()
	var out []*entity.Family
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// Delete elimina la familia; users.family_id queda en NULL y el resto cae por cascada.
func (r *FamilyRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM families WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FamilyRepo) findOne(ctx context.Context, query string, arg any) (*entity.Family, error) {
	f, err := scanFamily(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get family: %w", err)
	}
	return f, nil
}

func scanFamily(row pgx.Row) (*entity.Family, error) {
	var f entity.Family
	if err := row.Scan(&f.ID, &f.Name, &f.InvitationCode, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
