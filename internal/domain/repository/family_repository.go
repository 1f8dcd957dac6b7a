package repository

import (
	"context"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
)

// FamilyRepository persistencia de familias y membresías.
// Un usuario pertenece a lo sumo a una familia; users.family_id refleja la membresía.
type FamilyRepository interface {
	// CreateWithOwner inserta la familia, la membresía del dueño y actualiza users.family_id en una transacción.
	// ErrAlreadyInFamily si el dueño ya tiene familia; ErrDuplicate si el código de invitación colisiona.
	CreateWithOwner(ctx context.Context, family *entity.Family) error
	GetByID(ctx context.Context, id string) (*entity.Family, error)
	GetByInvitationCode(ctx context.Context, code string) (*entity.Family, error)
	// UpdateInvitationCode ErrDuplicate si el código colisiona.
	UpdateInvitationCode(ctx context.Context, id, code string) error
	// AddMember ErrAlreadyInFamily si el usuario ya pertenece a una familia.
	AddMember(ctx context.Context, familyID, userID string) error
	// RemoveMember ErrMemberNotFound si el usuario no era miembro.
	RemoveMember(ctx context.Context, familyID, userID string) error
	IsMember(ctx context.Context, familyID, userID string) (bool, error)
	ListMembers(ctx context.Context, familyID string) ([]*entity.FamilyMember, error)
	ListUserFamilies(ctx context.Context, userID string) ([]*entity.Family, error)
	// Delete elimina la familia con sus membresías, recetas y planes.
	Delete(ctx context.Context, id string) error
}
