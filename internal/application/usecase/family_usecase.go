package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/pkg/invitecode"
)

// codeAttempts reintentos ante colisión del código de invitación.
const codeAttempts = 5

// FamilyUseCase alta de familias, invitaciones y membresías.
type FamilyUseCase struct {
	familyRepo  repository.FamilyRepository
	memberships *MembershipService
	newCode     func() (string, error)
	now         func() time.Time
}

// NewFamilyUseCase construye el caso de uso.
func NewFamilyUseCase(familyRepo repository.FamilyRepository, memberships *MembershipService) *FamilyUseCase {
	return &FamilyUseCase{
		familyRepo:  familyRepo,
		memberships: memberships,
		newCode:     invitecode.Generate,
		now:         time.Now,
	}
}

// Create crea una familia con el usuario como dueño y primer miembro.
func (uc *FamilyUseCase) Create(ctx context.Context, user *entity.User, in dto.CreateFamilyRequest) (*dto.FamilyResponse, error) {
	if !canEdit(user) {
		return nil, domain.ErrForbidden
	}
	if user.HasFamily() {
		return nil, domain.ErrAlreadyInFamily
	}
	now := uc.now()
	family := &entity.Family{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		CreatedBy: user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := uc.withFreshCode(func(code string) error {
		family.InvitationCode = code
		return uc.familyRepo.CreateWithOwner(ctx, family)
	})
	if err != nil {
		return nil, err
	}
	uc.memberships.Invalidate(user.ID)
	return toFamilyResponse(family, user.ID), nil
}

// Join une al usuario a la familia del código de invitación.
func (uc *FamilyUseCase) Join(ctx context.Context, user *entity.User, in dto.JoinFamilyRequest) (*dto.FamilyResponse, error) {
	code, ok := invitecode.Normalize(in.InvitationCode)
	if !ok {
		return nil, domain.ErrInvalidInvitationCode
	}
	family, err := uc.familyRepo.GetByInvitationCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, domain.ErrInvalidInvitationCode
	}
	if user.HasFamily() {
		return nil, domain.ErrAlreadyInFamily
	}
	if err := uc.familyRepo.AddMember(ctx, family.ID, user.ID); err != nil {
		return nil, err
	}
	uc.memberships.Invalidate(user.ID)
	return toFamilyResponse(family, user.ID), nil
}

// ListMine lista las familias del usuario.
func (uc *FamilyUseCase) ListMine(ctx context.Context, user *entity.User) ([]dto.FamilyResponse, error) {
	families, err := uc.familyRepo.ListUserFamilies(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FamilyResponse, 0, len(families))
	for _, f := range families {
		out = append(out, *toFamilyResponse(f, user.ID))
	}
	return out, nil
}

// Get devuelve una familia de la que el usuario es miembro.
func (uc *FamilyUseCase) Get(ctx context.Context, user *entity.User, familyID string) (*dto.FamilyResponse, error) {
	family, err := uc.memberFamily(ctx, user, familyID)
	if err != nil {
		return nil, err
	}
	return toFamilyResponse(family, user.ID), nil
}

// Members lista los miembros de una familia del usuario.
func (uc *FamilyUseCase) Members(ctx context.Context, user *entity.User, familyID string) ([]dto.FamilyMemberResponse, error) {
	family, err := uc.memberFamily(ctx, user, familyID)
	if err != nil {
		return nil, err
	}
	members, err := uc.familyRepo.ListMembers(ctx, family.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FamilyMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, dto.FamilyMemberResponse{
			UserID:   m.UserID,
			Name:     m.Name,
			Email:    m.Email,
			Role:     string(m.Role),
			Avatar:   m.Avatar,
			IsOwner:  family.IsOwner(m.UserID),
			JoinedAt: m.JoinedAt,
		})
	}
	return out, nil
}

// RemoveMember quita a otro miembro. El dueño no puede ser removido y
// uno mismo debe usar Leave.
func (uc *FamilyUseCase) RemoveMember(ctx context.Context, actor *entity.User, familyID, userID string) error {
	if !canEdit(actor) {
		return domain.ErrForbidden
	}
	family, err := uc.memberFamily(ctx, actor, familyID)
	if err != nil {
		return err
	}
	if userID == actor.ID {
		return domain.ErrInvalidInput
	}
	if family.IsOwner(userID) {
		return domain.ErrFamilyOwner
	}
	if !validID(userID) {
		return domain.ErrMemberNotFound
	}
	if err := uc.familyRepo.RemoveMember(ctx, family.ID, userID); err != nil {
		return err
	}
	uc.memberships.Invalidate(userID)
	return nil
}

// Leave retira al usuario de la familia. El dueño solo puede salir siendo el último miembro,
// y en ese caso la familia se elimina. deleted indica si la familia fue eliminada.
func (uc *FamilyUseCase) Leave(ctx context.Context, user *entity.User, familyID string) (deleted bool, err error) {
	family, err := uc.memberFamily(ctx, user, familyID)
	if err != nil {
		return false, err
	}
	if family.IsOwner(user.ID) {
		members, err := uc.familyRepo.ListMembers(ctx, family.ID)
		if err != nil {
			return false, err
		}
		if len(members) > 1 {
			return false, domain.ErrFamilyOwner
		}
		if err := uc.familyRepo.Delete(ctx, family.ID); err != nil {
			return false, err
		}
		uc.memberships.Invalidate(user.ID)
		return true, nil
	}
	if err := uc.familyRepo.RemoveMember(ctx, family.ID, user.ID); err != nil {
		return false, err
	}
	uc.memberships.Invalidate(user.ID)
	return false, nil
}

// RegenerateCode asigna un código de invitación nuevo; el anterior deja de funcionar.
func (uc *FamilyUseCase) RegenerateCode(ctx context.Context, actor *entity.User, familyID string) (*dto.InvitationCodeResponse, error) {
	if !canEdit(actor) {
		return nil, domain.ErrForbidden
	}
	family, err := uc.memberFamily(ctx, actor, familyID)
	if err != nil {
		return nil, err
	}
	var code string
	err = uc.withFreshCode(func(c string) error {
		code = c
		return uc.familyRepo.UpdateInvitationCode(ctx, family.ID, c)
	})
	if err != nil {
		return nil, err
	}
	return &dto.InvitationCodeResponse{InvitationCode: code}, nil
}

func (uc *FamilyUseCase) memberFamily(ctx context.Context, user *entity.User, familyID string) (*entity.Family, error) {
	if !validID(familyID) {
		return nil, domain.ErrNotFound
	}
	member, err := uc.memberships.IsMember(ctx, user.ID, familyID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, domain.ErrNotFamilyMember
	}
	family, err := uc.familyRepo.GetByID(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, domain.ErrNotFound
	}
	return family, nil
}

func (uc *FamilyUseCase) withFreshCode(fn func(code string) error) error {
	var err error
	for i := 0; i < codeAttempts; i++ {
		var code string
		code, err = uc.newCode()
		if err != nil {
			return err
		}
		err = fn(code)
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
	}
	return err
}

func toFamilyResponse(f *entity.Family, viewerID string) *dto.FamilyResponse {
	return &dto.FamilyResponse{
		ID:             f.ID,
		Name:           f.Name,
		InvitationCode: f.InvitationCode,
		CreatedBy:      f.CreatedBy,
		IsOwner:        f.IsOwner(viewerID),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}
