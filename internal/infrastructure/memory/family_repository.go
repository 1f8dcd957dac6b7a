package memory

import (
	"context"
	"sort"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.FamilyRepository = (*FamilyRepo)(nil)

// FamilyRepo familias y membresías en memoria.
type FamilyRepo struct {
	db *DB
}

// NewFamilyRepository construye el repositorio.
func NewFamilyRepository(db *DB) *FamilyRepo {
	return &FamilyRepo{db: db}
}

func (r *FamilyRepo) CreateWithOwner(_ context.Context, family *entity.Family) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.members[family.CreatedBy]; ok {
		return domain.ErrAlreadyInFamily
	}
	for _, f := range r.db.families {
		if f.InvitationCode == family.InvitationCode {
			return domain.ErrDuplicate
		}
	}
	c := *family
	r.db.families[family.ID] = &c
	r.addMemberLocked(family.ID, family.CreatedBy, family.CreatedAt)
	return nil
}

func (r *FamilyRepo) GetByID(_ context.Context, id string) (*entity.Family, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if f := r.db.families[id]; f != nil {
		c := *f
		return &c, nil
	}
	return nil, nil
}

func (r *FamilyRepo) GetByInvitationCode(_ context.Context, code string) (*entity.Family, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, f := range r.db.families {
		if f.InvitationCode == code {
			c := *f
			return &c, nil
		}
	}
	return nil, nil
}

func (r *FamilyRepo) UpdateInvitationCode(_ context.Context, id, code string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	f := r.db.families[id]
	if f == nil {
		return domain.ErrNotFound
	}
	for fid, other := range r.db.families {
		if fid != id && other.InvitationCode == code {
			return domain.ErrDuplicate
		}
	}
	f.InvitationCode = code
	f.UpdatedAt = time.Now()
	return nil
}

func (r *FamilyRepo) AddMember(_ context.Context, familyID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.families[familyID] == nil {
		return domain.ErrNotFound
	}
	if _, ok := r.db.members[userID]; ok {
		return domain.ErrAlreadyInFamily
	}
	r.addMemberLocked(familyID, userID, time.Now())
	return nil
}

func (r *FamilyRepo) addMemberLocked(familyID, userID string, at time.Time) {
	r.db.members[userID] = membership{familyID: familyID, joinedAt: at}
	if u := r.db.users[userID]; u != nil {
		u.FamilyID = familyID
	}
}

func (r *FamilyRepo) RemoveMember(_ context.Context, familyID, userID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.members[userID]
	if !ok || m.familyID != familyID {
		return domain.ErrMemberNotFound
	}
	delete(r.db.members, userID)
	if u := r.db.users[userID]; u != nil {
		u.FamilyID = ""
	}
	return nil
}

func (r *FamilyRepo) IsMember(_ context.Context, familyID, userID string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.members[userID]
	return ok && m.familyID == familyID, nil
}

func (r *FamilyRepo) ListMembers(_ context.Context, familyID string) ([]*entity.FamilyMember, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []*entity.FamilyMember
	for uid, m := range r.db.members {
		if m.familyID != familyID {
			continue
		}
		fm := &entity.FamilyMember{FamilyID: familyID, UserID: uid, JoinedAt: m.joinedAt}
		if u := r.db.users[uid]; u != nil {
			fm.Name, fm.Email, fm.Role, fm.Avatar, fm.Notifications = u.Name, u.Email, u.Role, u.Avatar, u.Notifications
		}
		out = append(out, fm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].JoinedAt.Before(out[j].JoinedAt) })
	return out, nil
}

func (r *FamilyRepo) ListUserFamilies(_ context.Context, userID string) ([]*entity.Family, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	m, ok := r.db.members[userID]
	if !ok {
		return nil, nil
	}
	f := r.db.families[m.familyID]
	if f == nil {
		return nil, nil
	}
	c := *f
	return []*entity.Family{&c}, nil
}

func (r *FamilyRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.deleteFamilyLocked(id)
	return nil
}
