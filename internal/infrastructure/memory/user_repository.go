package memory

import (
	"context"
	"strings"
	"time"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuarios en memoria.
type UserRepo struct {
	db *DB
}

// NewUserRepository construye el repositorio.
func NewUserRepository(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.db.users {
		if u.Email == email {
			return domain.ErrEmailAlreadyExists
		}
	}
	c := cloneUser(user)
	c.Email = email
	r.db.users[user.ID] = c
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if u := r.db.users[id]; u != nil {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[user.ID]
	if u == nil {
		return domain.ErrUserNotFound
	}
	email := strings.ToLower(user.Email)
	for id, other := range r.db.users {
		if id != user.ID && other.Email == email {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.Name = user.Name
	u.Email = email
	u.Notifications = user.Notifications
	u.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *UserRepo) IncrementLoginAttempts(_ context.Context, id string, at time.Time) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[id]
	if u == nil {
		return 0, domain.ErrUserNotFound
	}
	u.LoginAttempts++
	u.LastLoginAttempt = &at
	return u.LoginAttempts, nil
}

func (r *UserRepo) UpdateLoginAttempts(_ context.Context, id string, attempts int, lastAttempt *time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[id]
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = attempts
	u.LastLoginAttempt = nil
	if lastAttempt != nil {
		t := *lastAttempt
		u.LastLoginAttempt = &t
	}
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[id]
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepo) UpdateAvatar(_ context.Context, id, avatar string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u := r.db.users[id]
	if u == nil {
		return domain.ErrUserNotFound
	}
	u.Avatar = avatar
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.users, id)
	delete(r.db.members, id)
	for rid, rec := range r.db.recipes {
		if rec.CreatedBy == id {
			r.db.deleteRecipeLocked(rid)
		}
	}
	for pid, p := range r.db.plans {
		if p.CreatedBy == id {
			r.db.deletePlanLocked(pid)
		}
	}
	for key, rt := range r.db.ratings {
		if rt.UserID == id {
			delete(r.db.ratings, key)
		}
	}
	for cid, c := range r.db.comments {
		if c.UserID == id {
			delete(r.db.comments, cid)
		}
	}
	return nil
}
