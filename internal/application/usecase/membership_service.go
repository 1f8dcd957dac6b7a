package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
)

// MembershipService responde a qué familias pertenece un usuario.
// Es el único punto que cachea membresías; FamilyUseCase lo invalida en cada alta o baja.
type MembershipService struct {
	familyRepo repository.FamilyRepository
	cache      *ttlcache.Cache
}

// NewMembershipService construye el servicio con un TTL corto para la caché de membresías.
func NewMembershipService(familyRepo repository.FamilyRepository, ttl time.Duration) *MembershipService {
	cache := ttlcache.NewCache()
	_ = cache.SetTTL(ttl)
	cache.SkipTTLExtensionOnHit(true)
	return &MembershipService{familyRepo: familyRepo, cache: cache}
}

// FamilyIDs devuelve los ids de las familias del usuario.
// Devuelve error solo ante fallos de infraestructura.
func (s *MembershipService) FamilyIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("membership: userID es obligatorio")
	}
	if v, err := s.cache.Get(userID); err == nil {
		if ids, ok := v.([]string); ok {
			return ids, nil
		}
	} else if !errors.Is(err, ttlcache.ErrNotFound) {
		return nil, fmt.Errorf("membership cache: %w", err)
	}

	families, err := s.familyRepo.ListUserFamilies(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(families))
	for _, f := range families {
		ids = append(ids, f.ID)
	}
	_ = s.cache.Set(userID, ids)
	return ids, nil
}

// IsMember informa si el usuario pertenece a la familia.
func (s *MembershipService) IsMember(ctx context.Context, userID, familyID string) (bool, error) {
	ids, err := s.FamilyIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == familyID {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate descarta la entrada cacheada de los usuarios indicados.
func (s *MembershipService) Invalidate(userIDs ...string) {
	for _, id := range userIDs {
		_ = s.cache.Remove(id)
	}
}

// Close detiene la goroutine de expiración de la caché.
func (s *MembershipService) Close() error {
	return s.cache.Close()
}
