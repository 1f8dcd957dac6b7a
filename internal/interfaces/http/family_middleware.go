package http

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// membershipChecker lo implementa *usecase.MembershipService (caché de membresías).
type membershipChecker interface {
	IsMember(ctx context.Context, userID, familyID string) (bool, error)
}

// RequireFamilyAccess exige que el usuario sea miembro de la familia objetivo.
// Debe usarse después de AuthMiddleware.
func RequireFamilyAccess(checker membershipChecker, log *logger.Logger) fiber.Handler {
	return familyGuard(checker, log, false)
}

// RequireFamilyEditAccess además exige un rol que pueda editar (creator o admin).
func RequireFamilyEditAccess(checker membershipChecker, log *logger.Logger) fiber.Handler {
	return familyGuard(checker, log, true)
}

func familyGuard(checker membershipChecker, log *logger.Logger, edit bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, msgUnauthenticated)
		}
		familyID := targetFamilyID(c)
		if familyID == "" {
			return respondError(c, fiber.StatusBadRequest, CodeFamilyIDRequired, "Se requiere el id de la familia")
		}
		member, err := checker.IsMember(c.UserContext(), user.ID, familyID)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID(c)).Msg("no se pudo verificar la membresía")
			return respondError(c, fiber.StatusServiceUnavailable, CodeServiceUnavailable,
				"No se pudo verificar el acceso a la familia, intenta más tarde")
		}
		if !member {
			return respondError(c, fiber.StatusForbidden, CodeFamilyAccessDenied, "No tienes acceso a esta familia")
		}
		if edit && !user.Role.CanEdit() {
			return respondError(c, fiber.StatusForbidden, CodeFamilyEditDenied, "Solo los creadores pueden modificar la familia")
		}
		return c.Next()
	}
}

// targetFamilyID busca el id en la ruta (:id o :familyId), el cuerpo JSON o la query.
func targetFamilyID(c *fiber.Ctx) string {
	for _, p := range []string{"familyId", "id"} {
		if v := strings.TrimSpace(c.Params(p)); v != "" {
			return v
		}
	}
	if body := c.Body(); len(body) > 0 && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var in struct {
			FamilyID string `json:"familyId"`
		}
		if json.Unmarshal(body, &in) == nil && strings.TrimSpace(in.FamilyID) != "" {
			return strings.TrimSpace(in.FamilyID)
		}
	}
	return strings.TrimSpace(c.Query("familyId"))
}
