package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// LocalUser clave de c.Locals con el *entity.User autenticado.
const LocalUser = "user"

// identityResolver lo implementa *auth.AuthUseCase.
type identityResolver interface {
	ParseToken(token string) (string, error)
	CurrentUser(ctx context.Context, id string) (*entity.User, error)
}

// AuthMiddleware resuelve la identidad desde un Bearer token o la cookie de sesión y
// carga el usuario (rol y familia frescos) en c.Locals. Sin identidad válida la
// request sigue como anónima; RequireAuth decide si eso es un 401.
func AuthMiddleware(store *session.Store, resolver identityResolver, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := bearerUserID(c, resolver)
		if userID == "" && store != nil {
			id, err := sessionUserID(c, store)
			if err != nil {
				log.Warn().Err(err).Str("request_id", requestID(c)).Msg("no se pudo leer la sesión")
			}
			userID = id
		}
		if userID == "" {
			return c.Next()
		}
		user, err := resolver.CurrentUser(c.UserContext(), userID)
		if err != nil {
			log.Error().Err(err).Str("request_id", requestID(c)).Msg("no se pudo cargar el usuario de la sesión")
			return c.Next()
		}
		if user != nil {
			c.Locals(LocalUser, user)
		}
		return c.Next()
	}
}

func bearerUserID(c *fiber.Ctx, resolver identityResolver) string {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ""
	}
	id, err := resolver.ParseToken(token)
	if err != nil {
		return ""
	}
	return id
}

// RequireAuth corta con 401 si la request es anónima.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUser(c) == nil {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, msgUnauthenticated)
		}
		return c.Next()
	}
}

// RequireRole exige uno de los roles indicados; admin satisface cualquiera.
// Debe ir después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	required := make([]string, len(roles))
	for i, r := range roles {
		required[i] = string(r)
	}
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return respondError(c, fiber.StatusUnauthorized, CodeUnauthorized, msgUnauthenticated)
		}
		if !user.Role.Satisfies(roles...) {
			return respondError(c, fiber.StatusForbidden, CodeForbidden,
				"No tienes permiso para realizar esta acción",
				fiber.Map{"required": required, "current": string(user.Role)})
		}
		return c.Next()
	}
}

// GetUser devuelve el usuario autenticado o nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}
