package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateRule ventana fija por IP.
type RateRule struct {
	Name    string // prefijo de la clave en el storage
	Max     int
	Window  time.Duration
	Message string
}

// Reglas de rate limit de la API.
var (
	AuthRateRule = RateRule{
		Name: "auth", Max: 5, Window: 15 * time.Minute,
		Message: "Demasiados intentos de autenticación. Intenta nuevamente más tarde.",
	}
	APIRateRule = RateRule{
		Name: "api", Max: 100, Window: time.Minute,
		Message: "Demasiadas solicitudes. Intenta nuevamente en un momento.",
	}
	FamilyCodeRateRule = RateRule{
		Name: "family-code", Max: 5, Window: time.Hour,
		Message: "Demasiados códigos de invitación generados. Intenta nuevamente más tarde.",
	}
	CommentatorRateRule = RateRule{
		Name: "commentator", Max: 20, Window: 5 * time.Minute,
		Message: "Demasiadas calificaciones o comentarios seguidos. Espera unos minutos.",
	}
)

// RateLimiter crea el middleware para una regla. storage nil = contadores en memoria.
func RateLimiter(rule RateRule, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        rule.Max,
		Expiration: rule.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "rl:" + rule.Name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			// limiter ya fijó Retry-After en segundos.
			retryAfter, _ := strconv.Atoi(c.GetRespHeader(fiber.HeaderRetryAfter))
			return respondError(c, fiber.StatusTooManyRequests, CodeRateLimit, rule.Message,
				fiber.Map{"retryAfter": retryAfter})
		},
		Storage:           storage,
		LimiterMiddleware: limiter.FixedWindow{},
	})
}

// rateLimits construye los limitadores de la API o no-ops si están deshabilitados.
type rateLimits struct {
	storage  fiber.Storage
	disabled bool
}

func (r rateLimits) handler(rule RateRule) fiber.Handler {
	if r.disabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return RateLimiter(rule, r.storage)
}
