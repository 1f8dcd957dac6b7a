package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// bodyLimit admite avatares de 2 MB enviados como data URL (base64).
const bodyLimit = 4 << 20

// AppConfig opciones de la app Fiber.
type AppConfig struct {
	Name           string
	AllowedOrigins string // separados por coma; vacío = sin CORS
	Log            *logger.Logger
}

// NewApp crea la app Fiber con el manejo de errores y los middlewares comunes.
// La usan cmd/api y los tests.
func NewApp(cfg AppConfig) *fiber.App {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    bodyLimit,
		ErrorHandler: NewErrorHandler(log),
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error().
				Str("request_id", requestID(c)).
				Str("panic", fmt.Sprint(e)).
				Str("path", c.Path()).
				Msg("panic recuperado")
		},
	}))
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	if origins := strings.TrimSpace(cfg.AllowedOrigins); origins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		}))
	}
	return app
}
