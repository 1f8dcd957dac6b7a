package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// sessionUserKey clave del id de usuario dentro de la sesión.
const sessionUserKey = "user_id"

// SessionConfig cookie de sesión; Storage nil = memoria del proceso.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Storage    fiber.Storage
}

// NewSessionStore crea el store de sesiones con cookie HttpOnly y SameSite=Lax.
func NewSessionStore(cfg SessionConfig) *session.Store {
	name := cfg.CookieName
	if name == "" {
		name = "menu.sid"
	}
	return session.New(session.Config{
		Expiration:     cfg.TTL,
		Storage:        cfg.Storage,
		KeyLookup:      "cookie:" + name,
		CookieHTTPOnly: true,
		CookieSecure:   cfg.Secure,
		CookieSameSite: "Lax",
	})
}

// startSession abre una sesión nueva para el usuario (id regenerado tras login).
func startSession(c *fiber.Ctx, store *session.Store, userID string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionUserKey, userID)
	return sess.Save()
}

// endSession borra la sesión del storage y la cookie.
func endSession(c *fiber.Ctx, store *session.Store) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

func sessionUserID(c *fiber.Ctx, store *session.Store) (string, error) {
	sess, err := store.Get(c)
	if err != nil {
		return "", err
	}
	id, _ := sess.Get(sessionUserKey).(string)
	return id, nil
}
