package auth

import (
	"fmt"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
)

// Códigos de rechazo de credenciales.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountLocked      = "ACCOUNT_LOCKED"
)

// LoginError rechazo de credenciales con el detalle que se muestra al usuario.
// Envuelve domain.ErrInvalidCredentials o domain.ErrAccountLocked.
type LoginError struct {
	Code              string
	Message           string
	RemainingAttempts int // solo INVALID_CREDENTIALS tras un fallo
	MinutesRemaining  int // solo ACCOUNT_LOCKED
	err               error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.err }

// Details cuerpo "details" de la respuesta HTTP.
func (e *LoginError) Details() map[string]int {
	switch {
	case e.Code == CodeAccountLocked:
		return map[string]int{"minutesRemaining": e.MinutesRemaining}
	case e.RemainingAttempts > 0:
		return map[string]int{"remainingAttempts": e.RemainingAttempts}
	}
	return nil
}

func invalidCredentials(remaining int) *LoginError {
	msg := "Email o contraseña incorrectos"
	if remaining > 0 {
		msg = fmt.Sprintf("Email o contraseña incorrectos. Te quedan %d intentos.", remaining)
	}
	return &LoginError{
		Code:              CodeInvalidCredentials,
		Message:           msg,
		RemainingAttempts: remaining,
		err:               domain.ErrInvalidCredentials,
	}
}
