package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/application/auth"
	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidBody        = "INVALID_BODY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimit          = "RATE_LIMIT_EXCEEDED"
	CodeEmailExists        = "EMAIL_ALREADY_EXISTS"
	CodeInvalidPassword    = "INVALID_PASSWORD"
	CodeAlreadyInFamily    = "ALREADY_IN_FAMILY"
	CodeInvalidInvitation  = "INVALID_INVITATION_CODE"
	CodeFamilyOwner        = "FAMILY_OWNER"
	CodeFamilyIDRequired   = "FAMILY_ID_REQUIRED"
	CodeFamilyAccessDenied = "FAMILY_ACCESS_DENIED"
	CodeFamilyEditDenied   = "FAMILY_EDIT_DENIED"
	CodeRecipeInUse        = "RECIPE_IN_USE"
	CodeAvatarStorageOff   = "AVATAR_STORAGE_DISABLED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	msgInternal            = "Error interno del servidor"
	msgUnauthenticated     = "Debes iniciar sesión"
	msgInvalidBody         = "Cuerpo de la solicitud inválido"
	msgValidation          = "Datos inválidos"
)

// errorMapping respuesta para un error de dominio conocido.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: los errores más específicos primero.
var domainErrors = []errorMapping{
	{domain.ErrRecipeInUse, fiber.StatusConflict, CodeRecipeInUse,
		"No se puede eliminar la receta porque está asignada a comidas planificadas. Quítala del menú primero."},
	{domain.ErrEmailAlreadyExists, fiber.StatusConflict, CodeEmailExists, "El email ya está registrado"},
	{domain.ErrInvalidPassword, fiber.StatusUnauthorized, CodeInvalidPassword, "La contraseña actual es incorrecta"},
	{domain.ErrAlreadyInFamily, fiber.StatusConflict, CodeAlreadyInFamily, "Ya perteneces a una familia"},
	{domain.ErrInvalidInvitationCode, fiber.StatusNotFound, CodeInvalidInvitation, "Código de invitación inválido"},
	{domain.ErrMemberNotFound, fiber.StatusNotFound, CodeNotFound, "El usuario indicado no es miembro de esta familia"},
	{domain.ErrNotFamilyMember, fiber.StatusForbidden, CodeFamilyAccessDenied, "No perteneces a esta familia"},
	{domain.ErrFamilyOwner, fiber.StatusConflict, CodeFamilyOwner,
		"El creador de la familia no puede salir ni ser removido mientras haya otros miembros"},
	{domain.ErrStorageDisabled, fiber.StatusServiceUnavailable, CodeAvatarStorageOff, "La subida de imágenes no está habilitada"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, auth.CodeInvalidCredentials, "Email o contraseña incorrectos"},
	{domain.ErrAccountLocked, fiber.StatusUnauthorized, auth.CodeAccountLocked, "Cuenta bloqueada temporalmente"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, CodeNotFound, "Usuario no encontrado"},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound, "Recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden, "No tienes permiso para realizar esta acción"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized, msgUnauthenticated},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation, msgValidation},
	{domain.ErrDuplicate, fiber.StatusConflict, CodeConflict, "El recurso ya existe"},
	{domain.ErrConflict, fiber.StatusConflict, CodeConflict, "Conflicto con el estado actual"},
}

// respondError escribe el cuerpo {"error", "message", "details"}.
func respondError(c *fiber.Ctx, status int, code, message string, details ...any) error {
	body := dto.ErrorResponse{Error: code, Message: message}
	if len(details) > 0 {
		body.Details = details[0]
	}
	return c.Status(status).JSON(body)
}

// handleError traduce errores de dominio a respuestas HTTP. Lo desconocido sube al
// ErrorHandler de la app, que lo registra y responde 500 sin exponer el detalle.
func handleError(c *fiber.Ctx, err error) error {
	if ok, werr := writeKnownError(c, err); ok {
		return werr
	}
	return err
}

func writeKnownError(c *fiber.Ctx, err error) (bool, error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		if apiErr.details != nil {
			return true, respondError(c, apiErr.status, apiErr.code, apiErr.message, apiErr.details)
		}
		return true, respondError(c, apiErr.status, apiErr.code, apiErr.message)
	}
	var loginErr *auth.LoginError
	if errors.As(err, &loginErr) {
		if d := loginErr.Details(); d != nil {
			return true, respondError(c, fiber.StatusUnauthorized, loginErr.Code, loginErr.Message, d)
		}
		return true, respondError(c, fiber.StatusUnauthorized, loginErr.Code, loginErr.Message)
	}
	for _, m := range domainErrors {
		if errors.Is(err, m.target) {
			return true, respondError(c, m.status, m.code, m.message)
		}
	}
	return false, nil
}

// apiError respuesta de error armada en la capa HTTP (cuerpo inválido, validación).
type apiError struct {
	status  int
	code    string
	message string
	details any
}

func (e *apiError) Error() string { return e.code + ": " + e.message }

// parseBody decodifica el JSON y valida las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &apiError{status: fiber.StatusBadRequest, code: CodeInvalidBody, message: msgInvalidBody}
	}
	return validate(out)
}

// parseQuery igual que parseBody para parámetros de query.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &apiError{status: fiber.StatusBadRequest, code: CodeValidation, message: msgValidation}
	}
	return validate(out)
}

func validate(in any) error {
	if fieldErrs := dto.Validate(in); len(fieldErrs) > 0 {
		return &apiError{status: fiber.StatusBadRequest, code: CodeValidation, message: msgValidation, details: fieldErrs}
	}
	return nil
}

// NewErrorHandler ErrorHandler de la app: errores de fiber con su status, el resto 500.
func NewErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if ok, werr := writeKnownError(c, err); ok {
			return werr
		}
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = CodeInvalidBody
			case fiber.StatusMethodNotAllowed:
				code = CodeNotFound
			case fiber.StatusRequestEntityTooLarge:
				code = CodeValidation
			case fiber.StatusTooManyRequests:
				code = CodeRateLimit
			}
			if fe.Code < fiber.StatusInternalServerError {
				return respondError(c, fe.Code, code, fe.Message)
			}
		}
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return respondError(c, fiber.StatusInternalServerError, CodeInternal, msgInternal)
	}
}
