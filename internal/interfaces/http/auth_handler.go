package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/luchotourn/menusemanal-sub000/internal/application/auth"
	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
)

// AuthHandler registro, sesión y cuenta propia.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	sessions *session.Store
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *session.Store) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  Crea la cuenta (rol creator o commentator) y abre la sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "name, email, password, role"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	user, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	if err := startSession(c, h.sessions, user.ID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{User: *user, Message: "Usuario registrado exitosamente"})
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Tras 5 intentos fallidos en 15 minutos la cuenta queda bloqueada.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	user, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	if err := startSession(c, h.sessions, user.ID); err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{User: *user, Message: "Inicio de sesión exitoso"})
}

// Token godoc
// @Summary      Obtener token Bearer
// @Description  Mismas reglas de bloqueo que el login por sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.IssueToken(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := endSession(c, h.sessions); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Sesión cerrada"})
}

// Status godoc
// @Summary      Estado de autenticación
// @Description  Nunca responde 401.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.AuthStatusResponse
// @Router       /api/auth/status [get]
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	user := GetUser(c)
	if user == nil {
		return c.JSON(dto.AuthStatusResponse{Authenticated: false})
	}
	return c.JSON(dto.AuthStatusResponse{Authenticated: true, User: auth.ToUserResponse(user)})
}

// Profile godoc
// @Summary      Perfil del usuario
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/profile [get]
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(auth.ToUserResponse(GetUser(c)))
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateProfileRequest  true  "name, email, notificationPreferences"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.UpdateProfile(c.UserContext(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "currentPassword, newPassword"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	if err := h.uc.ChangePassword(c.UserContext(), GetUser(c), in); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Contraseña actualizada"})
}

// Avatar godoc
// @Summary      Actualizar avatar
// @Description  Multipart (campo avatar) se sube al almacenamiento de objetos; JSON acepta URL http(s) o data URL.
// @Tags         auth
// @Security     Bearer
// @Accept       json,mpfd
// @Produce      json
// @Param        body    body      dto.AvatarRequest  false  "avatar como URL o data URL"
// @Param        avatar  formData  file               false  "imagen (máx. 2 MB)"
// @Success      200     {object}  dto.UserResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      503     {object}  dto.ErrorResponse
// @Router       /api/auth/avatar [post]
func (h *AuthHandler) Avatar(c *fiber.Ctx) error {
	user := GetUser(c)
	if fh, err := c.FormFile("avatar"); err == nil {
		if fh.Size > auth.MaxAvatarBytes {
			return handleError(c, domain.ErrInvalidInput)
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, auth.MaxAvatarBytes+1))
		if err != nil {
			return err
		}
		out, err := h.uc.UploadAvatar(c.UserContext(), user, fh.Filename, fh.Header.Get(fiber.HeaderContentType), data)
		if err != nil {
			return handleError(c, err)
		}
		return c.JSON(out)
	}
	var in dto.AvatarRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.SetAvatar(c.UserContext(), user, in.Avatar)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// DeleteAccount godoc
// @Summary      Eliminar cuenta
// @Description  Re-verifica la contraseña, elimina la cuenta con sus datos y cierra la sesión.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DeleteAccountRequest  true  "password"
// @Success      200   {object}  dto.MessageResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/account [delete]
func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	var in dto.DeleteAccountRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	if err := h.uc.DeleteAccount(c.UserContext(), GetUser(c), in.Password); err != nil {
		return handleError(c, err)
	}
	if err := endSession(c, h.sessions); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Cuenta eliminada"})
}
