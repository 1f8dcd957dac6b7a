package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
)

// FamilyHandler familias, invitaciones y miembros (protegido).
type FamilyHandler struct {
	uc *usecase.FamilyUseCase
}

// NewFamilyHandler construye el handler.
func NewFamilyHandler(uc *usecase.FamilyUseCase) *FamilyHandler {
	return &FamilyHandler{uc: uc}
}

// List godoc
// @Summary      Mis familias
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FamilyResponse
// @Router       /api/families [get]
func (h *FamilyHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), GetUser(c))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear familia
// @Description  El creador queda como dueño y primer miembro; se genera un código XXX-XXX.
// @Tags         families
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFamilyRequest  true  "name"
// @Success      201   {object}  dto.FamilyResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/families [post]
func (h *FamilyHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFamilyRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Join godoc
// @Summary      Unirse a una familia
// @Tags         families
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JoinFamilyRequest  true  "invitationCode"
// @Success      200   {object}  dto.FamilyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/families/join [post]
func (h *FamilyHandler) Join(c *fiber.Ctx) error {
	var in dto.JoinFamilyRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Join(c.UserContext(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener familia
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la familia"
// @Success      200  {object}  dto.FamilyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/families/{id} [get]
func (h *FamilyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Members godoc
// @Summary      Miembros de la familia
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la familia"
// @Success      200  {array}   dto.FamilyMemberResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/families/{id}/members [get]
func (h *FamilyHandler) Members(c *fiber.Ctx) error {
	out, err := h.uc.Members(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// RemoveMember godoc
// @Summary      Quitar miembro
// @Description  El dueño no puede ser removido; para salir uno mismo se usa leave.
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID de la familia"
// @Param        userId  path  string  true  "ID del usuario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/families/{id}/members/{userId} [delete]
func (h *FamilyHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.uc.RemoveMember(c.UserContext(), GetUser(c), c.Params("id"), c.Params("userId")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Miembro removido de la familia"})
}

// Leave godoc
// @Summary      Salir de la familia
// @Description  El dueño solo puede salir siendo el último miembro; en ese caso la familia se elimina.
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la familia"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/families/{id}/leave [post]
func (h *FamilyHandler) Leave(c *fiber.Ctx) error {
	deleted, err := h.uc.Leave(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	msg := "Saliste de la familia"
	if deleted {
		msg = "Saliste de la familia y, al ser el último miembro, fue eliminada"
	}
	return c.JSON(dto.MessageResponse{Message: msg})
}

// RegenerateCode godoc
// @Summary      Regenerar código de invitación
// @Tags         families
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la familia"
// @Success      200  {object}  dto.InvitationCodeResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Router       /api/families/{id}/regenerate-code [post]
func (h *FamilyHandler) RegenerateCode(c *fiber.Ctx) error {
	out, err := h.uc.RegenerateCode(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
