package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
)

// MealPlanHandler planificación semanal y comentarios de comidas (protegido).
type MealPlanHandler struct {
	uc       *usecase.MealPlanUseCase
	comments *usecase.CommentUseCase
}

// NewMealPlanHandler construye el handler.
func NewMealPlanHandler(uc *usecase.MealPlanUseCase, comments *usecase.CommentUseCase) *MealPlanHandler {
	return &MealPlanHandler{uc: uc, comments: comments}
}

// List godoc
// @Summary      Listar planes de comida
// @Description  startDate devuelve los 7 días desde esa fecha; date un único día; sin filtros, todos.
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        startDate  query  string  false  "YYYY-MM-DD"
// @Param        date       query  string  false  "YYYY-MM-DD"
// @Success      200  {array}   dto.MealPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/meal-plans [get]
func (h *MealPlanHandler) List(c *fiber.Ctx) error {
	var q dto.MealPlanListQuery
	if err := parseQuery(c, &q); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetUser(c), q)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener plan de comida
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {object}  dto.MealPlanResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id} [get]
func (h *MealPlanHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Planificar comida
// @Tags         meal-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMealPlanRequest  true  "recipeId, fecha, tipoComida, notas"
// @Success      201   {object}  dto.MealPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/meal-plans [post]
func (h *MealPlanHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMealPlanRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUser(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar plan de comida
// @Tags         meal-plans
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del plan"
// @Param        body  body  dto.UpdateMealPlanRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.MealPlanResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id} [put]
func (h *MealPlanHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMealPlanRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUser(c), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar plan de comida
// @Tags         meal-plans
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id} [delete]
func (h *MealPlanHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUser(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comida eliminada del menú"})
}

// ExportPDF godoc
// @Summary      Menú semanal en PDF
// @Tags         meal-plans
// @Security     Bearer
// @Produce      application/pdf
// @Param        startDate  query  string  false  "Primer día YYYY-MM-DD (por defecto, el lunes de esta semana)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/meal-plans/export.pdf [get]
func (h *MealPlanHandler) ExportPDF(c *fiber.Ctx) error {
	data, err := h.uc.ExportWeekPDF(c.UserContext(), GetUser(c), c.Query("startDate"))
	if err != nil {
		return handleError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="menu-semanal.pdf"`)
	return c.Send(data)
}

// Comments godoc
// @Summary      Comentarios de una comida
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del plan"
// @Success      200  {array}   dto.CommentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id}/comments [get]
func (h *MealPlanHandler) Comments(c *fiber.Ctx) error {
	out, err := h.comments.List(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// AddComment godoc
// @Summary      Comentar una comida
// @Description  Notifica por e-mail a los creadores de la familia cuando está habilitado.
// @Tags         comments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del plan"
// @Param        body  body  dto.CreateCommentRequest  true  "comment (1-500) y emoji opcional"
// @Success      201   {object}  dto.CommentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id}/comments [post]
func (h *MealPlanHandler) AddComment(c *fiber.Ctx) error {
	var in dto.CreateCommentRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.comments.Create(c.UserContext(), GetUser(c), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteComment godoc
// @Summary      Eliminar comentario
// @Description  Solo el autor o un creador de la familia.
// @Tags         comments
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID del plan"
// @Param        commentId  path  string  true  "ID del comentario"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/meal-plans/{id}/comments/{commentId} [delete]
func (h *MealPlanHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.comments.Delete(c.UserContext(), GetUser(c), c.Params("id"), c.Params("commentId")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Comentario eliminado"})
}
