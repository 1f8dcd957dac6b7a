package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
)

// RecipeHandler recetas y sus calificaciones (protegido).
type RecipeHandler struct {
	uc      *usecase.RecipeUseCase
	ratings *usecase.RatingUseCase
}

// NewRecipeHandler construye el handler.
func NewRecipeHandler(uc *usecase.RecipeUseCase, ratings *usecase.RatingUseCase) *RecipeHandler {
	return &RecipeHandler{uc: uc, ratings: ratings}
}

// List godoc
// @Summary      Listar recetas
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        category   query  string  false  "Categoría (sin distinguir mayúsculas)"
// @Param        search     query  string  false  "Texto en nombre o descripción (sin acentos)"
// @Param        favorites  query  bool    false  "Solo favoritas"
// @Success      200  {array}   dto.RecipeResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/recipes [get]
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	var q dto.RecipeListQuery
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
// @Summary      Obtener receta
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [get]
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRecipeRequest  true  "Datos de la receta"
// @Success      201   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/recipes [post]
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRecipeRequest
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
// @Summary      Actualizar receta
// @Tags         recipes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la receta"
// @Param        body  body  dto.UpdateRecipeRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.RecipeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [put]
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRecipeRequest
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
// @Summary      Eliminar receta
// @Description  Falla con 409 RECIPE_IN_USE si la receta está en algún plan de comidas.
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUser(c), c.Params("id")); err != nil {
		return handleError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Receta eliminada"})
}

// ToggleFavorite godoc
// @Summary      Marcar o desmarcar favorita
// @Tags         recipes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/favorite [post]
func (h *RecipeHandler) ToggleFavorite(c *fiber.Ctx) error {
	out, err := h.uc.ToggleFavorite(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Ratings godoc
// @Summary      Calificaciones de una receta
// @Tags         ratings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.RecipeRatingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ratings [get]
func (h *RecipeHandler) Ratings(c *fiber.Ctx) error {
	out, err := h.ratings.List(c.UserContext(), GetUser(c), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Rate godoc
// @Summary      Calificar receta
// @Description  Una calificación por usuario y receta; una nueva reemplaza la anterior.
// @Tags         ratings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la receta"
// @Param        body  body  dto.RateRecipeRequest  true  "rating 1-5 y comentario opcional"
// @Success      200   {object}  dto.RatingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/ratings [post]
func (h *RecipeHandler) Rate(c *fiber.Ctx) error {
	var in dto.RateRecipeRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.ratings.Rate(c.UserContext(), GetUser(c), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
