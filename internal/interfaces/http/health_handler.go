package http

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
)

// HealthHandler estado del servicio y app shell del cliente.
type HealthHandler struct {
	uc        *usecase.HealthUseCase
	staticDir string
}

// NewHealthHandler construye el handler. staticDir vacío = sin app shell.
func NewHealthHandler(uc *usecase.HealthUseCase, staticDir string) *HealthHandler {
	return &HealthHandler{uc: uc, staticDir: staticDir}
}

// Root godoc
// @Summary      Raíz
// @Description  Con Accept text/html sirve index.html del cliente; si no, el health check.
// @Tags         health
// @Produce      json,html
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	if h.staticDir != "" && strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		index := filepath.Join(h.staticDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			return c.SendFile(index)
		}
	}
	return h.Check(c)
}

// Check godoc
// @Summary      Health check
// @Description  503 cuando la base de datos no responde.
// @Tags         health
// @Produce      json
// @Success      200  {object}  dto.HealthResponse
// @Failure      503  {object}  dto.HealthResponse
// @Router       /health [get]
// @Router       /api/health-check [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	out, healthy := h.uc.Check(c.UserContext())
	if !healthy {
		return c.Status(fiber.StatusServiceUnavailable).JSON(out)
	}
	return c.JSON(out)
}
