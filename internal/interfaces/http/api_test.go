package http_test

import (
	"bytes"
	"net/http"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de punta a punta (sesión por cookie, repositorios en memoria)
// ──────────────────────────────────────────────────────────────────────────────

var invitationCodeRe = regexp.MustCompile(`^[A-Z0-9]{3}-[A-Z0-9]{3}$`)

// garcia registra a Ana (creator) con la familia "Garcia" y a Beto (commentator) unido por código.
func garcia(t *testing.T) (ana, beto *client, familyID string) {
	t.Helper()
	_, ana, beto, familyID = garciaWith(t, serverOptions{})
	return ana, beto, familyID
}

// garciaWith igual que garcia pero devuelve la app para registrar más usuarios.
func garciaWith(t *testing.T, opts serverOptions) (app *fiber.App, ana, beto *client, familyID string) {
	t.Helper()
	app = newTestApp(t, opts)
	ana, _ = register(t, app, "Ana", "ana@example.com", "creator")

	resp := ana.do(http.MethodPost, "/api/families", map[string]any{"name": "Garcia"})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	family := resp.object(t)
	familyID = family["id"].(string)
	code := family["invitationCode"].(string)
	require.Regexp(t, invitationCodeRe, code)

	beto, _ = register(t, app, "Beto", "beto@example.com", "commentator")
	resp = beto.do(http.MethodPost, "/api/families/join", map[string]any{"invitationCode": code})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	return app, ana, beto, familyID
}

func createRecipe(t *testing.T, cl *client, body map[string]any) map[string]any {
	t.Helper()
	resp := cl.do(http.MethodPost, "/api/recipes", body)
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	return resp.object(t)
}

func TestAPI_RecetasSinSesion_Retorna401(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	resp := newClient(t, app).do(http.MethodGet, "/api/recipes", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
}

func TestAPI_FamiliaGarcia_PerfilDeBetoReportaLaFamiliaDeAna(t *testing.T) {
	ana, beto, familyID := garcia(t)

	profileA := ana.do(http.MethodGet, "/api/auth/profile", nil).object(t)
	profileB := beto.do(http.MethodGet, "/api/auth/profile", nil).object(t)

	assert.Equal(t, familyID, profileA["familyId"])
	assert.Equal(t, profileA["familyId"], profileB["familyId"])
	assert.Equal(t, "commentator", profileB["role"])

	resp := beto.do(http.MethodGet, "/api/families/"+familyID+"/members", nil)
	require.Equal(t, http.StatusOK, resp.status)
	var members []map[string]any
	resp.json(t, &members)
	assert.Len(t, members, 2)
}

func TestAPI_UnirseDosVeces_Retorna409(t *testing.T) {
	ana, beto, familyID := garcia(t)
	code := ana.do(http.MethodGet, "/api/families/"+familyID, nil).object(t)["invitationCode"].(string)

	resp := beto.do(http.MethodPost, "/api/families/join", map[string]any{"invitationCode": code})
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, "ALREADY_IN_FAMILY", errorCode(t, resp))

	resp = beto.do(http.MethodPost, "/api/families/join", map[string]any{"invitationCode": "ZZZ-ZZZ"})
	assert.Equal(t, http.StatusNotFound, resp.status)
	assert.Equal(t, "INVALID_INVITATION_CODE", errorCode(t, resp))
}

func TestAPI_CalificacionPasta_PromedioCincoPuntoCero(t *testing.T) {
	ana, beto, _ := garcia(t)

	recipe := createRecipe(t, ana, map[string]any{"name": "Pasta", "category": "Plato Principal"})
	recipeID := recipe["id"].(string)

	resp := ana.do(http.MethodPost, "/api/meal-plans", map[string]any{
		"recipeId": recipeID, "fecha": "2025-06-02", "tipoComida": "almuerzo",
	})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	plan := resp.object(t)
	assert.Equal(t, "2025-06-02", plan["fecha"])
	assert.Equal(t, "Pasta", plan["recipe"].(map[string]any)["name"])

	resp = beto.do(http.MethodPost, "/api/recipes/"+recipeID+"/ratings", map[string]any{
		"rating": 5, "comment": "¡Me encantó!",
	})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))

	var ratings struct {
		Ratings []struct {
			Rating  int    `json:"rating"`
			Comment string `json:"comment"`
		} `json:"ratings"`
		Summary struct {
			Count         int    `json:"count"`
			AverageRating string `json:"averageRating"`
		} `json:"summary"`
	}
	ana.do(http.MethodGet, "/api/recipes/"+recipeID+"/ratings", nil).json(t, &ratings)
	require.Len(t, ratings.Ratings, 1)
	assert.Equal(t, "¡Me encantó!", ratings.Ratings[0].Comment)
	assert.Equal(t, 1, ratings.Summary.Count)
	assert.Equal(t, "5.0", ratings.Summary.AverageRating)

	// Calificar de nuevo reemplaza la anterior.
	resp = beto.do(http.MethodPost, "/api/recipes/"+recipeID+"/ratings", map[string]any{"rating": 4})
	require.Equal(t, http.StatusOK, resp.status)
	ana.do(http.MethodGet, "/api/recipes/"+recipeID+"/ratings", nil).json(t, &ratings)
	assert.Equal(t, 1, ratings.Summary.Count)
	assert.Equal(t, "4.0", ratings.Summary.AverageRating)
}

func TestAPI_CalificacionFueraDeRango_Retorna400(t *testing.T) {
	ana, beto, _ := garcia(t)
	recipeID := createRecipe(t, ana, map[string]any{"name": "Sopa"})["id"].(string)

	resp := beto.do(http.MethodPost, "/api/recipes/"+recipeID+"/ratings", map[string]any{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, resp.status)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, resp))
}

func TestAPI_EliminarRecetaEnUso_Retorna409YConservaAmbas(t *testing.T) {
	ana, _, _ := garcia(t)
	recipeID := createRecipe(t, ana, map[string]any{"name": "Milanesa"})["id"].(string)
	resp := ana.do(http.MethodPost, "/api/meal-plans", map[string]any{
		"recipeId": recipeID, "fecha": "2025-06-03", "tipoComida": "cena",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	planID := resp.object(t)["id"].(string)

	resp = ana.do(http.MethodDelete, "/api/recipes/"+recipeID, nil)
	assert.Equal(t, http.StatusConflict, resp.status)
	body := resp.object(t)
	assert.Equal(t, "RECIPE_IN_USE", body["error"])
	assert.Contains(t, body["message"], "comidas planificadas")

	assert.Equal(t, http.StatusOK, ana.do(http.MethodGet, "/api/recipes/"+recipeID, nil).status)
	assert.Equal(t, http.StatusOK, ana.do(http.MethodGet, "/api/meal-plans/"+planID, nil).status)

	// Sin planes la receta se puede borrar.
	require.Equal(t, http.StatusOK, ana.do(http.MethodDelete, "/api/meal-plans/"+planID, nil).status)
	assert.Equal(t, http.StatusOK, ana.do(http.MethodDelete, "/api/recipes/"+recipeID, nil).status)
	assert.Equal(t, http.StatusNotFound, ana.do(http.MethodGet, "/api/recipes/"+recipeID, nil).status)
}

func TestAPI_CrearYLeerReceta_RespetaLosCampos(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	ana, _ := register(t, app, "Ana", "ana@example.com", "creator")

	in := map[string]any{
		"name":         "Tarta de Espinaca",
		"description":  "Con masa casera",
		"imageUrl":     "https://img.example.com/tarta.jpg",
		"link":         "https://recetas.example.com/tarta",
		"category":     "Tartas",
		"kidsRating":   4,
		"ingredients":  []string{"espinaca", "huevos", "queso"},
		"instructions": "Hornear 40 minutos",
		"prepTime":     60,
		"portions":     6,
		"isFavorite":   true,
	}
	created := createRecipe(t, ana, in)
	got := ana.do(http.MethodGet, "/api/recipes/"+created["id"].(string), nil).object(t)

	for _, field := range []string{"name", "description", "imageUrl", "link", "category", "instructions"} {
		assert.Equal(t, in[field], got[field], field)
	}
	assert.EqualValues(t, 4, got["kidsRating"])
	assert.EqualValues(t, 60, got["prepTime"])
	assert.EqualValues(t, 6, got["portions"])
	assert.Equal(t, true, got["isFavorite"])
	assert.Equal(t, []any{"espinaca", "huevos", "queso"}, got["ingredients"])
	assert.Nil(t, got["familyId"], "sin familia la receta es personal")
}

func TestAPI_BusquedaYFiltros(t *testing.T) {
	ana, _, _ := garcia(t)
	createRecipe(t, ana, map[string]any{"name": "Puré de papas", "category": "Guarniciones"})
	createRecipe(t, ana, map[string]any{"name": "Pollo al horno", "category": "Plato Principal", "isFavorite": true})

	var list []map[string]any
	ana.do(http.MethodGet, "/api/recipes?search=pure", nil).json(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Puré de papas", list[0]["name"])

	ana.do(http.MethodGet, "/api/recipes?category=plato%20principal", nil).json(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Pollo al horno", list[0]["name"])

	ana.do(http.MethodGet, "/api/recipes?favorites=true", nil).json(t, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Pollo al horno", list[0]["name"])
}

func TestAPI_AislamientoEntreFamilias(t *testing.T) {
	ana, beto, familyID := garcia(t)
	recipeID := createRecipe(t, ana, map[string]any{"name": "Ñoquis"})["id"].(string)
	resp := ana.do(http.MethodPost, "/api/meal-plans", map[string]any{
		"recipeId": recipeID, "fecha": "2025-06-29", "tipoComida": "almuerzo",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	planID := resp.object(t)["id"].(string)

	// Beto, de la misma familia, ve la receta.
	assert.Equal(t, http.StatusOK, beto.do(http.MethodGet, "/api/recipes/"+recipeID, nil).status)

	// Carla, de otra familia, no ve nada.
	carla, _ := register(t, ana.app, "Carla", "carla@example.com", "creator")
	require.Equal(t, http.StatusCreated, carla.do(http.MethodPost, "/api/families", map[string]any{"name": "López"}).status)

	var list []map[string]any
	carla.do(http.MethodGet, "/api/recipes", nil).json(t, &list)
	assert.Empty(t, list)
	carla.do(http.MethodGet, "/api/meal-plans", nil).json(t, &list)
	assert.Empty(t, list)

	assert.Equal(t, http.StatusNotFound, carla.do(http.MethodGet, "/api/recipes/"+recipeID, nil).status)
	assert.Equal(t, http.StatusNotFound, carla.do(http.MethodGet, "/api/meal-plans/"+planID, nil).status)
	assert.Equal(t, http.StatusNotFound, carla.do(http.MethodPut, "/api/recipes/"+recipeID, map[string]any{"name": "x"}).status)
	assert.Equal(t, http.StatusNotFound, carla.do(http.MethodDelete, "/api/recipes/"+recipeID, nil).status)
	assert.Equal(t, http.StatusNotFound, carla.do(http.MethodPost, "/api/recipes/"+recipeID+"/ratings", map[string]any{"rating": 1}).status)

	resp = carla.do(http.MethodGet, "/api/families/"+familyID, nil)
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "FAMILY_ACCESS_DENIED", errorCode(t, resp))

	// La receta de Ana sigue intacta.
	got := ana.do(http.MethodGet, "/api/recipes/"+recipeID, nil).object(t)
	assert.Equal(t, "Ñoquis", got["name"])
}

func TestAPI_ComentaristaNoCreaRecetas(t *testing.T) {
	_, beto, familyID := garcia(t)

	resp := beto.do(http.MethodPost, "/api/recipes", map[string]any{"name": "Helado"})
	assert.Equal(t, http.StatusForbidden, resp.status)
	body := resp.object(t)
	assert.Equal(t, "FORBIDDEN", body["error"])
	assert.Equal(t, "commentator", body["details"].(map[string]any)["current"])

	resp = beto.do(http.MethodPost, "/api/families/"+familyID+"/regenerate-code", nil)
	assert.Equal(t, http.StatusForbidden, resp.status)
	assert.Equal(t, "FAMILY_EDIT_DENIED", errorCode(t, resp))
}

func TestAPI_BloqueoTrasCincoIntentos(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	register(t, app, "Ana", "ana@example.com", "creator")
	cl := newClient(t, app)

	for i := 1; i <= 4; i++ {
		resp := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ana@example.com", "password": "incorrecta"})
		require.Equal(t, http.StatusUnauthorized, resp.status)
		body := resp.object(t)
		assert.Equal(t, "INVALID_CREDENTIALS", body["error"])
		assert.EqualValues(t, 5-i, body["details"].(map[string]any)["remainingAttempts"])
	}

	resp := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ana@example.com", "password": "incorrecta"})
	require.Equal(t, http.StatusUnauthorized, resp.status)
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(t, resp))

	// El sexto intento queda bloqueado aun con la contraseña correcta.
	resp = cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ANA@example.com", "password": testPassword})
	require.Equal(t, http.StatusUnauthorized, resp.status)
	body := resp.object(t)
	assert.Equal(t, "ACCOUNT_LOCKED", body["error"])
	assert.EqualValues(t, 15, body["details"].(map[string]any)["minutesRemaining"])
	assert.Empty(t, cl.cookie, "no se abre sesión")
}

func TestAPI_LoginLogoutYEstado(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	register(t, app, "Ana", "ana@example.com", "creator")
	cl := newClient(t, app)

	status := cl.do(http.MethodGet, "/api/auth/status", nil)
	require.Equal(t, http.StatusOK, status.status)
	assert.Equal(t, false, status.object(t)["authenticated"])

	resp := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "ana@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.status, string(resp.body))
	require.NotEmpty(t, cl.cookie)
	assert.Equal(t, true, cl.do(http.MethodGet, "/api/auth/status", nil).object(t)["authenticated"])

	require.Equal(t, http.StatusOK, cl.do(http.MethodPost, "/api/auth/logout", nil).status)
	assert.Equal(t, http.StatusUnauthorized, cl.do(http.MethodGet, "/api/auth/profile", nil).status)
}

func TestAPI_TokenBearer(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	register(t, app, "Ana", "ana@example.com", "creator")
	cl := newClient(t, app)

	var tok struct {
		Token     string `json:"token"`
		ExpiresIn int    `json:"expiresIn"`
	}
	resp := cl.do(http.MethodPost, "/api/auth/token", map[string]any{"email": "ana@example.com", "password": testPassword})
	require.Equal(t, http.StatusOK, resp.status)
	resp.json(t, &tok)
	require.NotEmpty(t, tok.Token)
	assert.Equal(t, 3600, tok.ExpiresIn)

	cl.bearer = tok.Token
	assert.Equal(t, http.StatusOK, cl.do(http.MethodGet, "/api/recipes", nil).status)
}

func TestAPI_RegistroInvalido(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	cl := newClient(t, app)

	resp := cl.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Ana", "email": "no-es-email", "password": "123", "role": "admin",
	})
	require.Equal(t, http.StatusBadRequest, resp.status)
	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	resp.json(t, &body)
	assert.Equal(t, "VALIDATION_ERROR", body.Error)
	fields := make([]string, 0, len(body.Details))
	for _, d := range body.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"email", "password", "role"}, fields)

	register(t, app, "Ana", "ana@example.com", "creator")
	resp = cl.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Otra", "email": "ANA@example.com", "password": testPassword, "role": "creator",
	})
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", errorCode(t, resp))
}

func TestAPI_ComentariosDeComida(t *testing.T) {
	ana, beto, _ := garcia(t)
	recipeID := createRecipe(t, ana, map[string]any{"name": "Lentejas"})["id"].(string)
	resp := ana.do(http.MethodPost, "/api/meal-plans", map[string]any{
		"recipeId": recipeID, "fecha": "2025-06-04", "tipoComida": "cena",
	})
	require.Equal(t, http.StatusCreated, resp.status)
	planID := resp.object(t)["id"].(string)

	resp = beto.do(http.MethodPost, "/api/meal-plans/"+planID+"/comments", map[string]any{"comment": "Muy rico", "emoji": "😋"})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	commentID := resp.object(t)["id"].(string)

	var comments []map[string]any
	ana.do(http.MethodGet, "/api/meal-plans/"+planID+"/comments", nil).json(t, &comments)
	require.Len(t, comments, 1)
	assert.Equal(t, "Beto", comments[0]["userName"])

	// Ana es creadora de la familia: puede borrar el comentario de Beto.
	assert.Equal(t, http.StatusOK, ana.do(http.MethodDelete, "/api/meal-plans/"+planID+"/comments/"+commentID, nil).status)
	ana.do(http.MethodGet, "/api/meal-plans/"+planID+"/comments", nil).json(t, &comments)
	assert.Empty(t, comments)
}

func TestAPI_SemanaDeComidas(t *testing.T) {
	ana, _, _ := garcia(t)
	recipeID := createRecipe(t, ana, map[string]any{"name": "Tacos"})["id"].(string)
	for _, day := range []string{"2025-06-02", "2025-06-08", "2025-06-09"} {
		resp := ana.do(http.MethodPost, "/api/meal-plans", map[string]any{
			"recipeId": recipeID, "fecha": day, "tipoComida": "cena",
		})
		require.Equal(t, http.StatusCreated, resp.status)
	}

	var week []map[string]any
	ana.do(http.MethodGet, "/api/meal-plans?startDate=2025-06-02", nil).json(t, &week)
	require.Len(t, week, 2, "la semana incluye 7 días desde startDate")
	assert.Equal(t, "2025-06-02", week[0]["fecha"])
	assert.Equal(t, "2025-06-08", week[1]["fecha"])

	var day []map[string]any
	ana.do(http.MethodGet, "/api/meal-plans?date=2025-06-09", nil).json(t, &day)
	assert.Len(t, day, 1)

	resp := ana.do(http.MethodGet, "/api/meal-plans?startDate=02/06/2025", nil)
	assert.Equal(t, http.StatusBadRequest, resp.status)

	pdf := ana.do(http.MethodGet, "/api/meal-plans/export.pdf?startDate=2025-06-02", nil)
	require.Equal(t, http.StatusOK, pdf.status)
	assert.Equal(t, "application/pdf", pdf.header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(pdf.body, []byte("%PDF")))
}

func TestAPI_DuenoNoPuedeSalirConMiembros(t *testing.T) {
	ana, beto, familyID := garcia(t)

	resp := ana.do(http.MethodPost, "/api/families/"+familyID+"/leave", nil)
	assert.Equal(t, http.StatusConflict, resp.status)
	assert.Equal(t, "FAMILY_OWNER", errorCode(t, resp))

	require.Equal(t, http.StatusOK, beto.do(http.MethodPost, "/api/families/"+familyID+"/leave", nil).status)
	assert.Nil(t, beto.do(http.MethodGet, "/api/auth/profile", nil).object(t)["familyId"])

	require.Equal(t, http.StatusOK, ana.do(http.MethodPost, "/api/families/"+familyID+"/leave", nil).status)
	var families []map[string]any
	ana.do(http.MethodGet, "/api/families", nil).json(t, &families)
	assert.Empty(t, families)
}

func TestAPI_RateLimitDeAuth(t *testing.T) {
	app := newTestApp(t, serverOptions{rateLimited: true})
	cl := newClient(t, app)

	for i := 0; i < 5; i++ {
		resp := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "nadie@example.com", "password": "x"})
		require.Equal(t, http.StatusUnauthorized, resp.status)
	}
	resp := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "nadie@example.com", "password": "x"})
	require.Equal(t, http.StatusTooManyRequests, resp.status)
	assert.NotEmpty(t, resp.header.Get("Retry-After"))
	body := resp.object(t)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestAPI_HealthCheck(t *testing.T) {
	app := newTestApp(t, serverOptions{})
	for _, path := range []string{"/", "/health", "/api/health-check"} {
		resp := newClient(t, app).do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.status, path)
		body := resp.object(t)
		assert.Equal(t, "ok", body["status"])
		assert.Equal(t, "up", body["database"].(map[string]any)["status"])
		assert.Contains(t, body["memory"], "heapInUse")
	}

	down := newTestApp(t, serverOptions{pinger: failingPinger{}})
	resp := newClient(t, down).do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.status)
	assert.Equal(t, "down", resp.object(t)["database"].(map[string]any)["status"])
}
