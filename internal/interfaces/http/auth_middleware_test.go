package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	apphttp "github.com/luchotourn/menusemanal-sub000/internal/interfaces/http"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeResolver resuelve tokens "tok-<id>" contra un mapa de usuarios.
type fakeResolver struct {
	users map[string]*entity.User
	fail  bool
}

func (f fakeResolver) ParseToken(token string) (string, error) {
	if len(token) > 4 && token[:4] == "tok-" {
		return token[4:], nil
	}
	return "", errors.New("token inválido")
}

func (f fakeResolver) CurrentUser(_ context.Context, id string) (*entity.User, error) {
	if f.fail {
		return nil, errors.New("db caída")
	}
	return f.users[id], nil
}

var testUsers = map[string]*entity.User{
	"u-creator":     {ID: "u-creator", Name: "Ana", Role: entity.RoleCreator, FamilyID: "fam-1"},
	"u-commentator": {ID: "u-commentator", Name: "Beto", Role: entity.RoleCommentator, FamilyID: "fam-1"},
	"u-admin":       {ID: "u-admin", Name: "Ops", Role: entity.RoleAdmin},
}

// buildRoleApp construye una app mínima con AuthMiddleware + RequireRole.
func buildRoleApp(resolver fakeResolver, roles ...entity.Role) *fiber.App {
	app := apphttp.NewApp(apphttp.AppConfig{Log: logger.Nop()})
	store := apphttp.NewSessionStore(apphttp.SessionConfig{CookieName: cookieName})
	app.Get("/protected",
		apphttp.AuthMiddleware(store, resolver, logger.Nop()),
		apphttp.RequireRole(roles...),
		func(c *fiber.Ctx) error {
			u := apphttp.GetUser(c)
			return c.JSON(fiber.Map{"ok": true, "role": string(u.Role)})
		},
	)
	return app
}

func doProtected(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_CreadorAccedeRutaDeCreador(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCreator)
	resp := doProtected(t, app, "tok-u-creator")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "creator", body["role"])
}

func TestRequireRole_AdminSatisfaceCualquierRol(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCommentator)
	resp := doProtected(t, app, "tok-u-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin cumple cualquier rol requerido")
}

func TestRequireRole_ComentaristaBloqueadoEnRutaDeCreador(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCreator)
	resp := doProtected(t, app, "tok-u-commentator")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body struct {
		Error   string `json:"error"`
		Details struct {
			Required []string `json:"required"`
			Current  string   `json:"current"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "FORBIDDEN", body.Error)
	assert.Equal(t, []string{"creator"}, body.Details.Required)
	assert.Equal(t, "commentator", body.Details.Current)
}

func TestRequireRole_SinIdentidad_Retorna401(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCreator)
	resp := doProtected(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_TokenInvalido_SigueAnonimo(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCreator)
	resp := doProtected(t, app, "basura")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole_UsuarioEliminado_Retorna401(t *testing.T) {
	app := buildRoleApp(fakeResolver{users: testUsers}, entity.RoleCreator)
	resp := doProtected(t, app, "tok-u-borrado")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ErrorDeCarga_SigueAnonimo(t *testing.T) {
	app := apphttp.NewApp(apphttp.AppConfig{Log: logger.Nop()})
	store := apphttp.NewSessionStore(apphttp.SessionConfig{CookieName: cookieName})
	app.Get("/me", apphttp.AuthMiddleware(store, fakeResolver{fail: true}, logger.Nop()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"anonymous": apphttp.GetUser(c) == nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer tok-u-creator")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["anonymous"])
}

func TestRequireAuth_MensajeEnEspanol(t *testing.T) {
	app := apphttp.NewApp(apphttp.AppConfig{Log: logger.Nop()})
	app.Get("/private", apphttp.RequireAuth(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/private", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body["error"])
	assert.Equal(t, "Debes iniciar sesión", body["message"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireFamilyAccess / RequireFamilyEditAccess
// ──────────────────────────────────────────────────────────────────────────────

type fakeMemberships map[string]string // userID -> familyID

func (f fakeMemberships) IsMember(_ context.Context, userID, familyID string) (bool, error) {
	return f[userID] == familyID, nil
}

func buildFamilyApp(edit bool) *fiber.App {
	app := apphttp.NewApp(apphttp.AppConfig{Log: logger.Nop()})
	store := apphttp.NewSessionStore(apphttp.SessionConfig{CookieName: cookieName})
	members := fakeMemberships{"u-creator": "fam-1", "u-commentator": "fam-1"}
	guard := apphttp.RequireFamilyAccess(members, logger.Nop())
	if edit {
		guard = apphttp.RequireFamilyEditAccess(members, logger.Nop())
	}
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	auth := apphttp.AuthMiddleware(store, fakeResolver{users: testUsers}, logger.Nop())
	app.Get("/families/:id", auth, guard, ok)
	app.Get("/plans", auth, guard, ok)
	return app
}

func familyRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	code, _ := body["error"].(string)
	return code
}

func TestRequireFamilyAccess(t *testing.T) {
	app := buildFamilyApp(false)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		code   string
	}{
		{"miembro por path", "/families/fam-1", "tok-u-commentator", http.StatusNoContent, ""},
		{"miembro por query", "/plans?familyId=fam-1", "tok-u-creator", http.StatusNoContent, ""},
		{"otra familia", "/families/fam-2", "tok-u-creator", http.StatusForbidden, "FAMILY_ACCESS_DENIED"},
		{"sin familia en la request", "/plans", "tok-u-creator", http.StatusBadRequest, "FAMILY_ID_REQUIRED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := familyRequest(t, app, tc.path, tc.token)
			defer resp.Body.Close()
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, resp))
			}
		})
	}
}

func TestRequireFamilyEditAccess_ComentaristaNoEdita(t *testing.T) {
	app := buildFamilyApp(true)

	resp := familyRequest(t, app, "/families/fam-1", "tok-u-commentator")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FAMILY_EDIT_DENIED", decodeError(t, resp))

	resp2 := familyRequest(t, app, "/families/fam-1", "tok-u-creator")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp2.StatusCode)
}
