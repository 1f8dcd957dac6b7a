package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/application/auth"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/memory"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/pdf"
	apphttp "github.com/luchotourn/menusemanal-sub000/internal/interfaces/http"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre los repositorios en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testPassword  = "secreto123"
	cookieName    = "menu.sid"
)

type serverOptions struct {
	rateLimited bool
	pinger      usecase.DBPinger
	avatars     ports.AvatarStorage
}

func newTestApp(t *testing.T, opts serverOptions) *fiber.App {
	t.Helper()
	db := memory.NewDB()
	users := memory.NewUserRepository(db)
	families := memory.NewFamilyRepository(db)
	recipes := memory.NewRecipeRepository(db)
	plans := memory.NewMealPlanRepository(db)
	ratings := memory.NewRatingRepository(db)
	comments := memory.NewCommentRepository(db)
	tx := memory.NewTxRunner(db)

	memberships := usecase.NewMembershipService(families, time.Minute)
	t.Cleanup(func() { _ = memberships.Close() })

	var pinger usecase.DBPinger = db
	if opts.pinger != nil {
		pinger = opts.pinger
	}

	log := logger.Nop()
	app := apphttp.NewApp(apphttp.AppConfig{Name: "menu-semanal-test", Log: log})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(users, families, opts.avatars, auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: 60, Issuer: "menu-semanal-test",
		}),
		FamilyUC:         usecase.NewFamilyUseCase(families, memberships),
		RecipeUC:         usecase.NewRecipeUseCase(recipes, tx),
		MealPlanUC:       usecase.NewMealPlanUseCase(plans, tx, pdf.NewMarotoPDFGenerator("")),
		RatingUC:         usecase.NewRatingUseCase(ratings, recipes),
		CommentUC:        usecase.NewCommentUseCase(comments, plans, families, nil, log),
		HealthUC:         usecase.NewHealthUseCase(pinger, "menu-semanal-test"),
		Memberships:      memberships,
		Sessions:         apphttp.NewSessionStore(apphttp.SessionConfig{CookieName: cookieName, TTL: time.Hour}),
		DisableRateLimit: !opts.rateLimited,
		Log:              log,
	})
	return app
}

// client guarda la cookie de sesión entre requests, como un navegador.
type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
	bearer string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) json(t *testing.T, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, out), "cuerpo: %s", string(r.body))
}

func (r response) object(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	r.json(t, &m)
	return m
}

func (cl *client) do(method, path string, body any) response {
	cl.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return cl.send(req)
}

// upload envía un archivo como multipart/form-data en el campo indicado.
func (cl *client) upload(path, field, filename, contentType string, data []byte) response {
	cl.t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(cl.t, err)
	_, err = part.Write(data)
	require.NoError(cl.t, err)
	require.NoError(cl.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.send(req)
}

func (cl *client) send(req *http.Request) response {
	cl.t.Helper()
	if cl.cookie != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cl.cookie})
	}
	if cl.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+cl.bearer)
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	defer resp.Body.Close()
	for _, ck := range resp.Cookies() {
		if ck.Name == cookieName {
			cl.cookie = ck.Value
		}
	}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}

// register registra un usuario y deja la sesión abierta en el cliente.
func register(t *testing.T, app *fiber.App, name, email, role string) (*client, map[string]any) {
	t.Helper()
	cl := newClient(t, app)
	resp := cl.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": name, "email": email, "password": testPassword, "role": role,
	})
	require.Equal(t, http.StatusCreated, resp.status, string(resp.body))
	require.NotEmpty(t, cl.cookie, "el registro debe abrir la sesión")
	body := resp.object(t)
	user, _ := body["user"].(map[string]any)
	require.NotNil(t, user)
	return cl, user
}

// errorCode extrae el campo "error" del cuerpo.
func errorCode(t *testing.T, r response) string {
	t.Helper()
	code, _ := r.object(t)["error"].(string)
	return code
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

// memoryAvatars guarda las subidas en memoria.
type memoryAvatars struct {
	keys []string
}

func (m *memoryAvatars) Upload(_ context.Context, key, _ string, _ []byte) (string, error) {
	m.keys = append(m.keys, key)
	return "https://cdn.example.com/" + key, nil
}
