package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/application/dto"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/memory"
)

// world casos de uso sobre un mismo almacén en memoria.
type world struct {
	users    *memory.UserRepo
	families *memory.FamilyRepo
	family   *usecase.FamilyUseCase
	recipes  *usecase.RecipeUseCase
	plans    *usecase.MealPlanUseCase
	ratings  *usecase.RatingUseCase
	db       *memory.DB
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := memory.NewDB()
	w := &world{db: db, users: memory.NewUserRepository(db), families: memory.NewFamilyRepository(db)}
	memberships := usecase.NewMembershipService(w.families, time.Minute)
	t.Cleanup(func() { _ = memberships.Close() })

	tx := memory.NewTxRunner(db)
	w.family = usecase.NewFamilyUseCase(w.families, memberships)
	w.recipes = usecase.NewRecipeUseCase(memory.NewRecipeRepository(db), tx)
	w.plans = usecase.NewMealPlanUseCase(memory.NewMealPlanRepository(db), tx, nil)
	w.ratings = usecase.NewRatingUseCase(memory.NewRatingRepository(db), memory.NewRecipeRepository(db))
	return w
}

func (w *world) user(t *testing.T, name string, role entity.Role) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID:            uuid.New().String(),
		Email:         name + "@example.com",
		Name:          name,
		Role:          role,
		Notifications: entity.DefaultNotificationPreferences(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, w.users.Create(context.Background(), u))
	return u
}

// reload relee el usuario para ver su familia actual.
func (w *world) reload(t *testing.T, u *entity.User) *entity.User {
	t.Helper()
	fresh, err := w.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
	return fresh
}

// garcia: Ana (creator) dueña de "Garcia" y Beto (commentator) unido con el código.
func (w *world) garcia(t *testing.T) (ana, beto *entity.User, family *dto.FamilyResponse) {
	t.Helper()
	ctx := context.Background()
	ana = w.user(t, "ana", entity.RoleCreator)
	beto = w.user(t, "beto", entity.RoleCommentator)

	family, err := w.family.Create(ctx, ana, dto.CreateFamilyRequest{Name: "Garcia"})
	require.NoError(t, err)
	_, err = w.family.Join(ctx, beto, dto.JoinFamilyRequest{InvitationCode: family.InvitationCode})
	require.NoError(t, err)
	return w.reload(t, ana), w.reload(t, beto), family
}

// ──────────────────────────────────────────────────────────────────────────────
// Familias
// ──────────────────────────────────────────────────────────────────────────────

func TestFamily_RemoveMember(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, beto, family := w.garcia(t)
	carla := w.user(t, "carla", entity.RoleCommentator)

	err := w.family.RemoveMember(ctx, ana, family.ID, carla.ID)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound, "quien no es miembro no se puede remover")

	err = w.family.RemoveMember(ctx, ana, family.ID, ana.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "para salir se usa Leave")

	err = w.family.RemoveMember(ctx, beto, family.ID, ana.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, w.family.RemoveMember(ctx, ana, family.ID, beto.ID))
	assert.Empty(t, w.reload(t, beto).FamilyID)

	members, err := w.family.Members(ctx, ana, family.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.True(t, members[0].IsOwner)
}

func TestFamily_RemoveMember_DuenoProtegido(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, _, family := w.garcia(t)

	// Un segundo adulto tampoco puede remover a la dueña.
	dani := w.user(t, "dani", entity.RoleCreator)
	_, err := w.family.Join(ctx, dani, dto.JoinFamilyRequest{InvitationCode: family.InvitationCode})
	require.NoError(t, err)
	dani = w.reload(t, dani)

	err = w.family.RemoveMember(ctx, dani, family.ID, ana.ID)
	assert.ErrorIs(t, err, domain.ErrFamilyOwner)
}

func TestFamily_RegenerateCode_InvalidaElAnterior(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, _, family := w.garcia(t)

	out, err := w.family.RegenerateCode(ctx, ana, family.ID)
	require.NoError(t, err)
	assert.NotEqual(t, family.InvitationCode, out.InvitationCode)

	carla := w.user(t, "carla", entity.RoleCommentator)
	_, err = w.family.Join(ctx, carla, dto.JoinFamilyRequest{InvitationCode: family.InvitationCode})
	assert.ErrorIs(t, err, domain.ErrInvalidInvitationCode)

	joined, err := w.family.Join(ctx, carla, dto.JoinFamilyRequest{InvitationCode: out.InvitationCode})
	require.NoError(t, err)
	assert.Equal(t, family.ID, joined.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Recetas y calificaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRecipe_NombreEnBlancoSeRechaza(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana := w.user(t, "ana", entity.RoleCreator)

	_, err := w.recipes.Create(ctx, ana, dto.CreateRecipeRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	recipe, err := w.recipes.Create(ctx, ana, dto.CreateRecipeRequest{Name: "  Pasta  "})
	require.NoError(t, err)
	assert.Equal(t, "Pasta", recipe.Name)

	blank := "\t"
	_, err = w.recipes.Update(ctx, ana, recipe.ID, dto.UpdateRecipeRequest{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := w.recipes.GetByID(ctx, ana, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pasta", got.Name)
}

func TestRating_ListIncluyeLaCalificacionPropia(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, beto, _ := w.garcia(t)

	recipe, err := w.recipes.Create(ctx, ana, dto.CreateRecipeRequest{Name: "Pasta", Category: "Plato Principal"})
	require.NoError(t, err)
	_, err = w.ratings.Rate(ctx, beto, recipe.ID, dto.RateRecipeRequest{Rating: 5, Comment: "¡Me encantó!"})
	require.NoError(t, err)
	_, err = w.ratings.Rate(ctx, ana, recipe.ID, dto.RateRecipeRequest{Rating: 4})
	require.NoError(t, err)

	out, err := w.ratings.List(ctx, beto, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, out.Ratings, 2)
	assert.Equal(t, "4.5", out.Summary.AverageRating)
	require.NotNil(t, out.UserRating)
	assert.Equal(t, beto.ID, out.UserRating.UserID)
	assert.Equal(t, 5, out.UserRating.Rating)

	dani := w.user(t, "dani", entity.RoleCreator)
	personal, err := w.recipes.Create(ctx, dani, dto.CreateRecipeRequest{Name: "Sopa"})
	require.NoError(t, err)
	out, err = w.ratings.List(ctx, dani, personal.ID)
	require.NoError(t, err)
	assert.Nil(t, out.UserRating, "sin calificación propia no hay userRating")
}

// ──────────────────────────────────────────────────────────────────────────────
// Comentarios y notificaciones
// ──────────────────────────────────────────────────────────────────────────────

type recordingNotifier struct {
	mu      sync.Mutex
	release chan struct{}
	sent    []ports.MealCommentNotification
}

func (n *recordingNotifier) NotifyMealComment(ctx context.Context, msg ports.MealCommentNotification) error {
	select {
	case <-n.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func TestComment_WaitEsperaLasNotificaciones(t *testing.T) {
	w := newWorld(t)
	ctx := context.Background()
	ana, beto, _ := w.garcia(t)

	notifier := &recordingNotifier{release: make(chan struct{})}
	comments := usecase.NewCommentUseCase(
		memory.NewCommentRepository(w.db), memory.NewMealPlanRepository(w.db), w.families, notifier, nil)

	recipe, err := w.recipes.Create(ctx, ana, dto.CreateRecipeRequest{Name: "Pasta"})
	require.NoError(t, err)
	plan, err := w.plans.Create(ctx, ana, dto.CreateMealPlanRequest{RecipeID: recipe.ID, Fecha: "2025-06-02", TipoComida: "almuerzo"})
	require.NoError(t, err)

	_, err = comments.Create(ctx, beto, plan.ID, dto.CreateCommentRequest{Comment: "¡Rica!", Emoji: "😋"})
	require.NoError(t, err)

	// El envío sigue bloqueado: Wait respeta el plazo del contexto.
	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, comments.Wait(short), context.DeadlineExceeded)

	close(notifier.release)
	require.NoError(t, comments.Wait(ctx))

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Equal(t, "beto", msg.AuthorName)
	assert.Equal(t, "Pasta", msg.RecipeName)
	require.Len(t, msg.Recipients, 1, "solo los adultos reciben el aviso")
	assert.Equal(t, "ana@example.com", msg.Recipients[0].Email)
}
