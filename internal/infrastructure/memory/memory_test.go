package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/memory"
)

func newUser(t *testing.T, db *memory.DB, email string) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      email,
		Role:      entity.RoleCreator,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, memory.NewUserRepository(db).Create(context.Background(), u))
	return u
}

func newRecipe(t *testing.T, db *memory.DB, owner *entity.User, name string) *entity.Recipe {
	t.Helper()
	now := time.Now()
	r := &entity.Recipe{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedBy: owner.ID,
		FamilyID:  owner.FamilyID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, memory.NewRecipeRepository(db).Create(context.Background(), r))
	return r
}

// ── Recetas ─────────────────────────────────────────────────────────────────

func TestRecipeRepo_ScopeAislaUsuarios(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	beto := newUser(t, db, "beto@test.com")
	rec := newRecipe(t, db, ana, "Tarta")

	repo := memory.NewRecipeRepository(db)
	got, err := repo.GetByID(ctx, rec.ID, repository.ScopeFor(beto))
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := repo.List(ctx, repository.ScopeFor(ana), repository.RecipeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	deleted, err := repo.Delete(ctx, rec.ID, repository.ScopeFor(beto))
	require.NoError(t, err)
	assert.False(t, deleted)

	err = repo.Update(ctx, rec, repository.ScopeFor(beto))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeRepo_BusquedaIgnoraAcentos(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	newRecipe(t, db, ana, "Milanesa con puré")
	newRecipe(t, db, ana, "Ensalada")

	list, err := memory.NewRecipeRepository(db).List(ctx, repository.ScopeFor(ana), repository.RecipeFilter{Search: "PURE"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Milanesa con puré", list[0].Name)
}

func TestRecipeRepo_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	rec := newRecipe(t, db, ana, "Guiso")
	scope := repository.ScopeFor(ana)

	plan := &entity.MealPlan{
		ID:         uuid.New().String(),
		RecipeID:   rec.ID,
		Fecha:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TipoComida: entity.MealTypeCena,
		CreatedBy:  ana.ID,
	}
	plans := memory.NewMealPlanRepository(db)
	require.NoError(t, plans.Create(ctx, plan))

	used, err := memory.NewRecipeRepository(db).IsUsedInMealPlans(ctx, rec.ID, scope)
	require.NoError(t, err)
	assert.True(t, used)

	deleted, err := memory.NewRecipeRepository(db).Delete(ctx, rec.ID, scope)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := plans.GetByID(ctx, plan.ID, scope)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// ── Planes ──────────────────────────────────────────────────────────────────

func TestMealPlanRepo_ListFiltraRangoYOrdena(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	rec := newRecipe(t, db, ana, "Pizza")
	repo := memory.NewMealPlanRepository(db)

	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	for _, p := range []struct {
		d    int
		tipo entity.MealType
	}{{12, entity.MealTypeCena}, {10, entity.MealTypeCena}, {10, entity.MealTypeAlmuerzo}, {20, entity.MealTypeAlmuerzo}} {
		require.NoError(t, repo.Create(ctx, &entity.MealPlan{
			ID: uuid.New().String(), RecipeID: rec.ID, Fecha: day(p.d), TipoComida: p.tipo, CreatedBy: ana.ID,
		}))
	}

	list, err := repo.List(ctx, repository.ScopeFor(ana), repository.MealPlanFilter{From: day(10), To: day(16)})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entity.MealTypeAlmuerzo, list[0].TipoComida)
	assert.Equal(t, entity.MealTypeCena, list[1].TipoComida)
	assert.True(t, list[2].Fecha.Equal(day(12)))
	require.NotNil(t, list[0].Recipe)
	assert.Equal(t, "Pizza", list[0].Recipe.Name)
}

// ── Calificaciones ──────────────────────────────────────────────────────────

func TestRatingRepo_UpsertReemplaza(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	rec := newRecipe(t, db, ana, "Sopa")
	repo := memory.NewRatingRepository(db)

	first := &entity.RecipeRating{RecipeID: rec.ID, UserID: ana.ID, Rating: 3, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &entity.RecipeRating{RecipeID: rec.ID, UserID: ana.ID, Rating: 5, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	summary, err := repo.Summary(ctx, rec.ID, repository.ScopeFor(ana))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, "5.0", summary.Average.StringFixed(1))
}

// ── Familias ────────────────────────────────────────────────────────────────

func TestFamilyRepo_UnaFamiliaPorUsuario(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()
	ana := newUser(t, db, "ana@test.com")
	beto := newUser(t, db, "beto@test.com")
	repo := memory.NewFamilyRepository(db)

	fam := &entity.Family{ID: uuid.New().String(), Name: "Casa", InvitationCode: "ABC-DEF", CreatedBy: ana.ID}
	require.NoError(t, repo.CreateWithOwner(ctx, fam))

	other := &entity.Family{ID: uuid.New().String(), Name: "Otra", InvitationCode: "GHJ-KMN", CreatedBy: ana.ID}
	assert.ErrorIs(t, repo.CreateWithOwner(ctx, other), domain.ErrAlreadyInFamily)

	require.NoError(t, repo.AddMember(ctx, fam.ID, beto.ID))
	assert.ErrorIs(t, repo.AddMember(ctx, fam.ID, beto.ID), domain.ErrAlreadyInFamily)

	u, err := memory.NewUserRepository(db).GetByID(ctx, beto.ID)
	require.NoError(t, err)
	assert.Equal(t, fam.ID, u.FamilyID)

	require.NoError(t, repo.Delete(ctx, fam.ID))
	u, err = memory.NewUserRepository(db).GetByID(ctx, beto.ID)
	require.NoError(t, err)
	assert.Empty(t, u.FamilyID)
}
