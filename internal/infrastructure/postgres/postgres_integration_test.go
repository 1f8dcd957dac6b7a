package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luchotourn/menusemanal-sub000/internal/domain"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/repository"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/postgres"
	"github.com/luchotourn/menusemanal-sub000/pkg/config"
)

// Requiere una base descartable: MENU_TEST_DATABASE_URL=postgres://... go test ./...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("MENU_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("MENU_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func createUser(t *testing.T, pool *pgxpool.Pool, role entity.Role) *entity.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	u := &entity.User{
		ID:            uuid.New().String(),
		Email:         uuid.New().String() + "@test.com",
		PasswordHash:  "x",
		Name:          "Test",
		Role:          role,
		Notifications: entity.DefaultNotificationPreferences(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, postgres.NewUserRepository(pool).Create(context.Background(), u))
	t.Cleanup(func() { _ = postgres.NewUserRepository(pool).Delete(context.Background(), u.ID) })
	return u
}

func TestMigrate_Idempotente(t *testing.T) {
	pool := testPool(t)
	applied, err := postgres.Migrate(context.Background(), pool)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestUserRepo_IncrementLoginAttempts(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	u := createUser(t, pool, entity.RoleCreator)
	repo := postgres.NewUserRepository(pool)

	n, err := repo.IncrementLoginAttempts(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = repo.IncrementLoginAttempts(ctx, u.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.UpdateLoginAttempts(ctx, u.ID, 0, nil))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.LoginAttempts)
	assert.Nil(t, got.LastLoginAttempt)
	assert.True(t, got.Notifications.MealComments)
}

func TestFamilyAndRecipes_ScopeYRatings(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	ana := createUser(t, pool, entity.RoleCreator)
	beto := createUser(t, pool, entity.RoleCommentator)
	extra := createUser(t, pool, entity.RoleCreator)

	families := postgres.NewFamilyRepository(pool)
	fam := &entity.Family{
		ID: uuid.New().String(), Name: "Garcia", InvitationCode: "T" + uuid.New().String()[:6],
		CreatedBy: ana.ID, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, families.CreateWithOwner(ctx, fam))
	require.NoError(t, families.AddMember(ctx, fam.ID, beto.ID))
	assert.ErrorIs(t, families.AddMember(ctx, fam.ID, beto.ID), domain.ErrAlreadyInFamily)
	ana.FamilyID, beto.FamilyID = fam.ID, fam.ID

	recipes := postgres.NewRecipeRepository(pool)
	rec := &entity.Recipe{
		ID: uuid.New().String(), Name: "Pasta", Category: "Plato Principal", Ingredients: []string{"fideos"},
		CreatedBy: ana.ID, FamilyID: fam.ID, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, recipes.Create(ctx, rec))

	got, err := recipes.GetByID(ctx, rec.ID, repository.ScopeFor(beto))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"fideos"}, got.Ingredients)

	outsider, err := recipes.GetByID(ctx, rec.ID, repository.ScopeFor(extra))
	require.NoError(t, err)
	assert.Nil(t, outsider)

	ratings := postgres.NewRatingRepository(pool)
	for _, v := range []int{3, 5} {
		require.NoError(t, ratings.Upsert(ctx, &entity.RecipeRating{
			RecipeID: rec.ID, UserID: beto.ID, FamilyID: fam.ID, Rating: v,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}))
	}
	summary, err := ratings.Summary(ctx, rec.ID, repository.ScopeFor(ana))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, "5.0", summary.Average.StringFixed(1))

	require.NoError(t, families.Delete(ctx, fam.ID))
	gone, err := recipes.GetByID(ctx, rec.ID, repository.Scope{})
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSessionStorage_VencidasInvisibles(t *testing.T) {
	pool := testPool(t)
	store := postgres.NewSessionStorage(pool)
	key := uuid.New().String()

	require.NoError(t, store.Set(key, []byte("data"), time.Hour))
	val, err := store.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), val)

	require.NoError(t, store.Set(key, []byte("data"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	val, err = store.Get(key)
	require.NoError(t, err)
	assert.Nil(t, val)

	n, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
