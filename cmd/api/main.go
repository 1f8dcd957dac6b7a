package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	_ "github.com/luchotourn/menusemanal-sub000/docs"
	"github.com/luchotourn/menusemanal-sub000/internal/application/auth"
	"github.com/luchotourn/menusemanal-sub000/internal/application/ports"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/mail"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/objectstore"
	infrapdf "github.com/luchotourn/menusemanal-sub000/internal/infrastructure/pdf"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/postgres"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/redisstore"
	"github.com/luchotourn/menusemanal-sub000/internal/infrastructure/scheduler"
	httpRouter "github.com/luchotourn/menusemanal-sub000/internal/interfaces/http"
	"github.com/luchotourn/menusemanal-sub000/pkg/config"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// membershipTTL vida de la caché de membresías del middleware de familia.
const membershipTTL = 30 * time.Second

// @title                       Menú Semanal API
// @version                     1.0
// @description                 Planificación semanal de comidas para familias.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET no configurado: se usa un secreto efímero, los tokens no sobreviven reinicios")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("versions", applied).Msg("migraciones aplicadas")
	}

	userRepo := postgres.NewUserRepository(pool)
	familyRepo := postgres.NewFamilyRepository(pool)
	recipeRepo := postgres.NewRecipeRepository(pool)
	mealPlanRepo := postgres.NewMealPlanRepository(pool)
	ratingRepo := postgres.NewRatingRepository(pool)
	commentRepo := postgres.NewCommentRepository(pool)
	sessionStorage := postgres.NewSessionStorage(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Contadores de rate limit compartidos entre instancias si hay Redis.
	var rateLimitStorage fiber.Storage
	if cfg.RateLimit.RedisURL != "" {
		rs, err := redisstore.New(ctx, cfg.RateLimit.RedisURL, cfg.RateLimit.Prefix)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rs.Close()
		rateLimitStorage = rs
		log.Info().Msg("rate limit con contadores en Redis")
	}

	var avatars ports.AvatarStorage
	if cfg.Storage.Bucket != "" {
		s3Store, err := objectstore.NewS3(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de avatares")
		}
		avatars = s3Store
	} else {
		log.Info().Msg("subida de avatares deshabilitada: S3_BUCKET no configurado")
	}

	notifier, err := mail.NewSESNotifier(ctx, cfg.Mail, log)
	if err != nil {
		log.Fatal().Err(err).Msg("notificaciones por e-mail")
	}

	memberships := usecase.NewMembershipService(familyRepo, membershipTTL)
	defer memberships.Close()

	authUC := auth.NewAuthUseCase(userRepo, familyRepo, avatars, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	familyUC := usecase.NewFamilyUseCase(familyRepo, memberships)
	recipeUC := usecase.NewRecipeUseCase(recipeRepo, txRunner)
	mealPlanUC := usecase.NewMealPlanUseCase(mealPlanRepo, txRunner, infrapdf.NewMarotoPDFGenerator(cfg.Mail.AppBaseURL))
	ratingUC := usecase.NewRatingUseCase(ratingRepo, recipeRepo)
	commentUC := usecase.NewCommentUseCase(commentRepo, mealPlanRepo, familyRepo, notifier, log.Component("comments"))
	healthUC := usecase.NewHealthUseCase(pool, cfg.App.Name)

	jobs := scheduler.New(log)
	if err := jobs.AddSessionPurge(cfg.Jobs.SessionPurgeSchedule, sessionStorage); err != nil {
		log.Fatal().Err(err).Msg("programar purga de sesiones")
	}
	jobs.Start()

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:           cfg.App.Name,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Log:            log,
	})

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Menú Semanal API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		FamilyUC:    familyUC,
		RecipeUC:    recipeUC,
		MealPlanUC:  mealPlanUC,
		RatingUC:    ratingUC,
		CommentUC:   commentUC,
		HealthUC:    healthUC,
		Memberships: memberships,
		Sessions: httpRouter.NewSessionStore(httpRouter.SessionConfig{
			CookieName: cfg.Session.CookieName,
			TTL:        cfg.Session.TTL,
			Secure:     cfg.Session.Secure,
			Storage:    sessionStorage,
		}),
		RateLimitStorage: rateLimitStorage,
		StaticDir:        cfg.App.StaticDir,
		Log:              log,
	})

	// Assets del cliente; "/" ya lo resuelve el health handler.
	if cfg.App.StaticDir != "" {
		app.Static("/", cfg.App.StaticDir)
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := commentUC.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("notificaciones pendientes sin enviar")
	}
	jobs.Stop(shutdownCtx)

	log.Info().Msg("aplicación detenida")
}
