package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/luchotourn/menusemanal-sub000/internal/application/auth"
	"github.com/luchotourn/menusemanal-sub000/internal/application/usecase"
	"github.com/luchotourn/menusemanal-sub000/internal/domain/entity"
	"github.com/luchotourn/menusemanal-sub000/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	FamilyUC         *usecase.FamilyUseCase
	RecipeUC         *usecase.RecipeUseCase
	MealPlanUC       *usecase.MealPlanUseCase
	RatingUC         *usecase.RatingUseCase
	CommentUC        *usecase.CommentUseCase
	HealthUC         *usecase.HealthUseCase
	Memberships      *usecase.MembershipService
	Sessions         *session.Store
	RateLimitStorage fiber.Storage // nil = contadores en memoria
	DisableRateLimit bool
	StaticDir        string
	Log              *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	limits := rateLimits{storage: deps.RateLimitStorage, disabled: deps.DisableRateLimit}
	creator := RequireRole(entity.RoleCreator)

	healthHandler := NewHealthHandler(deps.HealthUC, deps.StaticDir)
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)
	app.Get("/api/health-check", healthHandler.Check)

	api := app.Group("/api", limits.handler(APIRateRule), AuthMiddleware(deps.Sessions, deps.AuthUC, log))

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions)
	authLimiter := limits.handler(AuthRateRule)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authLimiter, authHandler.Register)
	authGroup.Post("/login", authLimiter, authHandler.Login)
	authGroup.Post("/token", authLimiter, authHandler.Token)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/status", authHandler.Status)
	authGroup.Get("/profile", RequireAuth(), authHandler.Profile)
	authGroup.Put("/profile", RequireAuth(), authHandler.UpdateProfile)
	authGroup.Post("/change-password", RequireAuth(), authHandler.ChangePassword)
	authGroup.Post("/avatar", RequireAuth(), authHandler.Avatar)
	authGroup.Delete("/account", RequireAuth(), authHandler.DeleteAccount)

	commentatorLimiter := limits.handler(CommentatorRateRule)

	// Recipes
	recipeHandler := NewRecipeHandler(deps.RecipeUC, deps.RatingUC)
	recipes := api.Group("/recipes", RequireAuth())
	recipes.Get("/", recipeHandler.List)
	recipes.Post("/", creator, recipeHandler.Create)
	recipes.Get("/:id", recipeHandler.GetByID)
	recipes.Put("/:id", creator, recipeHandler.Update)
	recipes.Delete("/:id", creator, recipeHandler.Delete)
	recipes.Post("/:id/favorite", creator, recipeHandler.ToggleFavorite)
	recipes.Get("/:id/ratings", recipeHandler.Ratings)
	recipes.Post("/:id/ratings", commentatorLimiter, recipeHandler.Rate)

	// Meal plans
	mealPlanHandler := NewMealPlanHandler(deps.MealPlanUC, deps.CommentUC)
	mealPlans := api.Group("/meal-plans", RequireAuth())
	mealPlans.Get("/", mealPlanHandler.List)
	mealPlans.Get("/export.pdf", mealPlanHandler.ExportPDF)
	mealPlans.Post("/", creator, mealPlanHandler.Create)
	mealPlans.Get("/:id", mealPlanHandler.GetByID)
	mealPlans.Put("/:id", creator, mealPlanHandler.Update)
	mealPlans.Delete("/:id", creator, mealPlanHandler.Delete)
	mealPlans.Get("/:id/comments", mealPlanHandler.Comments)
	mealPlans.Post("/:id/comments", commentatorLimiter, mealPlanHandler.AddComment)
	mealPlans.Delete("/:id/comments/:commentId", mealPlanHandler.DeleteComment)

	// Families
	familyHandler := NewFamilyHandler(deps.FamilyUC)
	codeLimiter := limits.handler(FamilyCodeRateRule)
	access := RequireFamilyAccess(deps.Memberships, log)
	editAccess := RequireFamilyEditAccess(deps.Memberships, log)
	families := api.Group("/families", RequireAuth())
	families.Get("/", familyHandler.List)
	families.Post("/", creator, codeLimiter, familyHandler.Create)
	families.Post("/join", familyHandler.Join)
	families.Get("/:id", access, familyHandler.GetByID)
	families.Get("/:id/members", access, familyHandler.Members)
	families.Delete("/:id/members/:userId", editAccess, familyHandler.RemoveMember)
	families.Post("/:id/leave", access, familyHandler.Leave)
	families.Post("/:id/regenerate-code", editAccess, codeLimiter, familyHandler.RegenerateCode)
}
