package app

import (
	"net/http"
	"time"

	"github.com/hariharan-1607/budget-sample/internal/auth"
	"github.com/hariharan-1607/budget-sample/internal/cache"
	"github.com/hariharan-1607/budget-sample/internal/config"
	"github.com/hariharan-1607/budget-sample/internal/handlers"
	"github.com/hariharan-1607/budget-sample/internal/repo"
	"github.com/hariharan-1607/budget-sample/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api")

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(tokens, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("/budgets", auth.RequireToken(tokens))
	budgetRepo := repo.NewPGBudgetRepo(db)
	expenseRepo := repo.NewPGExpenseRepo(db)
	budgetCache := cache.NewBudgetCache(rdb, cfg.Redis.DefaultTTL.Duration())
	budgetSvc := service.NewBudgetService(budgetRepo, expenseRepo, budgetCache)
	registerBudgetRoutes(protected, handlers.NewBudgetHandler(budgetSvc), handlers.NewExpenseHandler(budgetSvc))

	// Every unmatched route answers JSON, never a plain-text 404.
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"msg":    "Route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})
}

// recoveryJSON turns panics into a JSON 500 so clients never see an empty body.
func recoveryJSON() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"msg":       "Server Error",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Budget API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)
}

func registerBudgetRoutes(api *gin.RouterGroup, b *handlers.BudgetHandler, e *handlers.ExpenseHandler) {
	api.GET("", b.List)
	api.POST("", b.Create)
	api.PUT("/:id", b.Update)
	api.DELETE("/:id", b.Delete)
	api.POST("/:id/expenses", e.Create)
	api.PUT("/:id/expenses/:expenseId", e.Update)
	api.DELETE("/:id/expenses/:expenseId", e.Delete)
}
