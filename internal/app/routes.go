package app

import (
	"net/http"

	"github.com/birlikkoshan/todo-tracker/docs"
	"github.com/birlikkoshan/todo-tracker/internal/auth"
	"github.com/birlikkoshan/todo-tracker/internal/cache"
	"github.com/birlikkoshan/todo-tracker/internal/config"
	"github.com/birlikkoshan/todo-tracker/internal/handlers"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/ratelimit"
	"github.com/birlikkoshan/todo-tracker/internal/repo"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Deps is everything the routes need. Redis may be nil.
type Deps struct {
	Config config.Config
	Log    logging.Logger
	Users  repo.UserRepo
	Todos  repo.TodoRepo
	Redis  *redis.Client
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, d Deps) {
	docs.SwaggerInfo.Version = d.Config.App.Version

	r.GET("/", rootHandler(d.Config))
	r.GET("/health", healthHandler(d.Config))
	r.GET("/version", versionHandler(d.Config))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	var (
		todoCache *cache.TodoCache
		revoked   *auth.Revocations
	)
	if d.Redis != nil {
		limiter := ratelimit.New(d.Redis, d.Config.RateLimit.Max, d.Config.RateLimit.Window.Duration(), d.Log)
		api.Use(limiter.Middleware())
		todoCache = cache.NewTodoCache(d.Redis, d.Config.Redis.DefaultTTL.Duration())
		revoked = auth.NewRevocations(d.Redis)
	}

	tokens := auth.NewTokenIssuer(d.Config.Auth.JWTSecret, d.Config.Auth.TokenTTL.Duration())
	userSvc := service.NewUserService(d.Users)
	authHandler := handlers.NewAuthHandler(userSvc, tokens, revoked, d.Log)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireAuth(tokens, revoked, d.Log))
	registerProtectedAuthRoutes(protected, authHandler)
	registerUserRoutes(protected, handlers.NewUserHandler(userSvc, d.Log))

	todoSvc := service.NewTodoService(d.Todos, todoCache)
	todoHandler := handlers.NewTodoHandler(todoSvc, d.Log)
	registerTodoRoutes(protected, todoHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env, "store": cfg.Store.Driver})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	api.POST("/todos", h.Create)
	api.GET("/todos", h.List)
	api.GET("/todos/stats", h.Stats)
	api.GET("/todos/:id", h.GetByID)
	api.PATCH("/todos/:id", h.Update)
	api.DELETE("/todos/:id", h.Delete)
	api.PATCH("/todos/:id/toggle-complete", h.ToggleComplete)
	api.PATCH("/todos/:id/toggle-pin", h.TogglePin)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
}

func registerProtectedAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.GET("/auth/profile", h.Profile)
	api.POST("/auth/refresh", h.Refresh)
	api.POST("/auth/logout", h.Logout)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users/me", h.Me)
	api.PATCH("/users/me", h.UpdateMe)
}
