package routes

import (
	"time"

	"github.com/RushabhMehta2005/recipe-api/controllers"
	"github.com/RushabhMehta2005/recipe-api/middleware"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Setup builds the router. An empty allowedOrigins list allows any origin.
func Setup(h *controllers.Handler, logger *zap.Logger, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", h.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Public routes
	api.POST("/user/create", h.Register)
	api.POST("/user/token", h.CreateToken)

	// Protected routes - Users
	user := api.Group("/user", h.Auth.RequireAuth)
	{
		user.GET("/me", h.GetProfile)
		user.PATCH("/me", h.UpdateProfile)
		user.PATCH("/password", h.ChangePassword)
		user.POST("/logout", h.Logout)
	}

	admin := api.Group("/admin", h.Auth.RequireAuth, h.Auth.RequireStaff)
	{
		admin.GET("/users", h.ListUsers)
	}

	// Protected routes - Recipes
	recipe := api.Group("/recipe", h.Auth.RequireAuth)
	{
		tags := h.Tags()
		recipe.GET("/tags", tags.List)
		recipe.POST("/tags", tags.Create)
		recipe.PATCH("/tags/:id", tags.Update)
		recipe.DELETE("/tags/:id", tags.Delete)

		ingredients := h.Ingredients()
		recipe.GET("/ingredients", ingredients.List)
		recipe.POST("/ingredients", ingredients.Create)
		recipe.PATCH("/ingredients/:id", ingredients.Update)
		recipe.DELETE("/ingredients/:id", ingredients.Delete)

		recipe.GET("/recipes", h.ListRecipes)
		recipe.POST("/recipes", h.CreateRecipe)
		recipe.GET("/recipes/:id", h.GetRecipe)
		recipe.PUT("/recipes/:id", h.ReplaceRecipe)
		recipe.PATCH("/recipes/:id", h.UpdateRecipe)
		recipe.DELETE("/recipes/:id", h.DeleteRecipe)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
