package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"labsched/handlers"
	"labsched/middleware"
	"labsched/utils"
)

// RegisterScheduleRoutes registers the extraction/review/commit endpoints.
// The whole group is authenticated: the caller's role decides the status of
// committed bookings.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedule")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/extract", hb.ExtractHandler)
		api.GET("/session/:sessionID", hb.GetSessionHandler)
		api.DELETE("/session/:sessionID", hb.DiscardSessionHandler)
		api.POST("/session/:sessionID/candidates", hb.AddCandidateHandler)
		api.PUT("/session/:sessionID/candidates/:candidateID", hb.UpdateCandidateHandler)
		api.DELETE("/session/:sessionID/candidates/:candidateID", hb.DeleteCandidateHandler)
		api.POST("/session/:sessionID/recheck", hb.RecheckHandler)
		api.POST("/session/:sessionID/commit", hb.CommitHandler)
	}
}

// RegisterCatalogRoutes registers the static reference data endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/catalogs")
	{
		api.GET("", hb.GetCatalogsHandler)
		api.GET("/labs/:labType", hb.GetLabsByTypeHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterScheduleRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
	RegisterHealthRoute(r)
}
