package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/config"
	"github.com/kodzovi/eventbook/internal/handlers"
	"github.com/kodzovi/eventbook/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := NewRouter(db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

// NewRouter builds the engine with every route registered.
func NewRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()
	setupRoutes(r, db)
	return r
}

// setupRoutes keeps static and parameter segments from sharing a position
// within one method tree, which gin's router rejects.
func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	public := r.Group("/v1")
	{
		public.POST("/user/register", handlers.RegisterUser)
		public.POST("/organizer/register", handlers.RegisterOrganizer)
		public.POST("/login", handlers.Login)
		public.GET("/token/refresh", handlers.RefreshToken)

		public.GET("/events", handlers.ListPublishedEvents)
		public.GET("/event/:id", handlers.GetEvent)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.DELETE("/logout", handlers.Logout)
		protected.GET("/user/:id", handlers.GetUser)
		protected.GET("/organizer/:id", handlers.GetOrganizer)

		client := protected.Group("")
		client.Use(middleware.RequireClient())
		{
			client.PUT("/user/:id", handlers.UpdateUser)
			client.DELETE("/user/:id", handlers.DeleteUser)
			client.PUT("/user/:id/password-reset", handlers.ResetUserPassword)
			client.POST("/favourite-event/:user_id/:event_id", handlers.AddFavouriteEvent)
			client.DELETE("/favourite-event/:user_id/:event_id", handlers.RemoveFavouriteEvent)
			client.POST("/participant/:event_id/:user_id", handlers.AddParticipant)
			client.DELETE("/participant/:event_id/:user_id", handlers.RemoveParticipant)
		}

		organizer := protected.Group("")
		organizer.Use(middleware.RequireOrganizer())
		{
			organizer.POST("/event/store", handlers.StoreEvent)
			organizer.PUT("/event/:id", handlers.UpdateEvent)
			organizer.DELETE("/event/:id", handlers.DeleteEvent)
			organizer.PUT("/event/:id/publication", handlers.SetEventPublication)
			organizer.GET("/events/unpublished", handlers.ListUnpublishedEvents)
			organizer.PUT("/organizer/:id", handlers.UpdateOrganizer)
			organizer.DELETE("/organizer/:id", handlers.DeleteOrganizer)
			organizer.PUT("/organizer/:id/password-reset", handlers.ResetOrganizerPassword)
		}

		admin := protected.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.GET("/users", handlers.ListUsers)
			admin.GET("/organizers", handlers.ListOrganizers)
			admin.PUT("/user/:id/activation", handlers.SetUserActivation)
			admin.PUT("/organizer/:id/activation", handlers.SetOrganizerActivation)
			admin.PUT("/event/:id/authorization", handlers.SetEventAuthorization)
			admin.GET("/events/unauthorized", handlers.ListUnauthorizedEvents)
			admin.GET("/admin/:id", handlers.GetAdmin)
			admin.PUT("/admin/:id/password-reset", handlers.ResetAdminPassword)
		}

		superuser := protected.Group("")
		superuser.Use(middleware.RequireSuperuser())
		{
			superuser.POST("/admin/register", handlers.RegisterAdmin)
			superuser.GET("/admins", handlers.ListAdmins)
			superuser.PUT("/admin/:id/role", handlers.ChangeAdminRole)
			superuser.PUT("/admin/:id", handlers.UpdateAdmin)
			superuser.DELETE("/admin/:id", handlers.DeleteAdmin)
		}
	}
}
