package api

import (
	"github.com/gin-gonic/gin"
	"github.com/timmy/artvault/internal/api/handler"
	"github.com/timmy/artvault/internal/api/middleware"
	"github.com/timmy/artvault/internal/logger"
	"github.com/timmy/artvault/internal/repository"
	"github.com/timmy/artvault/internal/service"
	"github.com/timmy/artvault/internal/storage"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Ingest   *service.IngestService
	Chat     *service.ChatService
	Artists  *repository.ArtistRepository
	Artworks *repository.ArtworkRepository
	Store    storage.ObjectStorage
	Log      *logger.Logger
	Mode     string
	CORS     middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps RouterDeps) *gin.Engine {
	// Set Gin mode
	switch deps.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(deps.Log))
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	ingestionHandler := handler.NewIngestionHandler(deps.Ingest, deps.Store)
	mediaHandler := handler.NewMediaHandler(deps.Artworks, deps.Store)
	artistHandler := handler.NewArtistHandler(deps.Artists, deps.Artworks, deps.Store)
	chatHandler := handler.NewChatHandler(deps.Chat)

	// Health check
	r.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Ingestion
		v1.POST("/artworks", ingestionHandler.IngestArtwork)
		v1.POST("/artworks/describe", ingestionHandler.Describe)

		// Artworks
		v1.GET("/artworks/:id", mediaHandler.GetArtwork)
		v1.GET("/artworks/:id/image", mediaHandler.GetArtworkImage)
		v1.DELETE("/artworks/:id", mediaHandler.DeleteArtwork)

		// Artists
		v1.GET("/artists", artistHandler.ListArtists)
		v1.GET("/artists/:id", artistHandler.GetArtist)
		v1.GET("/artists/:id/artworks", artistHandler.ListArtistArtworks)

		// Art-master chat
		v1.POST("/chat", chatHandler.Chat)
		v1.DELETE("/chat/:session_id", chatHandler.EndSession)
	}

	return r
}
