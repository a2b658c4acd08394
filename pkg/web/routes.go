package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

// BotStatus reports the chat platform connection
type BotStatus interface {
	Platform() string
	IsReady() bool
}

// DBStatus reports the database connection
type DBStatus interface {
	GetStatus() (string, bool)
}

// SettingsReader reads chat settings
type SettingsReader interface {
	GetSettings(ctx context.Context, chatID int64) (models.ChatSettings, error)
}

// WarningsReader lists the warning records of a chat
type WarningsReader interface {
	ChatWarnings(ctx context.Context, chatID int64) ([]*models.WarnsDocument, error)
}

// API holds what the routes report on. Chat routes are only mounted when
// APIKey is set.
type API struct {
	Bot      BotStatus
	DB       DBStatus
	Settings SettingsReader
	Warnings WarningsReader
	APIKey   string
	Version  string
}

// SetupAPIRoutes sets up the API routes
func SetupAPIRoutes(s *Server, a API) {
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.Group("/api")
	{
		api.GET("/status", a.statusHandler)
		api.GET("/health", healthHandler)
	}

	if a.APIKey == "" || a.Settings == nil || a.Warnings == nil {
		return
	}
	chats := api.Group("/chats/:id", requireAPIKey(a.APIKey))
	{
		chats.GET("/settings", a.settingsHandler)
		chats.GET("/warnings", a.warningsHandler)
	}
}

// statusHandler returns the bot and database status
func (a API) statusHandler(c *gin.Context) {
	dbStatus, dbOnline := "🔴 | Desconectado", false
	if a.DB != nil {
		dbStatus, dbOnline = a.DB.GetStatus()
	}

	platform, botOnline := "", false
	if a.Bot != nil {
		platform = a.Bot.Platform()
		botOnline = a.Bot.IsReady()
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": a.Version,
		"database": gin.H{
			"status":   dbStatus,
			"isOnline": dbOnline,
		},
		"bot": gin.H{
			"platform": platform,
			"isOnline": botOnline,
		},
	})
}

// healthHandler returns a simple health check response
func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "PancyGuard is running",
	})
}

func requireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "API key inválida.",
			})
			return
		}
		c.Next()
	}
}

func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Bad Request",
			"message": "ID de chat inválido.",
		})
		return 0, false
	}
	return id, true
}

func (a API) settingsHandler(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	settings, err := a.Settings.GetSettings(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Unavailable",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (a API) warningsHandler(c *gin.Context) {
	chatID, ok := chatIDParam(c)
	if !ok {
		return
	}
	docs, err := a.Warnings.ChatWarnings(c.Request.Context(), chatID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Unavailable",
			"message": err.Error(),
		})
		return
	}
	if docs == nil {
		docs = []*models.WarnsDocument{}
	}
	c.JSON(http.StatusOK, gin.H{"chatId": chatID, "warnings": docs})
}
