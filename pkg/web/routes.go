package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/config"
	"github.com/PancyStudios/VillagerBot/pkg/metrics"
	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/gin-gonic/gin"
)

// BotStatus reports the Discord session state
type BotStatus interface {
	IsReady() bool
	GuildCount() int
	Latency() time.Duration
}

// StorageStatus reports the warn backend state
type StorageStatus func() (status string, online bool)

// WarnLookup counts live warns
type WarnLookup interface {
	LiveCount(ctx context.Context, key models.WarnKey) (int, error)
}

// Preview describes the action a live count would trigger
type Preview func(liveCount int) (action string, duration time.Duration)

// Dependencies are the components the API reports on. Nil fields make the
// matching route answer 503.
type Dependencies struct {
	Bot     BotStatus
	Storage StorageStatus
	Warns   WarnLookup
	Preview Preview
}

// SetupRoutes registers the keep-alive banner, the API and /metrics
func SetupRoutes(s *Server, deps Dependencies) {
	s.GET("/", keepAliveHandler)
	s.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.Group("/api")
	{
		api.GET("/health", healthHandler)
		api.GET("/status", statusHandler(deps))
		api.GET("/warns/:guildId/:userId", requireAPIKey(s.apiKey), warnsHandler(deps))
	}
}

func keepAliveHandler(c *gin.Context) {
	c.String(http.StatusOK, "VillagerBot desplegado. Versión %s", config.Version)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "VillagerBot is running",
	})
}

func statusHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		storage := gin.H{"status": "unknown", "isOnline": false}
		if deps.Storage != nil {
			status, online := deps.Storage()
			storage = gin.H{"status": status, "isOnline": online}
		}

		bot := gin.H{"isOnline": false}
		if deps.Bot != nil {
			bot = gin.H{
				"isOnline":  deps.Bot.IsReady(),
				"guilds":    deps.Bot.GuildCount(),
				"latencyMs": deps.Bot.Latency().Milliseconds(),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"version":  config.Version,
			"database": storage,
			"bot":      bot,
		})
	}
}

// requireAPIKey rejects requests without "Authorization: Bearer <key>". With
// no key configured every request is rejected.
func requireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if key == "" || !ok || subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Unauthorized",
				"message": "Se requiere una clave de API válida.",
			})
			return
		}
		c.Next()
	}
}

// warnsHandler reports counts only, warn reasons and moderators stay private
func warnsHandler(deps Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.Warns == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Warn storage unavailable"})
			return
		}

		key := models.WarnKey{GuildID: c.Param("guildId"), UserID: c.Param("userId")}
		count, err := deps.Warns.LiveCount(c.Request.Context(), key)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Storage Error",
				"message": "No se pudieron leer las advertencias.",
			})
			return
		}

		resp := gin.H{
			"guildId":   key.GuildID,
			"userId":    key.UserID,
			"liveCount": count,
		}
		if deps.Preview != nil {
			action, duration := deps.Preview(count + 1)
			resp["nextAction"] = gin.H{
				"action":     action,
				"durationMs": duration.Milliseconds(),
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}
