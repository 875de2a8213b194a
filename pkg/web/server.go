// Package web is the bot's keep-alive HTTP server. Hosting platforms ping
// the root route to keep the process awake; the API exposes health, status,
// warn lookups and Prometheus metrics.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// Options configures the server
type Options struct {
	// WebhookURL receives a Discord embed per request when set
	WebhookURL string
	// RequestsPerMinute and Burst bound each client IP
	RequestsPerMinute int
	Burst             int
	// APIKey guards the warn lookup. Empty disables the route.
	APIKey string
}

// DefaultOptions returns 100 requests per minute per IP
func DefaultOptions() Options {
	return Options{RequestsPerMinute: 100, Burst: 20}
}

// Server represents the web server
type Server struct {
	engine     *gin.Engine
	webhookURL string
	apiKey     string
	limiter    *ipLimiter
	client     *http.Client
	httpServer *http.Server
}

var server *Server

// Init initializes the global web server
func Init(opts Options) *Server {
	server = NewServer(opts)
	return server
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = DefaultOptions().RequestsPerMinute
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultOptions().Burst
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:     engine,
		webhookURL: opts.WebhookURL,
		apiKey:     opts.APIKey,
		limiter:    newIPLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), opts.Burst),
		client:     &http.Client{Timeout: 5 * time.Second},
	}

	s.engine.Use(s.logsMiddleware())
	s.engine.Use(s.rateLimitMiddleware())

	s.setupErrorHandlers()

	return s
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs every request and mirrors it to the webhook
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug(fmt.Sprintf("%s %s %d (%v) %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start), c.ClientIP()), "WebServer")

		if s.webhookURL != "" {
			payload := s.requestEmbed(c)
			go s.sendWebhook(payload)
		}
	}
}

// requestEmbed builds the webhook payload while the request is still valid
func (s *Server) requestEmbed(c *gin.Context) []byte {
	query := c.Request.URL.RawQuery
	if query == "" {
		query = "{}"
	}

	payload, err := json.Marshal(map[string]any{
		"embeds": []any{map[string]any{
			"title": fmt.Sprintf("💫 | Nueva solicitud al servidor web de tipo %s", c.Request.Method),
			"description": fmt.Sprintf(
				"> **Ruta:** `%s`\n> **IP:** `%s`\n> **Estado:** `%d`\n> **Query:** ```%s```",
				c.Request.URL.Path,
				c.ClientIP(),
				c.Writer.Status(),
				query,
			),
			"color":     0x00AE86,
			"timestamp": time.Now().Format(time.RFC3339),
		}},
	})
	if err != nil {
		return nil
	}
	return payload
}

func (s *Server) sendWebhook(payload []byte) {
	if payload == nil {
		return
	}
	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return
	}
	_ = resp.Body.Close()
}

// rateLimitMiddleware rejects clients that exceed their token bucket
func (s *Server) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			return
		}
		c.Next()
	}
}

func (s *Server) setupErrorHandlers() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// StartAsync starts listening on port in a goroutine
func (s *Server) StartAsync(port string) {
	s.httpServer = &http.Server{
		Addr:              ":" + port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// GET registers a GET route
func (s *Server) GET(path string, handlers ...gin.HandlerFunc) {
	s.engine.GET(path, handlers...)
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
