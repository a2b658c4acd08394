// Package web provides the guard's HTTP server: status and health probes,
// a read-only moderation API and the Prometheus metrics endpoint.
package web

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// Options configures a Server
type Options struct {
	// AllowedHosts is a host regex; requests for other hosts are rejected.
	// Empty allows every host.
	AllowedHosts string
	// Reporter receives request logs and rejected requests. May be nil.
	Reporter  logger.Sink
	RateLimit RateLimitConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowMs    time.Duration
	MaxRequests int
}

// DefaultRateLimit allows 100 requests per minute per IP
func DefaultRateLimit() RateLimitConfig {
	return RateLimitConfig{WindowMs: 60 * time.Second, MaxRequests: 100}
}

// Server represents the web server
type Server struct {
	engine           *gin.Engine
	reporter         logger.Sink
	allowedHostRegex *regexp.Regexp
}

var (
	server *Server
)

// Init initializes the global web server
func Init(opts Options) (*Server, error) {
	s, err := NewServer(opts)
	if err != nil {
		return nil, err
	}
	server = s
	return server, nil
}

// Get returns the global web server
func Get() *Server {
	return server
}

// NewServer creates a new web server
func NewServer(opts Options) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		reporter: opts.Reporter,
	}
	if opts.AllowedHosts != "" {
		re, err := regexp.Compile(opts.AllowedHosts)
		if err != nil {
			return nil, fmt.Errorf("WEB_ALLOWED_HOSTS inválido: %w", err)
		}
		s.allowedHostRegex = re
	}
	if opts.RateLimit.MaxRequests <= 0 || opts.RateLimit.WindowMs <= 0 {
		opts.RateLimit = DefaultRateLimit()
	}

	// Apply middlewares
	s.engine.Use(s.logsMiddleware())
	s.engine.Use(rateLimitMiddleware(opts.RateLimit))

	// Set up error handlers
	s.setupErrorHandlers()

	return s, nil
}

// Engine returns the underlying Gin engine
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// logsMiddleware logs incoming requests and rejects unknown hosts
func (s *Server) logsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host

		if s.allowedHostRegex == nil || s.allowedHostRegex.MatchString(host) {
			logger.Debug(fmt.Sprintf("[LOG] Nueva solicitud: %s %s", c.Request.Method, c.Request.URL.Path), "WebServer")
			c.Next()
			return
		}

		msg := fmt.Sprintf("Solicitud Sospechosa Rechazada: %s %s | host=%s ip=%s", c.Request.Method, c.Request.URL.Path, host, c.ClientIP())
		logger.Warn("[LOG] "+msg, "WebServer")
		if s.reporter != nil {
			go s.reporter.Send(logger.Entry{Level: logger.LevelWarn, Message: msg, Prefix: "WebServer", Time: time.Now()})
		}

		c.AbortWithStatus(http.StatusForbidden)
	}
}

// rateLimitMiddleware gives every client IP its own token bucket. Idle
// buckets expire so the table stays bounded.
func rateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	limit := rate.Limit(float64(config.MaxRequests) / config.WindowMs.Seconds())
	clients := expirable.NewLRU[string, *rate.Limiter](10000, nil, 2*config.WindowMs)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		limiter, ok := clients.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(limit, config.MaxRequests)
			clients.Add(ip, limiter)
		}

		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Demasiadas solicitudes, por favor intente de nuevo más tarde.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// setupErrorHandlers sets up error handling routes
func (s *Server) setupErrorHandlers() {
	s.engine.HandleMethodNotAllowed = true

	// 404 handler
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "La ruta solicitada no existe.",
			"status":  404,
		})
	})

	// 405 handler
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"error":   "Method Not Allowed",
			"message": "El método HTTP no está permitido para esta ruta.",
			"status":  405,
		})
	})
}

// Start starts the web server
func (s *Server) Start(port string) error {
	logger.Info(fmt.Sprintf("🚀 Servidor escuchando en http://localhost:%s", port), "WebServer")
	return s.engine.Run(":" + port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync(port string) {
	go func() {
		if err := s.Start(port); err != nil {
			logger.Error(fmt.Sprintf("Error starting web server: %v", err), "WebServer")
		}
	}()
}

// Group creates a new router group
func (s *Server) Group(path string, handlers ...gin.HandlerFunc) *gin.RouterGroup {
	return s.engine.Group(path, handlers...)
}
