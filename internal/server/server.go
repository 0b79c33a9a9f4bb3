package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/echoboard/backend/internal/database"
	"github.com/echoboard/backend/internal/handlers"
	"github.com/echoboard/backend/internal/middleware"
	"github.com/echoboard/backend/internal/ratelimit"
)

type Server struct {
	db      database.Service
	handler *handlers.Handler
	limiter *ratelimit.Limiter
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Initialize database
	db := database.New()

	// Create unified handler
	handler := handlers.NewHandler(handlers.NewStores(db.GetDB()))

	// Create server instance
	newServer := &Server{
		db:      db,
		handler: handler,
		limiter: newLimiter(),
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// newLimiter picks the counter store for answer-submission throttling.
// With REDIS_ADDR set, every process draws from one shared budget;
// otherwise the counters are process-local and per-process-approximate.
func newLimiter() *ratelimit.Limiter {
	var counters ratelimit.CounterStore
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		counters = ratelimit.NewRedisStore(client)
		log.Printf("✅ Rate limiting through redis at %s", addr)
	} else {
		counters = ratelimit.NewMemoryStore()
	}
	return ratelimit.New(counters, ratelimit.DefaultLimit, ratelimit.DefaultWindow)
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Cron trigger (guarded by CRON_SECRET, not by user auth)
	r.POST("/cron/daily-question", s.handler.Question.RunDailyQuestion)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.POST("/register", s.handler.Auth.Register)
		api.POST("/login", s.handler.Auth.Login)

		// Protected routes (authentication required)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile routes
			protected.GET("/me", s.handler.Auth.GetMe)
			protected.PUT("/me", s.handler.User.UpdateProfile)
			protected.GET("/me/answers", s.handler.User.GetMyAnswers)

			// Question routes
			protected.GET("/questions/today", s.handler.Question.GetToday)
			protected.GET("/questions/:id", s.handler.Question.GetQuestion)
			protected.POST("/questions", s.handler.Question.CreateQuestion)

			// Answer routes; submission is throttled
			protected.GET("/questions/:id/answers", s.handler.Answer.ListAnswers)
			protected.POST("/questions/:id/answers", middleware.RateLimit(s.limiter), s.handler.Answer.CreateAnswer)
			protected.DELETE("/answers/:id", s.handler.Answer.DeleteAnswer)
			protected.POST("/answers/:id/like", s.handler.Answer.LikeAnswer)
			protected.DELETE("/answers/:id/like", s.handler.Answer.UnlikeAnswer)

			// Community routes
			protected.GET("/communities", s.handler.Community.GetCommunities)
			protected.POST("/communities", s.handler.Community.CreateCommunity)
			protected.GET("/communities/:id", s.handler.Community.GetCommunity)
			protected.GET("/communities/:id/members", s.handler.Community.GetMembers)
			protected.POST("/communities/:id/join", s.handler.Community.JoinCommunity)

			// Report routes
			protected.POST("/reports", s.handler.Report.CreateReport)
		}
	}

	return r
}
