package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/genwork/internal/events"
	"github.com/yourorg/genwork/internal/handler"
	"github.com/yourorg/genwork/internal/infrastructure/logger"
	"github.com/yourorg/genwork/internal/infrastructure/redis"
	"github.com/yourorg/genwork/internal/notify"
	"github.com/yourorg/genwork/internal/observability/metrics"
	"github.com/yourorg/genwork/internal/observability/tracing"
	"github.com/yourorg/genwork/internal/repository"
	"github.com/yourorg/genwork/internal/security/audit"
	"github.com/yourorg/genwork/internal/security/auth"
	"github.com/yourorg/genwork/internal/security/middleware"
	"github.com/yourorg/genwork/internal/security/ratelimit"
	"github.com/yourorg/genwork/internal/service"
	"github.com/yourorg/genwork/pkg/config"
	"github.com/yourorg/genwork/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	development := cfg.Environment != "production"

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting gen.work server", slog.String("environment", cfg.Environment))

	// 3. Tracing (no-op unless an OTLP endpoint is configured)
	shutdownTracing, err := tracing.Init(context.Background(), log, "genwork-api", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Connect to Postgres
	pool, err := database.NewConnectionPool(context.Background(), cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	// 5. Redis is optional; without it rate limiting falls back to memory
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()
	}

	// 6. Repositories
	demoRepo := repository.NewPostgresDemoRequestRepository(db, log)
	accessRepo := repository.NewPostgresAccessRequestRepository(db, log)
	userRepo := repository.NewPostgresUserRepository(db, log)
	taskRepo := repository.NewPostgresTaskRepository(db, log)
	workspaceRepo := repository.NewPostgresWorkspaceRepository(db, log)

	// 7. Notifications and the admin event stream
	var mailer notify.Mailer
	if cfg.MailConfigured() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail, log)
	}
	dispatcher := notify.NewDispatcher(mailer, cfg.AdminEmail, log)
	hub := events.NewHub(log)

	// 8. Services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "genwork")
	leadService := service.NewLeadService(demoRepo, accessRepo, dispatcher, hub, log)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	aiService := service.NewAIService(cfg.OpenAIAPIKey, log)

	// 9. Handlers
	responder := handler.NewResponder(log, development)
	demoHandler := handler.NewDemoRequestHandler(leadService, responder, log)
	accessHandler := handler.NewAccessRequestHandler(leadService, responder, log)
	authHandler := handler.NewAuthHandler(authService, responder, log)
	taskHandler := handler.NewTaskHandler(taskRepo, responder, log)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceRepo, responder, log)
	userHandler := handler.NewUserHandler(userRepo, responder, log)
	aiHandler := handler.NewAIHandler(aiService, responder, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)
	eventsHandler := handler.NewEventsHandler(hub, log)

	// 10. Security components
	window := time.Duration(cfg.RateLimitWindowMinutes) * time.Minute
	var limiter ratelimit.Allower
	var memLimiter *ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, window, log)
	} else {
		memLimiter = ratelimit.NewLimiter(cfg.RateLimitMax, window)
		limiter = memLimiter
	}
	auditLogger := audit.NewLogger(log)

	// 11. Routes
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/demo-requests", demoHandler.Create)
	mux.HandleFunc("GET /api/demo-requests", demoHandler.List)
	mux.HandleFunc("PATCH /api/demo-requests/{id}", demoHandler.UpdateStatus)

	mux.HandleFunc("POST /api/access-requests", accessHandler.Create)
	mux.HandleFunc("GET /api/access-requests", accessHandler.List)
	mux.HandleFunc("PATCH /api/access-requests/{id}", accessHandler.UpdateStatus)

	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("GET /api/auth/verify", authHandler.Verify)

	mux.HandleFunc("GET /api/tasks", taskHandler.List)
	mux.HandleFunc("POST /api/tasks", taskHandler.Create)
	mux.HandleFunc("PATCH /api/tasks/bulk/update", taskHandler.BulkUpdate)
	mux.HandleFunc("GET /api/tasks/{id}", taskHandler.Get)
	mux.HandleFunc("PATCH /api/tasks/{id}", taskHandler.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", taskHandler.Delete)

	mux.HandleFunc("GET /api/workspaces", workspaceHandler.List)
	mux.HandleFunc("POST /api/workspaces", workspaceHandler.Create)
	mux.HandleFunc("GET /api/workspaces/{id}", workspaceHandler.Get)
	mux.HandleFunc("PATCH /api/workspaces/{id}", workspaceHandler.Update)
	mux.HandleFunc("DELETE /api/workspaces/{id}", workspaceHandler.Delete)
	mux.HandleFunc("GET /api/workspaces/{id}/members", workspaceHandler.ListMembers)
	mux.HandleFunc("POST /api/workspaces/{id}/members", workspaceHandler.AddMember)
	mux.HandleFunc("PATCH /api/workspaces/{id}/members/{member_id}", workspaceHandler.UpdateMember)
	mux.HandleFunc("DELETE /api/workspaces/{id}/members/{member_id}", workspaceHandler.RemoveMember)

	mux.HandleFunc("GET /api/users", userHandler.List)
	mux.HandleFunc("GET /api/users/{id}", userHandler.Get)
	mux.HandleFunc("PATCH /api/users/{id}", userHandler.Update)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.Deactivate)

	mux.HandleFunc("POST /api/ai/execute", aiHandler.Execute)
	mux.HandleFunc("GET /api/ai/departments", aiHandler.Departments)

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.Handle("GET /ws/events", eventsHandler)
	mux.Handle("/metrics", promhttp.Handler())

	// Unknown /api paths get the JSON envelope, not the default text 404
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "API endpoint not found",
		})
	})

	// CORS honoring configured origins
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})

	// Chain: request ID -> metrics -> recover -> rate limit -> JWT -> audit -> CORS -> mux
	rootHandler := withRequestID(
		metrics.HTTPMetricsMiddleware(
			middleware.RecoverMiddleware(log, development)(
				middleware.RateLimitMiddleware(limiter, log)(
					middleware.JWTMiddleware(tokenManager, log)(
						middleware.AuditMiddleware(auditLogger)(
							middleware.ValidateJSONContentType(log)(handlerWithCORS),
						),
					),
				),
			),
		),
		log,
	)

	// 12. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Bool("mail", cfg.MailConfigured()),
		slog.Bool("redis", redisClient != nil),
		slog.Int("rate_limit", cfg.RateLimitMax),
		slog.String("rate_limit_window", window.String()),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	// Let in-flight notification emails settle before exiting
	dispatcher.Wait()

	if memLimiter != nil {
		memLimiter.Stop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers,
// and logs a completion line per request
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		// Websocket connections are long-lived; skip the completion line
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			return
		}
		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
