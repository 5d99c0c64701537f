// DevConnector API server entry point. Wires configuration, the
// database pool, services and HTTP handlers together, then serves
// until interrupted.
//
// @title DevConnector API
// @version 1.0
// @description Social network API for developers: profiles, posts and GitHub repos.
// @contact.name API Support
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
// @description JWT issued by POST /api/users or POST /api/auth
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/user/devconnector-go/apperror"
	"github.com/user/devconnector-go/auth"
	"github.com/user/devconnector-go/config"
	"github.com/user/devconnector-go/db"
	_ "github.com/user/devconnector-go/docs" // Generated Swagger docs
	"github.com/user/devconnector-go/githubapi"
	"github.com/user/devconnector-go/posts"
	"github.com/user/devconnector-go/profiles"
)

func main() {
	// .env is a development convenience; production sets real env vars.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	pool, err := db.NewPool(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnableExtensions(pool); err != nil {
		logger.Fatal("Failed to enable extensions", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.Database, "./migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Manual dependency injection: services get the pool and config,
	// handlers get services.
	tokenService := auth.NewTokenService(*cfg.Auth)
	authService := auth.NewAuthService(pool, tokenService)
	authHandlers := auth.NewHandlers(authService)

	profileService := profiles.NewProfileService(pool)
	profileHandlers := profiles.NewHandlers(profileService)

	postService := posts.NewPostService(pool)
	postHandlers := posts.NewHandlers(postService)

	githubClient := githubapi.NewClient(cfg.GitHub)
	githubHandlers := githubapi.NewHandlers(githubClient)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	registerMiddleware(r, logger)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("API Running"))
	})

	// Registration lives on its own path to match the public contract.
	r.Post("/api/users", authHandlers.HandleRegister())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/", authHandlers.HandleLogin())
		r.With(auth.Middleware(tokenService)).Get("/", authHandlers.HandleGetAuthUser())
	})

	r.Route("/api/profile", func(r chi.Router) {
		// Public reads
		r.Get("/", profileHandlers.HandleListProfiles())
		r.Get("/user/{user_id}", profileHandlers.HandleGetProfileByUserID())
		r.Get("/github/{username}", githubHandlers.HandleGetRepos)

		// Everything else requires a token
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(tokenService))
			r.Get("/me", profileHandlers.HandleGetMyProfile())
			r.Post("/", profileHandlers.HandleUpsertProfile())
			r.Delete("/", profileHandlers.HandleDeleteAccount())
			r.Put("/experience", profileHandlers.HandleAddExperience())
			r.Delete("/experience/{exp_id}", profileHandlers.HandleRemoveExperience())
			r.Put("/education", profileHandlers.HandleAddEducation())
			r.Delete("/education/{edu_id}", profileHandlers.HandleRemoveEducation())
		})
	})

	r.Route("/api/posts", func(r chi.Router) {
		r.Use(auth.Middleware(tokenService))
		postHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server shutdown failed", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

// registerMiddleware attaches the global middleware stack. RequestID and
// RealIP run first so the request logger sees the request id and the real
// client address.
func registerMiddleware(r chi.Router, logger *zap.Logger) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "x-auth-token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that answers with the standard error envelope.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("Panic recovered", zap.Any("panic", rvr))
					writeError(ww, apperror.NewInternalError("Server Error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})
}

// requestLogger logs one structured line per request.
func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}

// writeError is a local helper for the panic recovery middleware,
// mirroring auth.WriteError without pulling handler dependencies in.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"msg":"Server Error"}`, http.StatusInternalServerError)
	}
}
