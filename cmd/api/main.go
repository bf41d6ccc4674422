//	@title			Lumiplay Studio API
//	@version		1.0
//	@description	Backend for the Lumiplay studio site — public content endpoints, admin CMS, and media asset delivery.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/lumiplay/studio/internal/asset"
	"github.com/lumiplay/studio/internal/auth"
	"github.com/lumiplay/studio/internal/career"
	"github.com/lumiplay/studio/internal/config"
	"github.com/lumiplay/studio/internal/course"
	"github.com/lumiplay/studio/internal/db"
	"github.com/lumiplay/studio/internal/game"
	appMiddleware "github.com/lumiplay/studio/internal/middleware"
	"github.com/lumiplay/studio/internal/storage"
	"github.com/lumiplay/studio/internal/testimonial"

	_ "github.com/lumiplay/studio/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageRegion,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	assetSvc := asset.NewService(store, cfg.SignedURLTTL, cfg.MaxUploadBytes)
	assetHandler := asset.NewHandler(assetSvc)

	authHandler := auth.NewHandler(auth.NewService(cfg))

	courseHandler := course.NewHandler(course.NewService(course.NewRepository(pool), assetSvc))
	gameHandler := game.NewHandler(game.NewService(game.NewRepository(pool), assetSvc))
	careerHandler := career.NewHandler(career.NewService(career.NewRepository(pool), assetSvc))
	testimonialHandler := testimonial.NewHandler(testimonial.NewService(testimonial.NewRepository(pool), assetSvc))

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Stable image proxy: the one public URL per object key that never
	// changes, re-signed on every request.
	r.Get("/api/image/*", assetHandler.Proxy)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// Public site endpoints
		r.Get("/courses", courseHandler.ListPublished)
		r.Get("/courses/{slug}", courseHandler.GetBySlug)
		r.Get("/games", gameHandler.ListPublished)
		r.Get("/games/{slug}", gameHandler.GetBySlug)
		r.Get("/jobs", careerHandler.ListOpen)
		r.Post("/jobs/{id}/apply", careerHandler.Apply)
		r.Get("/testimonials", testimonialHandler.ListPublished)

		// Admin CMS endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(appMiddleware.RequireAdmin(cfg.JWTSecret))

			r.Route("/assets", func(r chi.Router) {
				r.Post("/", assetHandler.Upload)
				r.Post("/batch", assetHandler.UploadBatch)
				r.Post("/sign", assetHandler.Sign)
				r.Post("/sign-batch", assetHandler.SignBatch)
				r.Post("/delete", assetHandler.Delete)
			})

			r.Route("/courses", func(r chi.Router) {
				r.Get("/", courseHandler.AdminList)
				r.Post("/", courseHandler.Create)
				r.Get("/{id}", courseHandler.AdminGet)
				r.Put("/{id}", courseHandler.Update)
				r.Delete("/{id}", courseHandler.Delete)
			})

			r.Route("/games", func(r chi.Router) {
				r.Get("/", gameHandler.AdminList)
				r.Post("/", gameHandler.Create)
				r.Get("/{id}", gameHandler.AdminGet)
				r.Put("/{id}", gameHandler.Update)
				r.Delete("/{id}", gameHandler.Delete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", careerHandler.AdminListJobs)
				r.Post("/", careerHandler.CreateJob)
				r.Put("/{id}", careerHandler.UpdateJob)
				r.Delete("/{id}", careerHandler.DeleteJob)
				r.Get("/{id}/applications", careerHandler.ListApplications)
			})

			r.Route("/testimonials", func(r chi.Router) {
				r.Get("/", testimonialHandler.AdminList)
				r.Post("/", testimonialHandler.Create)
				r.Put("/{id}", testimonialHandler.Update)
				r.Delete("/{id}", testimonialHandler.Delete)
			})
		})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
