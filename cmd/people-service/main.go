package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authhandler "github.com/newwork/people-service/internal/auth/handler"
	"github.com/newwork/people-service/internal/auth/jwt"
	authservice "github.com/newwork/people-service/internal/auth/service"
	"github.com/newwork/people-service/internal/employee/client"
	"github.com/newwork/people-service/internal/employee/events"
	"github.com/newwork/people-service/internal/employee/handler"
	"github.com/newwork/people-service/internal/employee/repository"
	"github.com/newwork/people-service/internal/employee/service"
	"github.com/newwork/people-service/pkg/config"
	"github.com/newwork/people-service/pkg/database"
	"github.com/newwork/people-service/pkg/httputil"
	"github.com/newwork/people-service/pkg/logger"
	"github.com/newwork/people-service/pkg/messaging"
)

func main() {
	cfg, err := config.LoadWithValidation("people-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("people-service", cfg.Server.Environment)
	log.Info().Msg("starting People Service")

	location, err := cfg.Time.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time zone")
	}

	// Connect to database; New also brings the schema up to date
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Connect to RabbitMQ
	rmq, err := messaging.New(&cfg.RabbitMQ, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
	}
	defer rmq.Close()

	publisher, err := events.NewPeopleEventPublisher(rmq, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event publisher")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	absenceRepo := repository.NewAbsenceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Services
	tokens := jwt.NewManager(&cfg.JWT)
	polisher := client.NewPolisherClient(cfg.Polisher, log)

	authSvc := authservice.NewAuthService(userRepo, tokens, cfg.Demo.SwitchUserEnabled, log)
	profileSvc := service.NewProfileService(userRepo, profileRepo, publisher, log)
	directorySvc := service.NewDirectoryService(profileRepo, absenceRepo, log)
	absenceSvc := service.NewAbsenceService(userRepo, absenceRepo, publisher, location, log)
	feedbackSvc := service.NewFeedbackService(userRepo, feedbackRepo, polisher, publisher, log)

	// Handlers
	authHandler := authhandler.NewAuthHandler(authSvc, log)
	profileHandler := handler.NewProfileHandler(profileSvc, log)
	directoryHandler := handler.NewDirectoryHandler(directorySvc, log)
	absenceHandler := handler.NewAbsenceHandler(absenceSvc, log)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc, log)

	authenticate := authhandler.Authenticate(tokens)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "people-service",
			"database": db.Health(r.Context()),
			"rabbitmq": rmq.Health(),
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			// The service rejects this when demo.switchUserEnabled is off.
			r.Post("/switch-user", authHandler.SwitchUser)
		})

		// Everything below requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/{userId}", profileHandler.Get)
				r.Patch("/{userId}", profileHandler.Patch)
			})

			r.Get("/directory", directoryHandler.List)

			r.Route("/absences", func(r chi.Router) {
				r.Post("/", absenceHandler.Create)
				r.Get("/mine", absenceHandler.Mine)
				r.Get("/pending", absenceHandler.Pending)
				r.Patch("/{id}/status", absenceHandler.UpdateStatus)
			})

			r.Route("/feedback", func(r chi.Router) {
				r.Post("/", feedbackHandler.Create)
				r.Get("/user/{userId}", feedbackHandler.ListForUser)
				r.Get("/authored", feedbackHandler.Authored)
				r.Get("/received", feedbackHandler.Received)
				r.Post("/polish", feedbackHandler.Polish)
			})
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
