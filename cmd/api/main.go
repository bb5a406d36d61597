package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/povarna/ai-output-validator/internal/api"
	"github.com/povarna/ai-output-validator/internal/api/middleware"
	"github.com/povarna/ai-output-validator/internal/setup"
	"github.com/povarna/ai-output-validator/internal/setup/logger"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "AI Output Validator API",
			Description: "Structural and semantic validation for AI-generated output",
			Version:     setup.ServiceVersion,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "validation", Description: "Content validation"}},
		{TagProps: spec.TagProps{Name: "schemas", Description: "Schema management"}},
	}
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := setup.LoadConfig()

	logger := logger.New(cfg.LogLevel)
	log.Logger = logger

	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Dependency wiring failed")
	}
	defer deps.Close()

	handler := api.NewHandler(deps.Pipeline, deps.Store, deps.Compiler, api.ServiceInfo{
		Name:            setup.ServiceName,
		Version:         setup.ServiceVersion,
		SemanticEnabled: deps.SemanticEnabled,
		Provider:        deps.Provider,
	}, &logger)

	container := restful.NewContainer()
	container.Filter(middleware.RequestID)
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	api.RegisterRoutes(container, handler, middleware.APIKeyAuth(cfg.AuthEnabled, cfg.APIKey))

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info().
		Str("address", addr).
		Bool("semantic_enabled", deps.SemanticEnabled).
		Str("schema_backend", cfg.SchemaBackend).
		Msg("Starting AI Output Validator API")

	server := http.Server{
		Addr:         addr,
		Handler:      middleware.ProcessTime(corsHandler.Handler(container)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("AI Output Validator stopped")
}
