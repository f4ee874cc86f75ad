package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ita-data/trade-events-aggregator/internal/aggregate"
	"github.com/ita-data/trade-events-aggregator/internal/handlers"
	"github.com/ita-data/trade-events-aggregator/internal/secrets"
	"github.com/ita-data/trade-events-aggregator/internal/services"
	"github.com/ita-data/trade-events-aggregator/internal/source"
	"github.com/ita-data/trade-events-aggregator/internal/storage"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	once := flag.Bool("once", false, "run a single aggregation pass and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	config := loadConfig()

	log.Info().
		Str("secondary_source", config.SecondarySource).
		Str("object_key", config.OutputKey).
		Msg("Starting trade events aggregator")

	log.Info().Msg("Initializing object store...")
	store, err := storage.NewObjectStore(
		config.MinIOEndpoint,
		config.MinIOAccessKey,
		config.MinIOSecretKey,
		config.MinIOBucket,
		config.MinIOUseSSL,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object store")
	}

	feed := source.NewFeedSource(config.FeedEndpoint)

	var secondary source.Source
	switch config.SecondarySource {
	case "spreadsheet":
		secondary = source.NewSpreadsheetSource(store, config.SpreadsheetKey)
	case "listservice":
		secondary = source.NewListServiceSource(source.ListServiceConfig{
			ItemsURL: config.ListItemsURL,
			TokenURL: config.ListTokenURL,
			ClientID: config.ListClientID,
			Scope:    config.ListScope,
		}, secrets.EnvSource{})
	default:
		log.Fatal().Str("secondary_source", config.SecondarySource).Msg("Unknown secondary source")
	}

	var notifier services.RunNotifier
	if config.RabbitMQURL != "" {
		n, err := services.NewNotifier(config.RabbitMQURL, config.RabbitMQExchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize run notifier")
		}
		defer n.Close()
		notifier = n
	} else {
		log.Warn().Msg("No RabbitMQ URL configured - run notifications disabled")
	}

	aggregator := aggregate.New(feed, secondary)
	runner := services.NewRunner(aggregator, store, notifier, config.OutputKey)

	if *once {
		runID := uuid.New().String()
		count, err := runner.Run(context.Background(), runID)
		if err != nil {
			log.Error().Err(err).Str("run_id", runID).Msg("Aggregation run failed")
			os.Exit(1)
		}
		log.Info().Int("events", count).Msg("Aggregation run completed")
		return
	}

	handler := handlers.NewHandler(runner, store)
	router := setupRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		Handler:      router,
		ReadTimeout: 15 * time.Second,
		// A run holds the /run response open for the whole fetch+publish pass.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Server starting...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited gracefully")
}

type Config struct {
	Host             string
	Port             string
	FeedEndpoint     string
	SecondarySource  string
	SpreadsheetKey   string
	ListItemsURL     string
	ListTokenURL     string
	ListClientID     string
	ListScope        string
	OutputKey        string
	MinIOEndpoint    string
	MinIOAccessKey   string
	MinIOSecretKey   string
	MinIOBucket      string
	MinIOUseSSL      bool
	RabbitMQURL      string
	RabbitMQExchange string
}

// loadConfig loads configuration from environment variables
func loadConfig() *Config {
	return &Config{
		Host:             getEnv("AGGREGATOR_HOST", "0.0.0.0"),
		Port:             getEnv("AGGREGATOR_PORT", "8080"),
		FeedEndpoint:     getEnv("FEED_ENDPOINT", "http://emenuapps.ita.doc.gov/ePublic/GetEventXML?StartDT=%s&EndDT=%s"),
		SecondarySource:  getEnv("SECONDARY_SOURCE", "spreadsheet"),
		SpreadsheetKey:   getEnv("SPREADSHEET_KEY", "tepp_export.xlsx"),
		ListItemsURL:     getEnv("LIST_ITEMS_URL", ""),
		ListTokenURL:     getEnv("LIST_TOKEN_URL", ""),
		ListClientID:     getEnv("LIST_CLIENT_ID", ""),
		ListScope:        getEnv("LIST_SCOPE", ""),
		OutputKey:        getEnv("OUTPUT_KEY", "ita.json"),
		MinIOEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:   getEnv("MINIO_SECRET_KEY", "minioadmin123"),
		MinIOBucket:      getEnv("MINIO_BUCKET_NAME", "trade-events"),
		MinIOUseSSL:      getEnv("MINIO_USE_SSL", "false") == "true",
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "trade-events.runs"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// setupRouter configures all routes and middleware
func setupRouter(h *handlers.Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	r.HandleFunc("/run", h.RunHandler).Methods("POST")
	r.HandleFunc("/health", h.HealthCheckHandler).Methods("GET")

	return r
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.statusCode).
			Dur("duration_ms", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP request")
	})
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
