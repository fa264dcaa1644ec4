package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"
	"flightsearch-service/internal/infrastructure/config"
	"flightsearch-service/internal/infrastructure/persistence"
	"flightsearch-service/internal/infrastructure/registry"
	"flightsearch-service/internal/infrastructure/router"
	"flightsearch-service/internal/interface/adapter"
	mongoRepo "flightsearch-service/internal/interface/repository"
	"flightsearch-service/internal/usecase"
	"flightsearch-service/pkg/logger"
	"flightsearch-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	log.Info("Starting Flightsearch Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up MongoDB connection for search history
	log.Info("Connecting to MongoDB")
	mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}
	db := persistence.GetDatabase(mongoClient, cfg.MongoDB)

	// Set up PostgreSQL connection for reference data
	gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	airlineRepository := mongoRepo.NewGormAirlineRepository(gormDB)
	airportRepository := mongoRepo.NewGormAirportRepository(gormDB)
	historyRepository := mongoRepo.NewMongoSearchHistoryRepository(db)

	// Build the validator rule set from reference data
	carrierCodes, err := airlineRepository.ListCodes(ctx)
	if err != nil {
		log.Fatal("Failed to load carrier codes", "error", err)
	}
	airportCodes, err := airportRepository.ListCodes(ctx)
	if err != nil {
		log.Fatal("Failed to load airport codes", "error", err)
	}
	log.Info("Loaded reference data", "carriers", len(carrierCodes), "airports", len(airportCodes))

	rules := usecase.DefaultRuleset().WithCarriers(carrierCodes).WithAirports(airportCodes)
	rules.MinPrice = cfg.MinPrice
	rules.MaxPrice = cfg.MaxPrice
	rules.HorizonDays = cfg.ResultHorizonDays

	validator := usecase.NewAuthenticityValidator(rules)
	dedup := usecase.NewDeduplicator()

	// Load the source catalog
	sourceRegistry, err := registry.LoadFromFile(cfg.SourceCatalogPath)
	if err != nil {
		log.Fatal("Failed to load source catalog", "error", err)
	}
	log.Info("Loaded source catalog", "sources", sourceRegistry.Len())

	// Register adapters: direct carriers use the plain JSON adapter;
	// aggregators use OAuth when credentials are configured
	adapterRouter := router.NewAdapterRouter(log)
	plainAdapter := adapter.NewJSONAPIAdapter(log, cfg.PerSourceTimeout)
	adapterRouter.RegisterCategory(entity.CategoryDirectCarrier, plainAdapter)
	if cfg.AdapterClientID != "" && cfg.AdapterTokenURL != "" {
		oauthAdapter := adapter.NewOAuthJSONAPIAdapter(ctx, log, cfg.AdapterClientID, cfg.AdapterClientSecret, cfg.AdapterTokenURL, cfg.PerSourceTimeout)
		adapterRouter.RegisterCategory(entity.CategoryAggregator, oauthAdapter)
	} else {
		adapterRouter.RegisterCategory(entity.CategoryAggregator, plainAdapter)
	}

	appMetrics := metrics.NewMetrics("flightsearch")

	orchestrator := usecase.NewSearchOrchestrator(
		sourceRegistry,
		adapterRouter,
		validator,
		dedup,
		usecase.OrchestratorConfig{
			Concurrency:       cfg.Concurrency,
			PerSourceInterval: cfg.PerSourceInterval,
			PerSourceTimeout:  cfg.PerSourceTimeout,
			HorizonDays:       cfg.ResultHorizonDays,
		},
		log,
		appMetrics,
	)

	// Set up HTTP server
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})
	mux.HandleFunc("/search", searchHandler(orchestrator, historyRepository, cfg.SearchDeadline, log))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel() // Cancel the context to stop all goroutines

	// Disconnect from MongoDB
	if err := mongoClient.Disconnect(context.Background()); err != nil {
		log.Error("MongoDB disconnect error", "error", err)
	}

	log.Info("Flightsearch Service stopped")
}

type searchResponse struct {
	Offers []entity.FlightOffer  `json:"offers,omitempty"`
	Report *entity.OutcomeReport `json:"report"`
	Error  string                `json:"error,omitempty"`
}

// searchHandler serves GET /search?origin=&destination=&departureDate=&returnDate=
func searchHandler(
	orchestrator *usecase.SearchOrchestrator,
	history repository.SearchHistoryRepository,
	deadline time.Duration,
	log logger.Logger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := entity.SearchQuery{
			Origin:        r.URL.Query().Get("origin"),
			Destination:   r.URL.Query().Get("destination"),
			DepartureDate: r.URL.Query().Get("departureDate"),
			ReturnDate:    r.URL.Query().Get("returnDate"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), deadline)
		defer cancel()

		offers, report, err := orchestrator.Search(ctx, query)

		if report != nil {
			run := &entity.SearchRun{
				Origin:        query.Origin,
				Destination:   query.Destination,
				DepartureDate: query.DepartureDate,
				ReturnDate:    query.ReturnDate,
				Report:        *report,
			}
			if saveErr := history.Save(r.Context(), run); saveErr != nil {
				log.Error("Failed to persist search run", "error", saveErr)
			}
		}

		w.Header().Set("Content-Type", "application/json")

		if err != nil {
			var invalid *entity.QueryInvalidError
			var noData *entity.NoDataAvailableError
			switch {
			case errors.As(err, &invalid):
				w.WriteHeader(http.StatusBadRequest)
			case errors.As(err, &noData):
				w.WriteHeader(http.StatusNotFound)
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
			json.NewEncoder(w).Encode(searchResponse{Report: report, Error: err.Error()})
			return
		}

		json.NewEncoder(w).Encode(searchResponse{Offers: offers, Report: report})
	}
}
