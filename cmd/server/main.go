package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storekeeper/internal/config"
	"storekeeper/internal/database"
	"storekeeper/internal/domain"
	"storekeeper/internal/handler"
	"storekeeper/internal/logging"
	"storekeeper/internal/repository"
	"storekeeper/internal/service"
)

func main() {
	// Command line flags
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "path to config file")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	var cfg *config.Config
	var cfgFile string
	var err error
	if *configPath != "" {
		cfg, cfgFile, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgFile, err = config.Load()
	}
	if err != nil {
		logging.NewLogger("main").Fatalf("Failed to load config: %v", err)
	}

	logging.Configure(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	log := logging.NewLogger("main")

	log.Info("Starting storekeeper server...")
	if cfgFile != "" {
		log.Infof("Config loaded from %s", cfgFile)
	} else {
		log.Info("No config file found, using defaults")
	}

	// Flag and environment overrides
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Connection.Type = "sqlite"
		cfg.Database.Connection.DBName = *dbPath
	}
	database.ApplyEnvOverrides(&cfg.Database.Connection)

	// Connect to the store
	manager := database.NewManager(&cfg.Database)
	manager.SetLogger(logging.NewKV("database"))

	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer manager.Disconnect()

	if cfg.Database.Migrate.MigrateOnStartup {
		if err := manager.RunMigrations(ctx); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}
	if cfg.Database.Init.InitOnStartup {
		if err := manager.InitData(ctx); err != nil {
			log.Fatalf("Failed to run SQL initialization: %v", err)
		}
	}

	// Wire repositories, services, and handlers
	db := manager.DB()
	catalogSvc := service.NewCatalogService(
		repository.NewRepository[domain.Category](db),
		repository.NewRepository[domain.Product](db),
	)
	solutionSvc := service.NewSolutionService(
		repository.NewRepository[domain.Solution](db),
	)

	mux := handler.NewMux(
		handler.NewCatalogHandler(catalogSvc),
		handler.NewSolutionHandler(solutionSvc),
		handler.NewSystemHandler(manager),
	)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.CORS,
		handler.RequestID,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infof("Server listening on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server shutdown error: %v", err)
	}

	log.Info("Server stopped")
}
