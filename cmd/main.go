package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"smart_notes/internal/handlers"
	"smart_notes/internal/logger"
	"smart_notes/internal/repository"
	"smart_notes/internal/repository/db"
	"smart_notes/internal/server"
	"smart_notes/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// load config.yml + environment overrides
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(viper.GetString("log.level"))

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies; missing signing secrets abort startup here
	repos := repository.NewRepository(database)
	services, err := service.NewService(repos, serviceConfig())
	if err != nil {
		log.Fatalw("invalid service configuration", "err", err)
	}
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// loadConfig reads configs/config.yml and lets environment variables
// override any key (e.g. AUTH_ACCESS_SECRET, ASSISTANT_API_KEY), so
// secrets stay out of the file.
func loadConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return viper.ReadInConfig()
}

// serviceConfig assembles the startup configuration for all services.
func serviceConfig() service.Config {
	return service.Config{
		Auth: service.AuthConfig{
			AccessSecret:  viper.GetString("auth.access_secret"),
			RefreshSecret: viper.GetString("auth.refresh_secret"),
			AccessTTL:     viper.GetDuration("auth.access_ttl"),
			RefreshTTL:    viper.GetDuration("auth.refresh_ttl"),
		},
		Assistant: service.AssistantConfig{
			BaseURL:   viper.GetString("assistant.base_url"),
			APIKey:    viper.GetString("assistant.api_key"),
			Model:     viper.GetString("assistant.model"),
			Referer:   viper.GetString("assistant.referer"),
			AppTitle:  viper.GetString("assistant.app_title"),
			MaxTokens: viper.GetInt("assistant.max_tokens"),
			Timeout:   viper.GetDuration("assistant.timeout"),
		},
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
