package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fire_gateway/internal/cloud"
	"fire_gateway/internal/handlers"
	"fire_gateway/internal/logger"
	"fire_gateway/internal/repository"
	"fire_gateway/internal/server"
	"fire_gateway/internal/service"
	"fire_gateway/internal/transport/mqtt"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the gateway: telemetry relay, control poller and status API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log := bootstrap()

	conn := openDB(cfg, log)
	defer closeDB(conn, log)

	local, err := mqtt.Connect(cfg.LocalBroker(), log)
	if err != nil {
		log.Fatalw("failed to connect local broker", "broker", cfg.MQTT.Broker, "err", err)
	}
	defer local.Disconnect()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Sink:       cloud.NewSink(cfg.Sink(), nil, log),
		Querier:    cloud.NewVariableClient(cfg.Variables()),
		Actuators:  local,
		Variables:  cfg.ControlVariables(),
		FireMarker: cfg.Cloud.FireMarker,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log, cfg.HTTP.APIToken)

	if err := local.Subscribe(cfg.Topics.Telemetry, apiHandler.OnTelemetry); err != nil {
		log.Fatalw("failed to subscribe telemetry", "topic", cfg.Topics.Telemetry, "err", err)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Poller.Run(ctx, cfg.Control.Interval)

	srv := &server.Server{}
	runHTTPServer(srv, cfg.HTTP.Port, apiHandler, log)

	log.Infow("gateway_started",
		"telemetry_topic", cfg.Topics.Telemetry,
		"db", cfg.DB.Path,
		"http_port", cfg.HTTP.Port,
		"poll_interval", cfg.Control.Interval.String(),
	)

	waitForShutdown(cancel, srv, log)
	return nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown blocks until SIGINT/SIGTERM, then stops the poller and the
// HTTP server. MQTT and the DB are released by the caller's defers.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down gateway...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
