package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fire_gateway/internal/repository"
	"fire_gateway/internal/service"

	"github.com/spf13/cobra"
)

var errNoMeasurements = errors.New("no measurements stored yet")

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the most recent stored measurement as JSON",
	Long: `Print the most recent stored measurement, with its derived fire status,
as indented JSON. Exits 1 when the store is empty.

Example:
  fire-gateway latest --config /etc/fire-gateway/config.yml`,
	Args: cobra.NoArgs,
	RunE: runLatest,
}

func runLatest(cmd *cobra.Command, _ []string) error {
	cfg, log := bootstrap()

	conn := openDB(cfg, log)
	defer closeDB(conn, log)

	monitoring := service.NewMonitoringService(repository.NewRepository(conn).Measurements, cfg.Cloud.FireMarker)

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()

	view, err := monitoring.Latest(ctx)
	if err != nil {
		return fmt.Errorf("read latest measurement: %w", err)
	}
	if view == nil {
		return errNoMeasurements
	}

	out, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
