package main

import (
	"database/sql"
	"fmt"
	"os"

	"fire_gateway/internal/config"
	"fire_gateway/internal/logger"
	"fire_gateway/internal/repository/db"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "fire-gateway",
	Short: "Fire sensor gateway between a local MQTT network and the cloud dashboard",
	Long: `fire-gateway stores every fire/gas/flame telemetry message from the local
MQTT broker in SQLite, relays the newest record to the cloud dashboard and
mirrors the dashboard's led/alarma variables to the sensor node.

Without a subcommand it behaves like "serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default configs/config.yml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug|info|warn|error")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, latestCmd)
}

// loadConfig reads configs/config.yml (or --config) plus FIREGW_* env vars.
func loadConfig() (*config.Config, error) {
	v := viper.GetViper()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}
	return config.Load(v)
}

// bootstrap loads config and builds the process logger. Config errors are
// reported before the configured level is known.
func bootstrap() (*config.Config, *logger.Logger) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	return cfg, logger.Get(cfg.Log.Level)
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) *sql.DB {
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "path", cfg.DB.Path, "err", err)
	}
	return conn
}

func closeDB(conn *sql.DB, log *logger.Logger) {
	if err := conn.Close(); err != nil {
		log.Errorw("failed to close sqlite", "err", err)
	}
}
