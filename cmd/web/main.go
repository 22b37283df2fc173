package main

import (
	"fmt"
	"os"
	"time"

	"github.com/telco-tools/cdr-uplink/pkg/server"
	"github.com/telco-tools/cdr-uplink/pkg/services/config"
	"github.com/telco-tools/cdr-uplink/pkg/store/history"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the report viewer for cdr-uplink",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to the configuration file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := history.NewDB(history.Settings{DbPath: cfg.HistoryDB})
	if err != nil {
		return fmt.Errorf("failed to open history db: %w", err)
	}
	defer db.Close()

	store, err := history.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create history store: %w", err)
	}

	logger.Info().Str("db", cfg.HistoryDB).Msg("upload history loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.ListenAddr,
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			History: store,
			Logger:  logger,
		},
	})

	return api.Start()
}
