package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"docclass/internal/archive"
	"docclass/internal/classifier"
	"docclass/internal/config"
	"docclass/internal/db"
)

const configFilePath = "./configs/config.yaml"

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "docclass",
	Short:         "Train and apply a TF-IDF/SVM document classifier",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		c, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		setupLogger(c.Log)
		log.Debug().Interface("config", c).Msg("Loaded config")
		cfg = c
		return nil
	},
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configFilePath, "path to the YAML config")

	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(similarCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(archiveCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func setupLogger(lc config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(lc.Level)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if lc.Console != nil && *lc.Console {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
}

func loadModel() (*classifier.Model, error) {
	return classifier.Load(cfg.Model.Path)
}

// openDB returns nil when the result store is disabled.
func openDB(ctx context.Context) (*bun.DB, error) {
	if !cfg.Database.Enabled {
		return nil, nil
	}
	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, err
	}
	bunDB := db.NewDB(sqldb, cfg.Database.Debug)
	if err := db.InitDB(ctx, bunDB); err != nil {
		bunDB.Close()
		return nil, err
	}
	return bunDB, nil
}

// openArchive returns nil when the archive is disabled.
func openArchive(modelID string) (*archive.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	return archive.Open(cfg.Archive, modelID)
}
