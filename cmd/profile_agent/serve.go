package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/config"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/observability"
	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/server"
)

var (
	serveConfig string
	servePort   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for validating job profiles.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "Path to JSON config file")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(serveConfig)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if servePort > 0 {
		cfg.Port = servePort
	}
	if rulesPath != "" {
		cfg.RulesPath = rulesPath
	}

	logger, err := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	v, err := loadValidator(cfg.RulesPath)
	if err != nil {
		return err
	}
	logger.Info("ruleset loaded",
		"rules_path", cfg.RulesPath,
		"domains", v.Ruleset().DomainNames(),
	)

	srv := server.New(server.Config{
		Port:         cfg.Port,
		MaxBatchSize: cfg.MaxBatchSize,
		Concurrency:  cfg.Concurrency,
		CORSOrigins:  cfg.CORSOrigins,

		TrustedProxies: cfg.TrustedProxies,
	}, v, observability.NewMetrics(), logger)

	return srv.Start(cmd.Context())
}
