package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"sparkbot/internal/bot"
	"sparkbot/internal/config"
	"sparkbot/internal/spark"

	"github.com/spf13/cobra"
)

var (
	version    = "1.0.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:   "sparkbot",
		Short: "Sparkbot: a webhook-driven Spark chat bot",
		Long:  "Sparkbot receives Spark message webhooks, matches known phrases and posts canned replies back to the room.",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yml (default: ~/.sparkbot/config.yml)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(registerCmd())
	root.AddCommand(doctorCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if err := os.MkdirAll(config.DefaultConfigDir(), 0o755); err != nil {
				return err
			}
			if err := config.Save(cfgPath, config.Defaults()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			logger.Info("next step: set spark.token, then run 'sparkbot serve'")
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webhook server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				logger.Warn("config not found, using defaults", "path", cfgPath, "err", err)
				cfg = config.Defaults()
			}

			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

			if cfg.TokenIsPlaceholder() {
				logger.Warn("spark token not provisioned, replies cannot be posted",
					"config", cfgPath,
					"hint", "set spark.token, see https://developer.ciscospark.com/getting-started.html")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := newAPI(cfg)
			handler := bot.NewHandler(bot.HandlerConfig{
				API:              api,
				WebhookSecret:    cfg.Server.WebhookSecret,
				TokenProvisioned: !cfg.TokenIsPlaceholder(),
				Logger:           logger,
			})
			server := bot.NewServer(bot.ServerConfig{
				Host:    cfg.Server.Host,
				Port:    cfg.Server.Port,
				Webhook: handler,
				Logger:  logger,
			})
			return server.Start(ctx)
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sparkbot v%s\n", version)
		},
	}
}

func newAPI(cfg *config.Config) *spark.API {
	return spark.NewAPI(spark.APIConfig{
		BaseURL:    cfg.Spark.BaseURL,
		Token:      cfg.Spark.Token,
		AuthScheme: cfg.Spark.AuthScheme,
		Timeout:    cfg.Spark.Timeout(),
		Logger:     logger,
	})
}
