package main

import (
	"context"
	"fmt"
	"time"

	"sparkbot/internal/bot"
	"sparkbot/internal/config"
	"sparkbot/internal/spark"

	"github.com/spf13/cobra"
)

func registerCmd() *cobra.Command {
	var (
		name      string
		targetURL string
		resource  string
		event     string
		roomID    string
		filter    string
		secret    string
	)

	cmd := &cobra.Command{
		Use:   "register-webhook",
		Short: "Register this bot's webhook with the Spark API",
		Long: `Registers a webhook so the platform delivers message events to this
bot's /webhook_messages endpoint. With --room-id the webhook is scoped to one
room and fixed to the message-created event; otherwise --event (and
optionally --filter) are used as given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.TokenIsPlaceholder() {
				return fmt.Errorf("spark token not provisioned, set spark.token in %s", resolveConfigPath())
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			api := newAPI(cfg)
			if roomID != "" {
				if err := api.CreateWebhookSimplified(ctx, name, targetURL, resource, roomID); err != nil {
					return err
				}
			} else {
				wh := spark.Webhook{
					Name:      name,
					TargetURL: targetURL,
					Resource:  resource,
					Event:     event,
					Filter:    filter,
					Secret:    secret,
				}
				if err := api.CreateWebhook(ctx, wh); err != nil {
					return err
				}
			}
			logger.Info("webhook registered", "name", name, "targetUrl", targetURL, "resource", resource)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "sparkbot", "webhook name")
	cmd.Flags().StringVar(&targetURL, "target-url", "", "public URL of this bot's "+bot.WebhookPath+" endpoint")
	cmd.Flags().StringVar(&resource, "resource", "messages", "resource to watch")
	cmd.Flags().StringVar(&event, "event", "created", "event to watch")
	cmd.Flags().StringVar(&roomID, "room-id", "", "restrict the webhook to one room")
	cmd.Flags().StringVar(&filter, "filter", "", "raw webhook filter expression")
	cmd.Flags().StringVar(&secret, "secret", "", "shared secret for signing deliveries")
	cmd.MarkFlagRequired("target-url")

	return cmd
}
