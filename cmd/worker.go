package cmd

import (
	"errors"

	"experience-market/internal/usecase"
	"experience-market/pkg/mailer"
	"experience-market/pkg/queue"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume queued notifications and send them over SMTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := bootstrap("worker")
			if err != nil {
				return err
			}
			defer logger.Sync()

			if !config.Broker.Enabled {
				return errors.New("broker is disabled, notifications are sent inline by serve")
			}

			ctx, stop := signalContext()
			defer stop()

			notifier := usecase.NewNotificationService(nil, mailer.NewSMTPMailer(config.Email, logger), logger)

			logger.Info("Notification worker started", zap.String("queue", config.Broker.Queue))
			err = queue.NewConsumer(config.Broker, logger).Run(ctx, notifier.Deliver)
			logger.Info("Notification worker stopped")
			return err
		},
	}
}
