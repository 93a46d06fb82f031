package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"styleshop/internal/worker"
	"styleshop/pkg/mailer"
	"styleshop/pkg/rabbitmq"
)

var (
	consumerTag string
	prefetch    int
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume order events and send confirmation emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := setup()
		if cfg.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is required for the worker")
		}

		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Prefetch: prefetch}, log)
		if err != nil {
			return err
		}
		defer mq.Close()

		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		if !mg.Configured() {
			log.Warn("Mailgun not configured, confirmations will be dropped")
		}
		confirmations := worker.NewOrderConfirmation(mg, cfg.ShopName, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return mq.Consume(ctx, consumerTag, confirmations.Handle)
	},
}

func init() {
	workerCmd.Flags().StringVar(&consumerTag, "consumer", "order-confirmation", "AMQP consumer tag")
	workerCmd.Flags().IntVar(&prefetch, "prefetch", 10, "Unacknowledged deliveries held at once")
}
