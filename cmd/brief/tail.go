package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thep200/daily-git-brief/internal/progress"
	"github.com/thep200/daily-git-brief/pkg/kafka"
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow collection progress published to Kafka.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !config.KafkaEnabled() {
			return errors.New("kafka.brokers is empty, nothing to tail")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		consumer, err := kafka.NewConsumer(config, logger, config.Kafka.ProgressTopic, config.Kafka.GroupID)
		if err != nil {
			return err
		}
		defer consumer.Close()

		consumer.RegisterHandler(progress.MessageKey, func(data []byte) error {
			event, err := progress.DecodeEvent(data)
			if err != nil {
				return err
			}
			printEvent(os.Stdout, event)
			return nil
		})

		logger.Info(ctx, "Tailing progress events on topic %s", config.Kafka.ProgressTopic)
		return consumer.Start(ctx)
	},
}
