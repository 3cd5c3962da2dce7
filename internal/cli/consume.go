package cli

import (
	"context"
	"errors"
	"fmt"

	"contactnorm/internal/contacts/service"
	"contactnorm/internal/contacts/source"
	"contactnorm/internal/contacts/stream"
	"contactnorm/pkg/config"
	"contactnorm/pkg/kafka"
	kafka_config "contactnorm/pkg/kafka/config"
	kafka_middleware "contactnorm/pkg/kafka/middleware"

	"github.com/spf13/cobra"
)

func newConsumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Normalize contacts from Kafka",
		Long: `Consumes raw contacts from $KAFKA_RAW_CONTACTS_TOPIC and publishes each one
to $KAFKA_NORMALIZED_CONTACTS_TOPIC or $KAFKA_REJECTED_CONTACTS_TOPIC.
Undecodable messages go to $KAFKA_DLQ_TOPIC.`,
		Args: cobra.NoArgs,
		RunE: runConsume,
	}
}

func runConsume(cmd *cobra.Command, _ []string) (err error) {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	kcfg, err := kafka_config.Load()
	if err != nil {
		return err
	}
	kcfg.LogConfiguration(cfg.Log)

	metrics := kafka_middleware.NewMetrics()

	normalized, err := kafka.NewProducer(kcfg, kcfg.NormalizedContactsTopic, kcfg.DLQTopic, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create normalized producer: %w", err)
	}
	defer closeWith(&err, normalized.Close)

	rejected, err := kafka.NewProducer(kcfg, kcfg.RejectedContactsTopic, kcfg.DLQTopic, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create rejected producer: %w", err)
	}
	defer closeWith(&err, rejected.Close)

	pipeline := stream.NewPipeline(service.NewFromConfig(cfg), normalized, rejected, cfg.Log)

	consumer, err := kafka.NewConsumer(kcfg, kcfg.RawContactsTopic, kcfg.ConsumerGroup, kcfg.DLQTopic, pipeline.Handle, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}
	defer closeWith(&err, consumer.Close)

	if kcfg.EnableMiddleware {
		for _, p := range []*kafka.Producer{normalized, rejected} {
			p.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
			p.Use(metrics.ProducerMiddleware())
		}
		consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(metrics.ConsumerMiddleware())
	}

	cfg.Log.Info("Consuming raw contacts", "topic", kcfg.RawContactsTopic, "group", kcfg.ConsumerGroup)
	err = consumer.Start(cmd.Context())
	cfg.Log.Info("Consumer stopped", metrics.Snapshot().LogAttrs()...)

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func newProduceCmd() *cobra.Command {
	var delimiter string

	cmd := &cobra.Command{
		Use:   "produce [input]",
		Short: "Publish the records of a CSV or XLSX file as raw contacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			input := defaultInput
			if len(args) == 1 {
				input = args[0]
			}

			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("delimiter") {
					cfg.CSVDelimiter = delimiter
				}
			})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			raws, err := source.ReadFile(ctx, input, cfg.Delimiter())
			if err != nil {
				return err
			}

			kcfg, err := kafka_config.Load()
			if err != nil {
				return err
			}
			producer, err := kafka.NewProducer(kcfg, kcfg.RawContactsTopic, kcfg.DLQTopic, cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create raw producer: %w", err)
			}
			defer closeWith(&err, producer.Close)

			for _, raw := range raws {
				msg, err := stream.RawContactMessage(raw)
				if err != nil {
					return err
				}
				if err := producer.Publish(ctx, msg); err != nil {
					return fmt.Errorf("failed to publish record %d: %w", raw.Row, err)
				}
			}

			cmd.Printf("Published: %d\n", len(raws))
			return nil
		},
	}

	cmd.Flags().StringVarP(&delimiter, "delimiter", "d", config.DefaultCSVDelimiter, "CSV field delimiter")
	return cmd
}

// closeWith runs closeFn and keeps its error when nothing failed before.
func closeWith(err *error, closeFn func() error) {
	if cerr := closeFn(); cerr != nil && *err == nil {
		*err = cerr
	}
}
