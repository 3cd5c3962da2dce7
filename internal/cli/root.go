package cli

import (
	"context"

	"contactnorm/pkg/config"
	"contactnorm/pkg/logger"

	"github.com/spf13/cobra"
)

const serviceName = "contactnorm"

// version is set at build time with -ldflags "-X contactnorm/internal/cli.version=..."
var version = "dev"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   serviceName,
		Short: "Normalize contact phone numbers and dates of birth",
		Long: `contactnorm turns free-form phone numbers into E.164 and dates of birth
into YYYY-MM-DD. It runs as a one-shot file converter, an HTTP API or a
Kafka pipeline.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	root.PersistentFlags().String("log-format", "", "log format: json or text (default $LOG_FORMAT or json)")

	root.AddCommand(
		newNormalizeCmd(),
		newServeCmd(),
		newConsumeCmd(),
		newProduceCmd(),
		newVersionCmd(),
	)
	return root
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// loadConfig reads the environment, applies flags the user set through
// override, validates, and rebuilds the logger on the command's stderr.
func loadConfig(cmd *cobra.Command, override func(cfg *config.Config)) (*config.Config, error) {
	cfg := config.FromEnv(serviceName)

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if override != nil {
		override(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Log = logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
		Service: serviceName,
	})
	return cfg, nil
}
