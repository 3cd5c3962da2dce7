package cli

import (
	"fmt"

	"contactnorm/internal/contacts/repository"
	"contactnorm/internal/contacts/service"
	"contactnorm/internal/contacts/sink"
	"contactnorm/internal/contacts/source"
	"contactnorm/pkg/config"

	"github.com/spf13/cobra"
)

const defaultInput = "tests/input.csv"

type normalizeOptions struct {
	output  string
	rejects string
	mongo   bool

	workers      int
	limit        int
	delimiter    string
	region       string
	mobilePrefix string
	pivot        int
}

func newNormalizeCmd() *cobra.Command {
	opts := &normalizeOptions{}

	cmd := &cobra.Command{
		Use:   "normalize [input]",
		Short: "Normalize a CSV or XLSX file of contacts",
		Long: `Reads records with id, phone and dob columns, writes the records whose
phone and dob both normalize to normalized_contacts.csv next to the input,
and prints a summary with the first skipped records.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := defaultInput
			if len(args) == 1 {
				input = args[0]
			}
			return runNormalize(cmd, opts, input)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "output CSV path (default normalized_contacts.csv next to the input)")
	flags.StringVar(&opts.rejects, "rejects", "", "also write skipped records with their reasons to this CSV path")
	flags.BoolVar(&opts.mongo, "mongo", false, "persist contacts and rejections to MongoDB ($MONGO_URI)")
	flags.IntVarP(&opts.workers, "workers", "w", config.DefaultBatchWorkers, "number of records normalized concurrently")
	flags.IntVarP(&opts.limit, "limit", "n", config.DefaultReportIssueLimit, "number of skipped records listed in the summary")
	flags.StringVarP(&opts.delimiter, "delimiter", "d", config.DefaultCSVDelimiter, "CSV field delimiter")
	flags.StringVar(&opts.region, "region", config.DefaultPhoneRegion, "default region for numbers without a country code")
	flags.StringVar(&opts.mobilePrefix, "mobile-prefix", config.DefaultPhoneMobilePrefix, "leading digit of short local mobile numbers, empty to disable")
	flags.IntVar(&opts.pivot, "pivot", config.DefaultDOBPivotBoundary, "two-digit years up to this value are read as 20xx")
	return cmd
}

func runNormalize(cmd *cobra.Command, opts *normalizeOptions, input string) error {
	flags := cmd.Flags()
	cfg, err := loadConfig(cmd, func(cfg *config.Config) {
		if flags.Changed("workers") {
			cfg.BatchWorkers = opts.workers
		}
		if flags.Changed("limit") {
			cfg.ReportIssueLimit = opts.limit
		}
		if flags.Changed("delimiter") {
			cfg.CSVDelimiter = opts.delimiter
		}
		if flags.Changed("region") {
			cfg.PhoneRegion = opts.region
		}
		if flags.Changed("mobile-prefix") {
			cfg.PhoneMobilePrefix = opts.mobilePrefix
		}
		if flags.Changed("pivot") {
			cfg.DOBPivotBoundary = opts.pivot
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

	res, err := service.NewFromConfig(cfg).NormalizeAll(ctx, raws)
	if err != nil {
		return fmt.Errorf("normalization aborted: %w", err)
	}

	output := opts.output
	if output == "" {
		output = sink.DefaultOutputPath(input)
	}
	sinks := sink.Multi{sink.CSVFile{
		ContactsPath: output,
		RejectsPath:  opts.rejects,
		Delimiter:    cfg.Delimiter(),
	}}

	if opts.mongo {
		if err := cfg.Client.Connect(ctx, cfg.MongoURI, cfg.MongoConnTimeout); err != nil {
			return err
		}
		defer cfg.GracefulShutdown()

		repo := repository.NewMongoContactRepository(cfg)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return err
		}
		sinks = append(sinks, sink.Mongo{Repo: repo, RunID: res.RunID, Log: cfg.Log})
	}

	if err := sinks.WriteContacts(ctx, res.Contacts()); err != nil {
		return err
	}
	if err := sinks.WriteRejections(ctx, res.Rejections()); err != nil {
		return err
	}

	return service.WriteReport(cmd.OutOrStdout(), res, cfg.ReportIssueLimit)
}
