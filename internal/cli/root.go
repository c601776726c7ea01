package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tsawler/complaints"
	"github.com/tsawler/complaints/internal/logger"
)

// globalFlags are shared by every command and override the config file.
type globalFlags struct {
	configPath      string
	corpus          string
	database        string
	table           string
	engine          string
	evaluation      string
	workers         int
	normalizeCorpus bool
	logLevel        string
	logFile         string
}

// NewRootCmd builds the command tree. Without a subcommand it runs the
// interactive loop on stdin and stdout.
func NewRootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "complaints",
		Short:         "Classify customer complaints and report their sentiment",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			session := complaints.NewSession(a.pipeline, a.sentiment, a.evaluator,
				cmd.InOrStdin(), cmd.OutOrStdout(),
				complaints.WithSentinel(cfg.Session.Sentinel),
				complaints.WithSessionID(a.sessionID),
			)
			return session.Run(cmd.Context())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default complaints.json)")
	pf.StringVar(&flags.corpus, "corpus", "", "CSV corpus with preprocessed_text and product columns")
	pf.StringVar(&flags.database, "db", "", "libsql database holding the corpus (overrides --corpus)")
	pf.StringVar(&flags.table, "table", "", "corpus table in --db")
	pf.StringVar(&flags.engine, "engine", "", "sentiment engine: vader or lexicon")
	pf.StringVar(&flags.evaluation, "evaluation", "", "evaluation strategy: training or holdout")
	pf.IntVar(&flags.workers, "workers", 0, "concurrent tree builders (0 = one per CPU)")
	pf.BoolVar(&flags.normalizeCorpus, "normalize-corpus", false, "normalize corpus text before fitting")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn, error or none")
	pf.StringVar(&flags.logFile, "log-file", "", "also write logs to this file")

	cmd.AddCommand(
		newClassifyCmd(flags),
		newEvaluateCmd(flags),
		newImportCmd(flags),
		newConfigCmd(flags),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	defer logger.Close()
	return NewRootCmd().ExecuteContext(context.Background())
}

// loadConfig reads the config file, applies flags the user set and
// initializes logging.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (complaints.Config, error) {
	cfg, err := complaints.LoadConfig(flags.configPath)
	if err != nil {
		return cfg, err
	}

	changed := cmd.Flags().Changed
	if changed("corpus") {
		cfg.Corpus.Path = flags.corpus
	}
	if changed("db") {
		cfg.Corpus.Database = flags.database
	}
	if changed("table") {
		cfg.Corpus.Table = flags.table
	}
	if changed("engine") {
		cfg.Sentiment.Engine = flags.engine
	}
	if changed("evaluation") {
		cfg.Evaluation.Strategy = flags.evaluation
	}
	if changed("workers") {
		cfg.Model.Workers = flags.workers
	}
	if changed("normalize-corpus") {
		cfg.Corpus.NormalizeCorpus = flags.normalizeCorpus
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := logger.Init(cfg.Log.File, cfg.Log.Level); err != nil {
		return cfg, err
	}
	return cfg, nil
}
