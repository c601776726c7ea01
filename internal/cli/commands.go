package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/complaints"
	"github.com/tsawler/complaints/internal/logger"
	"github.com/tsawler/complaints/internal/store"
)

func newClassifyCmd(flags *globalFlags) *cobra.Command {
	var votes bool

	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify one complaint and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			c, err := a.pipeline.Analyze(strings.Join(args, " "),
				complaints.WithContext(cmd.Context()),
				complaints.WithSentiment(a.sentiment),
				complaints.WithVotes(votes),
			)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Predicted complaint type:", c.Category)
			fmt.Fprintln(out, "Sentiment:", c.Sentiment.Label)
			fmt.Fprintf(out, "Confidence: %.2f\n", c.Confidence)
			if votes {
				classes := make([]string, 0, len(c.Votes))
				for class := range c.Votes {
					classes = append(classes, class)
				}
				sort.Strings(classes)
				for _, class := range classes {
					fmt.Fprintf(out, "  %-20s %.2f\n", class, c.Votes[class])
				}
			}
			for _, s := range c.Sentiment.Sentences {
				fmt.Fprintf(out, "  [%s %+.3f] %s\n", s.Label, s.Compound, s.Sentence.Text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&votes, "votes", false, "print the share of trees voting for each category")
	return cmd
}

func newEvaluateCmd(flags *globalFlags) *cobra.Command {
	var folds int

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Train on the corpus and print evaluation metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			m, err := a.evaluator.Evaluate(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Evaluation: %s (%d documents, vocabulary %d)\n",
				cfg.Evaluation.Strategy, a.metrics.Documents, a.metrics.VocabularySize)
			fmt.Fprintf(out, "Accuracy: %.4f\nPrecision: %.4f\nRecall: %.4f\nF1-score: %.4f\n",
				m.Accuracy, m.Precision, m.Recall, m.F1)
			fmt.Fprintln(out, "Classification Report:")
			fmt.Fprintln(out, m.Report.String())
			fmt.Fprintln(out, "Confusion Matrix:")
			fmt.Fprint(out, m.Confusion.String())

			if folds > 1 {
				cv, err := a.trainer.CrossValidate(a.corpus, folds)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%d-fold cross-validation:\n", folds)
				for i, r := range cv.FoldResults {
					fmt.Fprintf(out, "  fold %d: accuracy %.4f, f1 %.4f\n", i+1, r.Accuracy, r.F1Score)
				}
				fmt.Fprintf(out, "  accuracy %.4f ± %.4f\n  f1 %.4f ± %.4f\n",
					cv.MeanAccuracy, cv.StdAccuracy, cv.MeanF1, cv.StdF1)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&folds, "folds", 0, "also run k-fold cross-validation")
	return cmd
}

func newImportCmd(flags *globalFlags) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "import --csv in.csv --db out.db",
		Short: "Copy a CSV corpus into a libsql database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if csvPath == "" {
				csvPath = cfg.Corpus.Path
			}
			if cfg.Corpus.Database == "" {
				return fmt.Errorf("--db is required")
			}

			corpus, stats, err := complaints.LoadCSV(csvPath, cfg.CSVOptions())
			if err != nil {
				return err
			}
			db, err := store.Open(cfg.Corpus.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := newSQLSource(db, cfg).Import(cmd.Context(), corpus)
			if err != nil {
				return err
			}
			logger.Info("imported %d rows into %s (%d dropped)", n, cfg.Corpus.Database, stats.Dropped())
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d complaints into %s:%s\n", n, cfg.Corpus.Database, cfg.Corpus.Table)
			return nil
		},
	}
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV corpus to import (default: corpus.path)")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration or write it to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if write != "" {
				if err := complaints.SaveConfig(write, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", write)
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the effective configuration to this path")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
