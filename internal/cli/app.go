package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tsawler/complaints"
	"github.com/tsawler/complaints/internal/logger"
	"github.com/tsawler/complaints/internal/store"
)

// app holds everything built at startup. Any error while building it is
// fatal.
type app struct {
	sessionID string
	resources *complaints.Resources
	corpus    complaints.Corpus
	trainer   *complaints.Trainer
	pipeline  *complaints.Pipeline
	evaluator complaints.Evaluator
	sentiment *complaints.SentimentAnalyzer
	metrics   complaints.TrainingMetrics
}

// newApp loads resources and the corpus and trains the pipeline.
func newApp(ctx context.Context, cfg complaints.Config) (*app, error) {
	a, err := newUntrainedApp(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.pipeline, a.evaluator, a.metrics, err = a.trainer.Train(a.corpus)
	if err != nil {
		return nil, fmt.Errorf("training: %w", err)
	}
	return a, nil
}

// newUntrainedApp does everything newApp does except training.
func newUntrainedApp(ctx context.Context, cfg complaints.Config) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &app{sessionID: uuid.NewString()}
	logger.Info("session %s: loading language resources", a.sessionID)

	res, err := complaints.LoadResources(complaints.English)
	if err != nil {
		return nil, err
	}
	a.resources = res

	a.sentiment, err = complaints.NewSentimentAnalyzer(res, cfg.SentimentConfig())
	if err != nil {
		return nil, err
	}

	a.corpus, err = loadCorpus(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded %d complaints in %d categories", a.corpus.Len(), len(a.corpus.Classes()))

	normalizer := complaints.NewNormalizer(res, complaints.WithExtraStopWords(cfg.Corpus.ExtraStopWords...))
	tc := cfg.TrainingConfig()
	tc.Context = ctx
	tc.ProgressCallback = func(done, total int) {
		if done%10 == 0 || done == total {
			logger.Debug("grown %d/%d trees", done, total)
		}
	}
	a.trainer = complaints.NewTrainer(tc, normalizer)
	return a, nil
}

// newSQLSource reads and writes the configured corpus table and columns.
func newSQLSource(db *sql.DB, cfg complaints.Config) *store.SQLSource {
	src := store.NewSQLSource(db, cfg.Corpus.Table)
	src.TextColumn = cfg.Corpus.TextColumn
	src.LabelColumn = cfg.Corpus.LabelColumn
	return src
}

func loadCorpus(ctx context.Context, cfg complaints.Config) (complaints.Corpus, error) {
	if cfg.Corpus.Database != "" {
		db, err := store.Open(cfg.Corpus.Database)
		if err != nil {
			return complaints.Corpus{}, err
		}
		defer db.Close()

		corpus, err := newSQLSource(db, cfg).Load(ctx)
		if err != nil {
			return corpus, fmt.Errorf("%s: %w", cfg.Corpus.Database, err)
		}
		return corpus, nil
	}

	corpus, stats, err := complaints.LoadCSV(cfg.Corpus.Path, cfg.CSVOptions())
	if err != nil {
		return corpus, err
	}
	if stats.Dropped() > 0 {
		logger.Info("dropped %d of %d rows (%d empty text, %d empty label, %d short)",
			stats.Dropped(), stats.Rows, stats.EmptyText, stats.EmptyLabel, stats.ShortRecords)
	}
	return corpus, nil
}
