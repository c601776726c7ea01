package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tsawler/complaints"
)

// SQLSource reads a corpus from a table holding a text and a label column.
type SQLSource struct {
	DB          *sql.DB
	Table       string
	TextColumn  string
	LabelColumn string
}

var _ complaints.CorpusSource = (*SQLSource)(nil)

// NewSQLSource reads the default columns from table.
func NewSQLSource(db *sql.DB, table string) *SQLSource {
	return &SQLSource{
		DB:          db,
		Table:       table,
		TextColumn:  complaints.DefaultTextColumn,
		LabelColumn: complaints.DefaultLabelColumn,
	}
}

// Load implements complaints.CorpusSource. Rows are returned in insertion
// order and rows with an empty text or label are dropped.
func (s *SQLSource) Load(ctx context.Context) (complaints.Corpus, error) {
	for _, ident := range []string{s.Table, s.TextColumn, s.LabelColumn} {
		if err := ValidateIdentifier(ident); err != nil {
			return complaints.Corpus{}, err
		}
	}

	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY rowid`, s.TextColumn, s.LabelColumn, s.Table)
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		if strings.Contains(err.Error(), "no such column") {
			return complaints.Corpus{}, fmt.Errorf("%s: %w", s.Table, complaints.ErrMissingColumn)
		}
		return complaints.Corpus{}, fmt.Errorf("query corpus: %w", err)
	}
	defer rows.Close()

	var records []complaints.Record
	for rows.Next() {
		var text, label sql.NullString
		if err := rows.Scan(&text, &label); err != nil {
			return complaints.Corpus{}, fmt.Errorf("scan corpus row: %w", err)
		}
		t, l := complaints.CleanCell(text.String), complaints.CleanCell(label.String)
		if t == "" || l == "" {
			continue
		}
		records = append(records, complaints.Record{Text: t, Label: l})
	}
	if err := rows.Err(); err != nil {
		return complaints.Corpus{}, fmt.Errorf("read corpus: %w", err)
	}
	if len(records) == 0 {
		return complaints.Corpus{}, complaints.ErrEmptyCorpus
	}
	return complaints.Corpus{Records: records}, nil
}

// Migrate creates the source table with its text and label columns if it
// does not exist.
func (s *SQLSource) Migrate() error {
	return migrate(s.DB, s.Table, s.TextColumn, s.LabelColumn)
}

// Import writes corpus into table using the default columns.
func Import(ctx context.Context, db *sql.DB, table string, corpus complaints.Corpus) (int, error) {
	return NewSQLSource(db, table).Import(ctx, corpus)
}

// Import writes corpus into the source table, creating it if needed, in a
// single transaction. Load reads the same columns back. It returns the
// number of rows written.
func (s *SQLSource) Import(ctx context.Context, corpus complaints.Corpus) (int, error) {
	if err := s.Migrate(); err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES (?, ?)`, s.Table, s.TextColumn, s.LabelColumn))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i, r := range corpus.Records {
		if _, err := stmt.ExecContext(ctx, r.Text, r.Label); err != nil {
			return i, fmt.Errorf("insert row %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return corpus.Len(), nil
}
