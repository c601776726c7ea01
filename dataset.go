package complaints

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Default column names of the reference dataset.
const (
	DefaultTextColumn  = "preprocessed_text"
	DefaultLabelColumn = "product"
)

// CSVOptions controls how a corpus CSV is read.
type CSVOptions struct {
	TextColumn  string
	LabelColumn string
	Comma       rune
}

// DefaultCSVOptions returns the options for the reference dataset.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		TextColumn:  DefaultTextColumn,
		LabelColumn: DefaultLabelColumn,
		Comma:       ',',
	}
}

// LoadStats counts what happened to the rows of a loaded corpus.
type LoadStats struct {
	Rows         int // data rows read, excluding the header
	Kept         int
	EmptyText    int
	EmptyLabel   int
	ShortRecords int // rows too short to hold both columns
}

// Dropped returns the number of rows that were not kept.
func (s LoadStats) Dropped() int {
	return s.Rows - s.Kept
}

// A CorpusSource provides the labeled corpus a pipeline is trained on.
type CorpusSource interface {
	Load(ctx context.Context) (Corpus, error)
}

// CSVSource loads a corpus from a CSV file.
type CSVSource struct {
	Path    string
	Options CSVOptions
}

var _ CorpusSource = (*CSVSource)(nil)

// Load implements CorpusSource.
func (s *CSVSource) Load(ctx context.Context) (Corpus, error) {
	if err := ctx.Err(); err != nil {
		return Corpus{}, err
	}
	corpus, _, err := LoadCSV(s.Path, s.Options)
	return corpus, err
}

// LoadCSV reads a corpus from the CSV file at path.
func LoadCSV(path string, opts CSVOptions) (Corpus, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Corpus{}, LoadStats{}, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	corpus, stats, err := ReadCSV(f, opts)
	if err != nil {
		return corpus, stats, fmt.Errorf("%s: %w", path, err)
	}
	return corpus, stats, nil
}

// ReadCSV reads a corpus from r. Columns are located by header name. Rows
// with an empty text or label cell are dropped.
func ReadCSV(r io.Reader, opts CSVOptions) (Corpus, LoadStats, error) {
	if opts.TextColumn == "" {
		opts.TextColumn = DefaultTextColumn
	}
	if opts.LabelColumn == "" {
		opts.LabelColumn = DefaultLabelColumn
	}

	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1

	var stats LoadStats
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Corpus{}, stats, ErrEmptyCorpus
		}
		return Corpus{}, stats, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = CleanCell(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	textIdx, err := columnIndex(header, opts.TextColumn)
	if err != nil {
		return Corpus{}, stats, err
	}
	labelIdx, err := columnIndex(header, opts.LabelColumn)
	if err != nil {
		return Corpus{}, stats, err
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Corpus{}, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}
		stats.Rows++

		if textIdx >= len(row) || labelIdx >= len(row) {
			stats.ShortRecords++
			continue
		}
		text, label := CleanCell(row[textIdx]), CleanCell(row[labelIdx])
		switch {
		case text == "":
			stats.EmptyText++
		case label == "":
			stats.EmptyLabel++
		default:
			records = append(records, Record{Text: text, Label: label})
		}
	}

	stats.Kept = len(records)
	if len(records) == 0 {
		return Corpus{}, stats, ErrEmptyCorpus
	}
	return Corpus{Records: records}, stats, nil
}

// CleanCell applies NFKC normalization, removes control characters and
// collapses runs of whitespace.
func CleanCell(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(h, name) {
			return i, nil
		}
	}
	return -1, NewMissingColumnError(name, header)
}
