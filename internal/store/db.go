package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/tsawler/complaints/internal/logger"
)

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens a libsql database file, creating its directory. ":memory:"
// opens a private in-memory database.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if !strings.HasPrefix(path, "file:") {
			dsn = "file:" + path
		}
	}
	logger.Debug("dbPath: %s", dsn)

	db, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates table with the default corpus columns if it does not exist.
func Migrate(db *sql.DB, table string) error {
	return NewSQLSource(db, table).Migrate()
}

func migrate(db *sql.DB, table, textColumn, labelColumn string) error {
	for _, ident := range []string{table, textColumn, labelColumn} {
		if err := ValidateIdentifier(ident); err != nil {
			return err
		}
	}
	schema := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL,
			imported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`, table, textColumn, labelColumn),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_%s_idx ON %s(%s);`, table, labelColumn, table, labelColumn),
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration statement: %w", err)
		}
	}
	return nil
}

// ValidateIdentifier rejects table and column names that would need quoting.
func ValidateIdentifier(name string) error {
	if !identRE.MatchString(name) {
		return fmt.Errorf("invalid SQL identifier %q", name)
	}
	return nil
}
