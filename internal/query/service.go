// Package query provides SQL access to exported report files.
//
// It uses an in-memory DuckDB database reading the parquet files
// produced by the export package.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/contribstream/internal/export"
)

// Service provides query capabilities over an export directory.
type Service struct {
	db  *sql.DB
	dir string

	stats Stats
}

// Stats holds query statistics.
type Stats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// New creates a query service over the given export directory.
// memoryLimit caps DuckDB memory usage; empty means the DuckDB default.
func New(dir, memoryLimit string) (*Service, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if memoryLimit != "" {
		if _, err := db.Exec(fmt.Sprintf("SET memory_limit='%s'", memoryLimit)); err != nil {
			db.Close()
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	return &Service{db: db, dir: dir}, nil
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Stats returns a copy of the query statistics.
func (s *Service) Stats() Stats {
	return s.stats
}

// escapePath embeds a file path in a single-quoted SQL literal.
func escapePath(path string) string {
	return strings.ReplaceAll(path, "'", "''")
}

func (s *Service) runningSource() string {
	return fmt.Sprintf("read_parquet('%s')", escapePath(filepath.Join(s.dir, export.RunningFile)))
}

func (s *Service) aggregateSource() string {
	return fmt.Sprintf("read_parquet('%s')", escapePath(filepath.Join(s.dir, export.AggregateFile)))
}

// AggregatesFor returns the exported aggregate rows for one recipient,
// in export (chronological) order.
func (s *Service) AggregatesFor(ctx context.Context, recipient string) ([]export.AggregateRow, error) {
	q := fmt.Sprintf(
		"SELECT recipient, date, median, count, total FROM %s WHERE recipient = ?",
		s.aggregateSource(),
	)

	rows, err := s.db.QueryContext(ctx, q, recipient)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query aggregates: %w", err)
	}
	defer rows.Close()

	var out []export.AggregateRow
	for rows.Next() {
		var r export.AggregateRow
		if err := rows.Scan(&r.Recipient, &r.Date, &r.Median, &r.Count, &r.Total); err != nil {
			s.stats.Errors++
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("iterate aggregate rows: %w", err)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(out))
	return out, nil
}

// RunningFor returns the exported final running rows for one recipient.
func (s *Service) RunningFor(ctx context.Context, recipient string) ([]export.RunningRow, error) {
	q := fmt.Sprintf(
		"SELECT recipient, zone, median, count, total FROM %s WHERE recipient = ?",
		s.runningSource(),
	)

	rows, err := s.db.QueryContext(ctx, q, recipient)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query running: %w", err)
	}
	defer rows.Close()

	var out []export.RunningRow
	for rows.Next() {
		var r export.RunningRow
		if err := rows.Scan(&r.Recipient, &r.Zone, &r.Median, &r.Count, &r.Total); err != nil {
			s.stats.Errors++
			return nil, fmt.Errorf("scan running row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("iterate running rows: %w", err)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(out))
	return out, nil
}

// ExecuteSQL runs an arbitrary SQL statement against the export files.
// The views `running` and `aggregate` are available to the statement.
func (s *Service) ExecuteSQL(ctx context.Context, query string) ([]map[string]interface{}, error) {
	setup := []string{
		fmt.Sprintf("CREATE OR REPLACE VIEW running AS SELECT * FROM %s", s.runningSource()),
		fmt.Sprintf("CREATE OR REPLACE VIEW aggregate AS SELECT * FROM %s", s.aggregateSource()),
	}
	for _, stmt := range setup {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.stats.Errors++
			return nil, fmt.Errorf("create view: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			s.stats.Errors++
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(out))
	return out, nil
}
