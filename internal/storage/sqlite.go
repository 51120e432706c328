package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// TableName is the table holding the loaded rows.
const TableName = "publications"

// RowColumn is the extra column holding each row's 1-based position.
const RowColumn = "_row"

// DB wraps an in-memory SQLite database holding one table of rows.
type DB struct {
	db      *sql.DB
	columns []string
}

// Result holds the rows returned by a query, with columns in select order.
type Result struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// OpenMemory opens an empty in-memory SQLite database.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Columns returns the column names of the loaded table, excluding RowColumn.
// They follow ColumnNames, so they may differ from the loaded header.
func (d *DB) Columns() []string {
	return d.columns
}

// GenerateDDL generates a CREATE TABLE statement with one TEXT column per name.
func GenerateDDL(columns []string) string {
	cols := []string{quoteIdent(RowColumn) + " INTEGER PRIMARY KEY"}
	for _, name := range columns {
		cols = append(cols, quoteIdent(name)+" TEXT")
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quoteIdent(TableName), strings.Join(cols, ",\n  "))
}

// Load replaces the table contents with the given rows.
// Cells are stored as TEXT exactly as given.
func (d *DB) Load(ctx context.Context, header []string, rows [][]string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(TableName)); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	columns := ColumnNames(header)
	if _, err := tx.ExecContext(ctx, GenerateDDL(columns)); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	cols := []string{quoteIdent(RowColumn)}
	placeholders := []string{"?"}
	for _, name := range columns {
		cols = append(cols, quoteIdent(name))
		placeholders = append(placeholders, "?")
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(TableName),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", ")))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		values := make([]any, 0, len(header)+1)
		values = append(values, i+1)
		for j := range header {
			if j < len(row) {
				values = append(values, row[j])
			} else {
				values = append(values, "")
			}
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("inserting row %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rows: %w", err)
	}

	d.columns = columns
	return nil
}

// ColumnNames maps header names to table column names.
// SQLite column names are case-insensitive, so names that collide with an
// earlier column (or RowColumn) get a numeric suffix: "Title", "title_2".
func ColumnNames(header []string) []string {
	taken := map[string]bool{strings.ToLower(RowColumn): true}
	names := make([]string, len(header))
	for i, h := range header {
		name := h
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		candidate := name
		for n := 2; taken[strings.ToLower(candidate)]; n++ {
			candidate = fmt.Sprintf("%s_%d", name, n)
		}
		taken[strings.ToLower(candidate)] = true
		names[i] = candidate
	}
	return names
}

// Count returns the number of rows in the table.
func (d *DB) Count(ctx context.Context) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(TableName)).Scan(&count)
	return count, err
}

// Query executes a SQL statement and returns all rows.
func (d *DB) Query(ctx context.Context, query string) (*Result, error) {
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	return scanResult(rows)
}

func scanResult(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols, Rows: []map[string]any{}}
	for rows.Next() {
		// Create a slice of interface{} to hold the values
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, rows.Err()
}

// quoteIdent quotes a SQLite identifier so that arbitrary header names are safe.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
