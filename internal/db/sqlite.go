package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thesavant42/dexsome/internal/models"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single writer keeps :memory: databases shared and avoids SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(createRecordsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create records schema: %w", err)
	}

	if _, err := conn.Exec(createPreferencesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create preferences schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// ListProfiles returns the .db files in the given directory
func ListProfiles(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var profiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".db" {
			profiles = append(profiles, name)
		}
	}
	return profiles, nil
}

// SaveRecords archives records, replacing earlier copies
func (db *DB) SaveRecords(ctx context.Context, records []models.FullRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertRecord)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", r.ID, err)
		}

		categories := r.Categories()
		primary, secondary := "", sql.NullString{}
		if len(categories) > 0 {
			primary = categories[0]
		}
		if len(categories) > 1 {
			secondary = sql.NullString{String: categories[1], Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, primary, secondary, r.StatTotal(), string(payload)); err != nil {
			return fmt.Errorf("failed to insert record %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// LoadRecords returns every archived record in ascending id order.
// Rows that no longer decode into a valid record are skipped.
func (db *DB) LoadRecords(ctx context.Context) ([]models.FullRecord, error) {
	rows, err := db.conn.QueryContext(ctx, selectRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return scanRecords(rows)
}

// LoadRecordRange returns archived records with lo <= id <= hi
func (db *DB) LoadRecordRange(ctx context.Context, lo, hi int) ([]models.FullRecord, error) {
	rows, err := db.conn.QueryContext(ctx, selectRecordRange, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.FullRecord, error) {
	defer rows.Close()

	var records []models.FullRecord
	for rows.Next() {
		var id int
		var payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var r models.FullRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			continue
		}
		if r.ID != id || r.Validate() != nil {
			continue
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// RecordCount returns the number of archived records
func (db *DB) RecordCount(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, selectRecordCount).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

// TypeCount is the number of archived records carrying a type in either slot
type TypeCount struct {
	Type  string
	Count int
}

// TypeCounts returns archived type frequencies, most common first
func (db *DB) TypeCounts(ctx context.Context) ([]TypeCount, error) {
	rows, err := db.conn.QueryContext(ctx, selectTypeCounts)
	if err != nil {
		return nil, fmt.Errorf("failed to query type counts: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		counts = append(counts, tc)
	}

	return counts, rows.Err()
}

// ClearRecords empties the archive
func (db *DB) ClearRecords(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, deleteRecords); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
