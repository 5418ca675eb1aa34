package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Preferences is a string key/value store backed by the preferences table.
// It satisfies prefs.Backend.
type Preferences struct {
	db *DB
}

// Preferences returns the preference store of this database
func (db *DB) Preferences() *Preferences {
	return &Preferences{db: db}
}

func (p *Preferences) GetItem(key string) (string, bool, error) {
	var value string
	err := p.db.conn.QueryRow(selectPreference, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Preferences) SetItem(key, value string) error {
	if _, err := p.db.conn.Exec(upsertPreference, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

func (p *Preferences) RemoveItem(key string) error {
	if _, err := p.db.conn.Exec(deletePreference, key); err != nil {
		return fmt.Errorf("failed to remove preference %s: %w", key, err)
	}
	return nil
}
