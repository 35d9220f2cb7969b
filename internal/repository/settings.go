package repository

import (
	"database/sql"
	"encoding/json"
)

// SettingsRepo stores JSON-encoded values by key.
type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get decodes the value stored under key into dest. It reports false when the
// key has never been set.
func (r *SettingsRepo) Get(key string, dest interface{}) (bool, error) {
	var raw string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *SettingsRepo) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	_, err = r.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, string(raw))
	return err
}
