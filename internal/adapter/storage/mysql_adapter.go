package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/stockroom/internal/core/domain"
)

const createStateTable = `
CREATE TABLE IF NOT EXISTS app_state (
	state_key  VARCHAR(191) NOT NULL PRIMARY KEY,
	payload    LONGTEXT     NOT NULL,
	version    INT          NOT NULL DEFAULT 1,
	updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// MySQLAdapter keeps the snapshot as one row of app_state.
type MySQLAdapter struct {
	db  *sql.DB
	key string
}

func NewMySQLAdapter(db *sql.DB, key string) *MySQLAdapter {
	return &MySQLAdapter{db: db, key: key}
}

func (m *MySQLAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, createStateTable); err != nil {
		return fmt.Errorf("create app_state: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) LoadState(ctx context.Context) (*domain.Snapshot, error) {
	var payload []byte
	err := m.db.QueryRowContext(ctx, `
		SELECT payload FROM app_state WHERE state_key = ?`, m.key,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query app_state: %w", err)
	}
	return decodeSnapshot(payload)
}

func (m *MySQLAdapter) SaveState(ctx context.Context, snapshot domain.Snapshot) error {
	data, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	_, err = m.db.ExecContext(ctx, `
		INSERT INTO app_state (state_key, payload, version)
		VALUES (?, ?, 1)
		ON DUPLICATE KEY UPDATE payload = VALUES(payload), version = version + 1`,
		m.key, data,
	)
	if err != nil {
		return fmt.Errorf("upsert app_state: %w", err)
	}
	return nil
}

// Version returns the save counter of the row, 0 if it does not exist.
func (m *MySQLAdapter) Version(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, `
		SELECT version FROM app_state WHERE state_key = ?`, m.key,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query app_state version: %w", err)
	}
	return version, nil
}
