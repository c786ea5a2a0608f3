// Package store persists the command history in Postgres. It is optional:
// when no DSN is configured the assistant runs with the file log alone.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"jarvis/internal/domain"
)

type Store struct {
	pool     *pgxpool.Pool
	deviceID string
}

// Record is one persisted command.
type Record struct {
	CommandID string    `json:"command_id"`
	DeviceID  string    `json:"device_id"`
	Mode      string    `json:"mode"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func New(ctx context.Context, dsn, deviceID string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if deviceID == "" {
		deviceID = "jarvis_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	}
	return &Store{pool: pool, deviceID: deviceID}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS command_log (
			command_id TEXT PRIMARY KEY,
			device_id TEXT NOT NULL,
			mode TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_command_log_device_created ON command_log(device_id, created_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LogCommand(ctx context.Context, text string, mode domain.Mode) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO command_log(command_id, device_id, mode, text)
		VALUES ($1, $2, $3, $4)
	`, "cmd_"+strings.ReplaceAll(uuid.NewString(), "-", ""), s.deviceID, string(mode), text)
	return err
}

// Recent returns up to limit commands for this device, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT command_id, device_id, mode, text, created_at
		FROM (
			SELECT command_id, device_id, mode, text, created_at
			FROM command_log
			WHERE device_id=$1
			ORDER BY created_at DESC
			LIMIT $2
		) t
		ORDER BY created_at ASC
	`, s.deviceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, limit)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.CommandID, &rec.DeviceID, &rec.Mode, &rec.Text, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
