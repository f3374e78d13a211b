package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AuditRecord is one row of the ride event audit trail
type AuditRecord struct {
	EventID             string
	EventType           string
	RideID              int
	DriverAlias         string
	ParticipantAlias    string
	RideStatus          string
	ParticipationStatus string
	OccurredAt          time.Time
}

const createAuditTable = `
	CREATE TABLE IF NOT EXISTS ride_events (
		event_id             UUID PRIMARY KEY,
		event_type           TEXT NOT NULL,
		ride_id              INTEGER,
		driver_alias         TEXT,
		participant_alias    TEXT,
		ride_status          TEXT,
		participation_status TEXT,
		occurred_at          TIMESTAMPTZ NOT NULL,
		recorded_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

const insertAuditRecord = `
	INSERT INTO ride_events (
		event_id, event_type, ride_id, driver_alias, participant_alias,
		ride_status, participation_status, occurred_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (event_id) DO NOTHING
`

// AuditLog appends ride lifecycle events to Postgres. It is write-only:
// nothing in the service reads the trail back.
type AuditLog struct {
	db *sql.DB
}

// NewAuditLog creates the table if needed and returns the log
func NewAuditLog(ctx context.Context, db *sql.DB) (*AuditLog, error) {
	if _, err := db.ExecContext(ctx, createAuditTable); err != nil {
		return nil, fmt.Errorf("failed to create ride_events table: %w", err)
	}
	return &AuditLog{db: db}, nil
}

// Append inserts one record; replays of the same event id are ignored
func (a *AuditLog) Append(ctx context.Context, rec AuditRecord) error {
	_, err := a.db.ExecContext(ctx, insertAuditRecord,
		rec.EventID, rec.EventType, nullInt(rec.RideID), nullString(rec.DriverAlias),
		nullString(rec.ParticipantAlias), nullString(rec.RideStatus),
		nullString(rec.ParticipationStatus), rec.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit record: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v != 0}
}
