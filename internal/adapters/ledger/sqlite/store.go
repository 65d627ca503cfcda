// Package sqlite provides a SQLite-backed reveal ledger.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/lazzyms/scratch-reveal-deals/internal/adapters/ledger/sqlite/migrations"
	"github.com/lazzyms/scratch-reveal-deals/internal/domain"
	"github.com/lazzyms/scratch-reveal-deals/internal/ports"
)

// ErrAlreadyRecorded is returned when a card's reveal was already written.
var ErrAlreadyRecorded = errors.New("reveal already recorded")

// Store persists reveal records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ ports.RevealLedger = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite ledger and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordReveal inserts one reveal record.
func (s *Store) RecordReveal(ctx context.Context, r domain.Reveal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	cardID := strings.TrimSpace(r.CardID)
	if cardID == "" {
		return fmt.Errorf("card id is required")
	}
	revealedAt := r.RevealedAt
	if revealedAt.IsZero() {
		revealedAt = time.Now()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO reveals (card_id, label, description, is_lucky, revealed_at)
		 VALUES (?, ?, ?, ?, ?)`,
		cardID,
		r.Label,
		r.Description,
		r.IsLucky,
		toMillis(revealedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyRecorded
		}
		return fmt.Errorf("insert reveal: %w", err)
	}
	return nil
}

// RecentReveals returns up to limit reveals, newest first.
func (s *Store) RecentReveals(ctx context.Context, limit int) ([]domain.Reveal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT card_id, label, description, is_lucky, revealed_at
		 FROM reveals
		 ORDER BY revealed_at DESC, card_id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reveals: %w", err)
	}
	defer rows.Close()

	var out []domain.Reveal
	for rows.Next() {
		var (
			r      domain.Reveal
			millis int64
		)
		if err := rows.Scan(&r.CardID, &r.Label, &r.Description, &r.IsLucky, &millis); err != nil {
			return nil, fmt.Errorf("scan reveal: %w", err)
		}
		r.RevealedAt = fromMillis(millis)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reveals: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
