package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-lunch-roulette/internal/types"
)

var _ Store = (*PostgresStore)(nil)

// DBTX is the part of a pgx pool the store needs. pgxmock pools satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists entries in the kv_entries table.
type PostgresStore struct {
	db     DBTX
	logger *slog.Logger
}

func NewPostgresStore(db DBTX, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (Entry, error) {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Get", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.sql.table", "kv_entries"),
	))
	defer span.End()

	var e Entry
	err := s.db.QueryRow(ctx,
		`SELECT value, written_at FROM kv_entries WHERE key = $1`, key,
	).Scan(&e.Value, &e.WrittenAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "Key not found")
			return Entry{}, fmt.Errorf("key %s: %w", key, types.ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to read kv entry", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return Entry{}, fmt.Errorf("database error reading %s: %w", key, err)
	}
	span.SetStatus(codes.Ok, "Entry read")
	return e, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, e Entry) error {
	ctx, span := otel.Tracer("KVStore").Start(ctx, "Set", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPSERT"),
		attribute.String("db.sql.table", "kv_entries"),
	))
	defer span.End()

	_, err := s.db.Exec(ctx, `
		INSERT INTO kv_entries (key, value, written_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, written_at = EXCLUDED.written_at`,
		key, e.Value, e.WrittenAt)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to write kv entry", slog.String("key", key), slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPSERT failed")
		return fmt.Errorf("database error writing %s: %w", key, err)
	}
	span.SetStatus(codes.Ok, "Entry written")
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("database error deleting %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT key FROM kv_entries WHERE starts_with(key, $1)`, prefix)
	if err != nil {
		return nil, fmt.Errorf("database error listing keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}
