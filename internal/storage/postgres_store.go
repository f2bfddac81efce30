package storage

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"talentscout/internal/config"
	"talentscout/internal/errors"
	"talentscout/internal/types"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const candidateSchema = `
CREATE TABLE IF NOT EXISTS candidates (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS candidates_email_idx ON candidates (lower(email));
`

// PostgresStore keeps each candidate as a JSONB payload row
type PostgresStore struct {
	pool   *pgxpool.Pool
	now    func() time.Time
	logger *errors.Logger
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects the pool and verifies the connection
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *errors.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid storage.postgres.dsn", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to connect to database", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to ping database", err)
	}

	return &PostgresStore{pool: pool, now: time.Now, logger: logger}, nil
}

// EnsureSchema creates the candidates table when it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, candidateSchema); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to create schema", err)
	}
	return nil
}

// lockCandidates serialises id allocation across concurrent savers. Plain
// reads are not blocked.
const lockCandidates = `LOCK TABLE candidates IN SHARE ROW EXCLUSIVE MODE`

// candidateTx is the part of pgx.Tx used to insert a candidate
type candidateTx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SaveCandidate inserts record using the same id scheme as the JSON store.
// record gets its id and timestamp only after the commit.
func (s *PostgresStore) SaveCandidate(ctx context.Context, record *types.CandidateRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	saved, err := insertCandidate(ctx, tx, *record, s.now())
	if err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to commit candidate", err)
	}

	record.ID, record.CreatedAt = saved.ID, saved.CreatedAt
	s.logger.Debug("Candidate saved", "candidate_id", record.ID, "backend", BackendPostgres)
	return nil
}

// insertCandidate locks the table, numbers record after the current row count
// and inserts it
func insertCandidate(ctx context.Context, tx candidateTx, record types.CandidateRecord, now time.Time) (types.CandidateRecord, error) {
	if _, err := tx.Exec(ctx, lockCandidates); err != nil {
		return record, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to lock candidates", err)
	}

	var count int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM candidates`).Scan(&count); err != nil {
		return record, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to count candidates", err)
	}

	record.CreatedAt = now
	record.ID = NewCandidateID(now, count)

	payload, err := json.Marshal(record)
	if err != nil {
		return record, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to encode candidate", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO candidates (id, created_at, email, payload) VALUES ($1, $2, $3, $4)`,
		record.ID, record.CreatedAt, record.Email, payload,
	); err != nil {
		return record, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to insert candidate", err).
			WithContext("candidate_id", record.ID)
	}
	return record, nil
}

// LoadAll returns records in insertion order
func (s *PostgresStore) LoadAll(ctx context.Context) ([]types.CandidateRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT payload FROM candidates ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to query candidates", err)
	}
	defer rows.Close()

	records := []types.CandidateRecord{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to scan candidate", err)
		}
		var record types.CandidateRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "stored candidate is corrupt", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to read candidates", err)
	}
	return records, nil
}

// GetByID finds a record by candidate id
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*types.CandidateRecord, error) {
	return s.getOne(ctx, `SELECT payload FROM candidates WHERE id = $1`, "id", id)
}

// GetByEmail finds the earliest record with a matching email
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*types.CandidateRecord, error) {
	return s.getOne(ctx,
		`SELECT payload FROM candidates WHERE lower(email) = lower($1) ORDER BY created_at, id LIMIT 1`,
		"email", email)
}

func (s *PostgresStore) getOne(ctx context.Context, query, what, key string) (*types.CandidateRecord, error) {
	var payload []byte
	if err := s.pool.QueryRow(ctx, query, key).Scan(&payload); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(what, key)
		}
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to query candidate", err)
	}
	var record types.CandidateRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "stored candidate is corrupt", err)
	}
	return &record, nil
}

// Statistics summarises the stored records
func (s *PostgresStore) Statistics(ctx context.Context) (Statistics, error) {
	records, err := s.LoadAll(ctx)
	if err != nil {
		return Statistics{}, err
	}
	return ComputeStatistics(records), nil
}

// Clear deletes every candidate row
func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM candidates`); err != nil {
		return errors.NewPersistenceError(errors.ErrCodePersistenceFailed, "failed to clear candidates", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
