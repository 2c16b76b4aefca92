package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"golfbot/internal/participant/models"
	"golfbot/internal/sentinel"
	id "golfbot/pkg/domain"
)

// PostgresStore persists participants as JSONB documents in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed participant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts the participant and copies the generated ID back onto p.
func (s *PostgresStore) Create(ctx context.Context, p *models.Participant) error {
	if p == nil {
		return fmt.Errorf("participant is required")
	}
	doc, err := encodeDocument(p)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO participants (doc)
		VALUES ($1::jsonb)
		RETURNING id
	`
	var generated uuid.UUID
	if err := s.db.QueryRowContext(ctx, query, string(doc)).Scan(&generated); err != nil {
		return classify("create participant", err)
	}
	p.ID = id.ParticipantID(generated)
	return nil
}

// FindAll returns every participant in insertion order.
func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.Participant, error) {
	query := `
		SELECT id, doc
		FROM participants
		ORDER BY seq
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, classify("list participants", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate participants", err)
	}
	return participants, nil
}

// FindByID retrieves a participant by its UUID.
func (s *PostgresStore) FindByID(ctx context.Context, participantID id.ParticipantID) (*models.Participant, error) {
	query := `
		SELECT id, doc
		FROM participants
		WHERE id = $1
	`
	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, uuid.UUID(participantID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, classify("find participant by id", err)
	}
	return p, nil
}

// UpdateByID merges the patch into the stored document with the jsonb
// concatenation operator, so keys absent from the patch are preserved.
func (s *PostgresStore) UpdateByID(ctx context.Context, participantID id.ParticipantID, patch models.Patch) (*models.Participant, error) {
	doc, err := encodePatch(patch)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE participants
		SET doc = doc || $2::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING id, doc
	`
	p, err := scanParticipant(s.db.QueryRowContext(ctx, query, uuid.UUID(participantID), string(doc)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, classify("update participant", err)
	}
	return p, nil
}

// DeleteByID removes the participant. Zero affected rows is not an error.
func (s *PostgresStore) DeleteByID(ctx context.Context, participantID id.ParticipantID) error {
	query := `DELETE FROM participants WHERE id = $1`
	if _, err := s.db.ExecContext(ctx, query, uuid.UUID(participantID)); err != nil {
		return classify("delete participant", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

type participantRow interface {
	Scan(dest ...any) error
}

func scanParticipant(row participantRow) (*models.Participant, error) {
	var (
		participantID uuid.UUID
		doc           []byte
	)
	if err := row.Scan(&participantID, &doc); err != nil {
		return nil, err
	}
	return decodeDocument(id.ParticipantID(participantID), doc)
}

// classify marks connection-level failures as unavailable so callers can
// tell an outage apart from a bad statement.
func classify(op string, err error) error {
	if isConnectionFailure(err) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectionFailure(err error) bool {
	if errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P0x: operator intervention.
		return len(pgErr.Code) == 5 && (pgErr.Code[:2] == "08" || pgErr.Code[:4] == "57P0")
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
