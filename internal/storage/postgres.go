package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"port-customs-clearance/internal/domain"
)

// PostgresCargoStore persists cargo document aggregates as one row per cargo
// item. The document map is a jsonb column; a version column gives the
// compare-and-set semantics the orchestrator's read-modify-write depends on.
type PostgresCargoStore struct {
	db *sql.DB
}

func NewPostgresCargoStore(dsn string) (*PostgresCargoStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return &PostgresCargoStore{db: db}, nil
}

func (s *PostgresCargoStore) Close() error {
	return s.db.Close()
}

func (s *PostgresCargoStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresCargoStore) CreateCargoDocumentState(ctx context.Context, state domain.CargoDocumentState) error {
	statuses, err := json.Marshal(state.DocumentStatus)
	if err != nil {
		return fmt.Errorf("encode document status: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cargo_documents (booking_id, cargo_id, hs_code, category, phase, document_status, is_customs_cleared, version)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, 1)
		ON CONFLICT (booking_id, cargo_id) DO NOTHING
	`, state.BookingID, state.CargoID, state.HSCode, state.CategoryName, state.Phase, string(statuses), state.IsCustomsCleared)
	return err
}

func (s *PostgresCargoStore) GetCargoDocumentState(ctx context.Context, bookingID, cargoID string) (domain.CargoDocumentState, error) {
	var state domain.CargoDocumentState
	var statuses []byte
	row := s.db.QueryRowContext(ctx, `
		SELECT booking_id, cargo_id, hs_code, category, phase, document_status, is_customs_cleared, version
		FROM cargo_documents
		WHERE booking_id = $1 AND cargo_id = $2
	`, bookingID, cargoID)
	if err := row.Scan(
		&state.BookingID,
		&state.CargoID,
		&state.HSCode,
		&state.CategoryName,
		&state.Phase,
		&statuses,
		&state.IsCustomsCleared,
		&state.Version,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CargoDocumentState{}, domain.NewNotFoundError("cargo", bookingID+"/"+cargoID)
		}
		return domain.CargoDocumentState{}, err
	}
	if err := json.Unmarshal(statuses, &state.DocumentStatus); err != nil {
		return domain.CargoDocumentState{}, fmt.Errorf("decode document status: %w", err)
	}
	return state, nil
}

// SaveCargoDocumentState writes the aggregate back, guarded by the version
// read earlier. A zero-row update against an existing row means another
// writer got there first; that surfaces as domain.ErrConflict so the
// orchestrator can retry against a fresh read.
func (s *PostgresCargoStore) SaveCargoDocumentState(ctx context.Context, state domain.CargoDocumentState) error {
	statuses, err := json.Marshal(state.DocumentStatus)
	if err != nil {
		return fmt.Errorf("encode document status: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE cargo_documents
		SET phase = $3,
		    document_status = $4::jsonb,
		    is_customs_cleared = $5,
		    version = version + 1,
		    updated_at = NOW()
		WHERE booking_id = $1 AND cargo_id = $2 AND version = $6
	`, state.BookingID, state.CargoID, state.Phase, string(statuses), state.IsCustomsCleared, state.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM cargo_documents WHERE booking_id = $1 AND cargo_id = $2)
		`, state.BookingID, state.CargoID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.NewNotFoundError("cargo", state.BookingID+"/"+state.CargoID)
		}
		return domain.ErrConflict
	}
	return nil
}

func (s *PostgresCargoStore) CountCargoItems(ctx context.Context) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cargo_documents`)
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count cargo items: %w", err)
	}
	return count, nil
}
