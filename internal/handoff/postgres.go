package handoff

import (
	"context"
	"fmt"

	"styleme/internal/domain"
	"styleme/internal/infra"
	"styleme/internal/sqlinline"
)

// PostgresStore keeps records in the handoff_records table.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

// EnsureSchema creates the backing table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QEnsureHandoffTable); err != nil {
		return fmt.Errorf("ensure handoff table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectHandoff, key).Scan(&value); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.sql.Exec(ctx, sqlinline.QUpsertHandoff, key, value)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context, key string) error {
	_, err := s.sql.Exec(ctx, sqlinline.QDeleteHandoff, key)
	return err
}

func (s *PostgresStore) Take(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	if err := s.sql.QueryRow(ctx, sqlinline.QTakeHandoff, key).Scan(&value); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

var _ Store = (*PostgresStore)(nil)
