package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"telegram-academy-intake/internal/domain/model"
	"telegram-academy-intake/internal/domain/ports/repository"
)

var _ repository.ArchiveRepository = (*PostgresArchiveRepo)(nil)

// PostgresArchiveRepo keeps the local append-only copy of finalized
// registrations. Rows are never updated or deleted.
type PostgresArchiveRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresArchiveRepo(pool *pgxpool.Pool) *PostgresArchiveRepo {
	return &PostgresArchiveRepo{pool: pool}
}

// EnsureSchema creates the archive table when it does not exist yet.
func (r *PostgresArchiveRepo) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS intake_archive (
  id           UUID PRIMARY KEY,
  name         TEXT NOT NULL,
  age          TEXT NOT NULL,
  goal         TEXT NOT NULL,
  country      TEXT NOT NULL,
  gender       TEXT NOT NULL,
  telegram_id  BIGINT NOT NULL,
  username     TEXT NOT NULL DEFAULT '',
  outcome      TEXT NOT NULL,
  completed_at TIMESTAMPTZ NOT NULL
);`
	_, err := r.pool.Exec(ctx, q)
	return err
}

func (r *PostgresArchiveRepo) Save(ctx context.Context, rec *model.Record, outcome string) error {
	const q = `
INSERT INTO intake_archive (
  id, name, age, goal, country, gender, telegram_id, username, outcome, completed_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
);`
	_, err := r.pool.Exec(ctx, q, rec.ID, rec.Name, rec.Age, rec.Goal, rec.Country, string(rec.Gender), rec.TelegramID, rec.Username, outcome, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert intake archive row: %w", err)
	}
	return nil
}

func (r *PostgresArchiveRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM intake_archive;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count intake archive rows: %w", err)
	}
	return n, nil
}
