package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/NastyaGoryachaya/crypto-compare-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogRepo — снапшот каталога монет, переживающий перезапуск процесса.
// Это единственное состояние между запусками; его свежесть ограничена TTL каталога.
type CatalogRepo struct {
	db *pgxpool.Pool
}

// NewCatalogRepository - Создаёт репозиторий каталога на основе пула соединений.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Migrate создаёт таблицу снапшота, если её нет.
func (r *CatalogRepo) Migrate(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS catalog_snapshot (
			display_name TEXT PRIMARY KEY,
			coin_id      TEXT NOT NULL,
			fetched_at   TIMESTAMPTZ NOT NULL
		)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("migrate catalog_snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot - Вернуть снапшот, если он не старше maxAge на момент now.
func (r *CatalogRepo) LoadSnapshot(ctx context.Context, now time.Time, maxAge time.Duration) (map[string]string, error) {
	const query = `
		SELECT display_name, coin_id
		FROM catalog_snapshot
		WHERE fetched_at >= $1
	`
	rows, err := r.db.Query(ctx, query, now.Add(-maxAge))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, id string
		if err := rows.Scan(&name, &id); err != nil {
			return nil, err
		}
		out[name] = id
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	if len(out) == 0 {
		return nil, repository.ErrNotFound
	}
	return out, nil
}

// SaveSnapshot - Атомарно заменить снапшот целиком.
func (r *CatalogRepo) SaveSnapshot(ctx context.Context, ids map[string]string, at time.Time) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_snapshot`); err != nil {
			return err
		}
		rows := make([][]any, 0, len(ids))
		for name, id := range ids {
			rows = append(rows, []any{name, id, at})
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"catalog_snapshot"},
			[]string{"display_name", "coin_id", "fetched_at"},
			pgx.CopyFromRows(rows),
		)
		return err
	})
}
