// backend-go/internal/repository/postgres/run_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

type runRepository struct {
	db *DB
}

// NewRunRepository creates the postgres-backed run history store.
func NewRunRepository(db *DB) *runRepository {
	return &runRepository{db: db}
}

func (r *runRepository) SaveRun(ctx context.Context, run *domain.RunRecord, decisions []domain.AllocationDecision, shortfalls []domain.ShortfallEvent) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO runs (
				sequence, products_processed, products_with_orders,
				halloween_excluded, navidad_excluded, clinic_only_limited,
				total_excluded, total_units, zip_path, log_path,
				started_at, completed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, query,
			run.Sequence,
			run.Stats.ProductsProcessed,
			run.Stats.ProductsWithOrders,
			run.Stats.HalloweenExcluded,
			run.Stats.NavidadExcluded,
			run.Stats.ClinicOnlyLimited,
			run.Stats.TotalExcluded,
			run.Stats.TotalUnits,
			run.ZipPath,
			run.LogPath,
			run.StartedAt,
			run.CompletedAt,
		).Scan(&run.ID)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		decStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_decisions (
				run_id, store, barcode, internal_ref, product,
				category, product_type, quantity, reason, short_supplied
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`)
		if err != nil {
			return fmt.Errorf("prepare decision insert: %w", err)
		}
		defer decStmt.Close()

		for _, d := range decisions {
			if _, err := decStmt.ExecContext(ctx,
				run.ID, d.Store, d.Barcode, d.InternalRef, d.Product,
				d.Category, d.Type, d.Quantity, d.Reason, d.ShortSupplied,
			); err != nil {
				return fmt.Errorf("insert decision: %w", err)
			}
		}

		sfStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_shortfalls (
				run_id, store, product, category, requested, delivered
			) VALUES ($1, $2, $3, $4, $5, $6)
		`)
		if err != nil {
			return fmt.Errorf("prepare shortfall insert: %w", err)
		}
		defer sfStmt.Close()

		for _, s := range shortfalls {
			if _, err := sfStmt.ExecContext(ctx,
				run.ID, s.Store, s.Product, s.Category, s.Requested, s.Delivered,
			); err != nil {
				return fmt.Errorf("insert shortfall: %w", err)
			}
		}

		return nil
	})
}

func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, sequence, products_processed, products_with_orders,
		       halloween_excluded, navidad_excluded, clinic_only_limited,
		       total_excluded, total_units, zip_path, log_path,
		       started_at, completed_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.RunRecord
	for rows.Next() {
		run := &domain.RunRecord{}
		if err := rows.Scan(
			&run.ID, &run.Sequence,
			&run.Stats.ProductsProcessed, &run.Stats.ProductsWithOrders,
			&run.Stats.HalloweenExcluded, &run.Stats.NavidadExcluded,
			&run.Stats.ClinicOnlyLimited, &run.Stats.TotalExcluded,
			&run.Stats.TotalUnits, &run.ZipPath, &run.LogPath,
			&run.StartedAt, &run.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *runRepository) LoadStoreDirectory(ctx context.Context) (*domain.StoreDirectory, error) {
	query := `SELECT name, route, class, has_clinic FROM stores`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query stores: %w", err)
	}
	defer rows.Close()

	var infos []domain.StoreInfo
	for rows.Next() {
		var info domain.StoreInfo
		if err := rows.Scan(&info.Name, &info.Route, &info.Class, &info.HasClinic); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("store directory is empty")
	}

	return domain.NewStoreDirectory(infos), nil
}
