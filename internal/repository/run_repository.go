// backend-go/internal/repository/run_repository.go
package repository

import (
	"context"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

// RunRepository persists the rolling run history and the static store
// directory. The engine itself never touches it; runs are saved after the
// full result set is materialized.
type RunRepository interface {
	// SaveRun stores the run summary plus its decisions and shortfalls.
	SaveRun(ctx context.Context, run *domain.RunRecord, decisions []domain.AllocationDecision, shortfalls []domain.ShortfallEvent) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error)

	// LoadStoreDirectory reads the seeded store reference tables.
	LoadStoreDirectory(ctx context.Context) (*domain.StoreDirectory, error)
}
