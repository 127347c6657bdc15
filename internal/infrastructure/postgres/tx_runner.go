package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// Valores por defecto de reintento.
const (
	DefaultTxMaxAttempts = 3
	defaultTxBaseDelay   = 20 * time.Millisecond
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Reintenta la transacción completa ante errores de serialización, deadlock o lock no disponible.
type TxRunner struct {
	pool        *pgxpool.Pool
	log         *logger.Logger
	maxAttempts int
	baseDelay   time.Duration
}

// NewTxRunner construye el runner con el pool. maxAttempts <= 0 usa el valor por defecto.
func NewTxRunner(pool *pgxpool.Pool, log *logger.Logger, maxAttempts int) *TxRunner {
	if maxAttempts <= 0 {
		maxAttempts = DefaultTxMaxAttempts
	}
	return &TxRunner{pool: pool, log: log, maxAttempts: maxAttempts, baseDelay: defaultTxBaseDelay}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Set) error) error {
	return retry(ctx, r.maxAttempts, r.baseDelay, func(attempt int) error {
		err := r.runOnce(ctx, fn)
		if err != nil && isRetryable(err) && attempt < r.maxAttempts {
			metrics.TxRetries.Inc()
			r.log.Warn().Err(err).Int("attempt", attempt).Msg("transacción en conflicto, reintentando")
		}
		return err
	})
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(repos repository.Set) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositorySet(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// retry ejecuta op hasta maxAttempts veces con backoff exponencial mientras el error sea reintentable.
func retry(ctx context.Context, maxAttempts int, base time.Duration, op func(attempt int) error) error {
	var err error
	delay := base
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = op(attempt); err == nil || !isRetryable(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return err
}

// NewRepositorySet construye todos los repositorios sobre el mismo Querier (pool o tx).
func NewRepositorySet(q Querier) repository.Set {
	return repository.Set{
		Users:         NewUserRepository(q),
		Stores:        NewStoreRepository(q),
		Categories:    NewCategoryRepository(q),
		Products:      NewProductRepository(q),
		Transactions:  NewTransactionRepository(q),
		ProductChecks: NewProductCheckRepository(q),
		Analytics:     NewAnalyticsRepository(q),
	}
}
