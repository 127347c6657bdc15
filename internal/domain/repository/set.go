package repository

import "context"

// Set agrupa los repositorios atados a una misma conexión o transacción.
type Set struct {
	Users         UserRepository
	Stores        StoreRepository
	Categories    CategoryRepository
	Products      ProductRepository
	Transactions  TransactionRepository
	ProductChecks ProductCheckRepository
	Analytics     AnalyticsRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD con repositorios atados a ella.
// Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Set) error) error
}
