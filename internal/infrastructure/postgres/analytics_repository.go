package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura sobre las ventas. Los ítems viven en transactions.items
// (JSONB) y se expanden con jsonb_to_recordset.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// completedSales FROM/WHERE común: ventas COMPLETED no eliminadas del tenant en [$3, $4).
// $2 vacío no filtra por tienda.
const completedSales = `
	FROM transactions t
	CROSS JOIN LATERAL jsonb_to_recordset(t.items)
	    AS it("productId" TEXT, name TEXT, quantity INT, subtotal NUMERIC)
	LEFT JOIN products p ON p.id = it."productId"
	WHERE t.owner_id = $1
	  AND ($2::TEXT = '' OR t.store_id = $2)
	  AND t.type = 'SALE'
	  AND t.status = 'COMPLETED'
	  AND t.deleted_at IS NULL
	  AND t.created_at >= $3 AND t.created_at < $4`

// SalesMetrics ingresos y COGS del período. COALESCE devuelve cero si no hubo ventas.
func (r *AnalyticsRepo) SalesMetrics(ctx context.Context, ownerID, storeID string, from, to time.Time) (repository.SalesMetrics, error) {
	defer metrics.ObserveQuery("transactions", "sales_metrics")()

	query := `
	SELECT
	    COUNT(DISTINCT t.id)                       AS transactions,
	    COALESCE(SUM(it.quantity), 0)              AS units_sold,
	    COALESCE(SUM(it.subtotal), 0)              AS revenue,
	    COALESCE(SUM(it.quantity * p.cost), 0)     AS cost` + completedSales

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, ownerID, storeID, from, to).
		Scan(&m.Transactions, &m.UnitsSold, &m.Revenue, &m.Cost)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("analytics.SalesMetrics: %w", err)
	}
	return m, nil
}

// TopProducts productos ordenados por ingreso descendente. Un producto ya borrado conserva
// el nombre guardado en el ítem.
func (r *AnalyticsRepo) TopProducts(ctx context.Context, ownerID, storeID string, from, to time.Time, limit int) ([]repository.ProductSales, error) {
	defer metrics.ObserveQuery("transactions", "top_products")()

	query := `
	SELECT
	    it."productId"                             AS product_id,
	    COALESCE(p.sku, '')                        AS sku,
	    COALESCE(p.name, MAX(it.name), '')         AS name,
	    COALESCE(SUM(it.quantity), 0)              AS units_sold,
	    COALESCE(SUM(it.subtotal), 0)              AS revenue,
	    COALESCE(SUM(it.quantity * p.cost), 0)     AS cost` + completedSales + `
	GROUP BY it."productId", p.sku, p.name
	ORDER BY revenue DESC, units_sold DESC
	LIMIT $5`

	rows, err := r.q.Query(ctx, query, ownerID, storeID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.TopProducts: %w", err)
	}
	defer rows.Close()

	out := make([]repository.ProductSales, 0, limit)
	for rows.Next() {
		var ps repository.ProductSales
		if err := rows.Scan(&ps.ProductID, &ps.SKU, &ps.Name, &ps.UnitsSold, &ps.Revenue, &ps.Cost); err != nil {
			return nil, fmt.Errorf("analytics.TopProducts scan: %w", err)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}
