package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	salesHistoryDays  = 90
	salesHistoryLimit = 500
	idealStockFactor  = 1.5 // stock ideal = mínimo × 1.5
)

// ReplenishmentUseCase genera la lista de reposición del tenant.
// Combina el stock bajo con el historial de ventas para priorizar los SKUs críticos.
type ReplenishmentUseCase struct {
	repos  repository.Set
	policy *authz.Policy
	log    *logger.Logger
	now    func() time.Time
}

func NewReplenishmentUseCase(d usecase.Deps) *ReplenishmentUseCase {
	uc := &ReplenishmentUseCase{repos: d.Repos, policy: d.Policy, log: d.Log, now: time.Now}
	if uc.policy == nil {
		uc.policy = authz.NewPolicy()
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Named("replenishment")
	return uc
}

// Generate productos en o bajo el stock mínimo con la cantidad sugerida de pedido.
// storeID vacío considera todas las tiendas del tenant.
//
// Orden: mayor margen histórico, luego más unidades vendidas, luego mayor déficit.
func (uc *ReplenishmentUseCase) Generate(ctx context.Context, actor entity.Actor, storeID string) ([]dto.ReplenishmentSuggestion, error) {
	if err := uc.policy.Authorize(actor, authz.ActionRead, authz.ResourceReport); err != nil {
		return nil, err
	}
	tenant, err := reportScope(ctx, uc.repos, uc.policy, actor, storeID)
	if err != nil {
		return nil, err
	}

	// 1. Productos bajo el mínimo
	low, err := uc.repos.Products.ListLowStock(ctx, tenant)
	if err != nil {
		return nil, err
	}
	items := make([]*entity.Product, 0, len(low))
	for _, p := range low {
		if storeID == "" || p.StoreID == storeID {
			items = append(items, p)
		}
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestion{}, nil
	}

	// 2. Historial de ventas de los últimos 90 días
	end := uc.now()
	start := end.AddDate(0, 0, -salesHistoryDays)
	history, err := uc.repos.Analytics.TopProducts(ctx, tenant, storeID, start, end, salesHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("reposición: historial de ventas: %w", err)
	}
	salesByID := make(map[string]repository.ProductSales, len(history))
	for _, h := range history {
		salesByID[h.ProductID] = h
	}

	// 3. Sugerencias
	out := make([]dto.ReplenishmentSuggestion, 0, len(items))
	for _, p := range items {
		ideal := idealStock(p.MinStock)
		suggested := ideal - p.Quantity
		if suggested < 0 {
			suggested = 0
		}
		s := dto.ReplenishmentSuggestion{
			ProductID:         p.ID,
			StoreID:           p.StoreID,
			SKU:               p.SKU,
			Name:              p.Name,
			Quantity:          p.Quantity,
			MinStock:          p.MinStock,
			IdealStock:        ideal,
			SuggestedQuantity: suggested,
			UnitCost:          p.Cost,
			EstimatedCost:     p.Cost.Mul(decimal.NewFromInt(int64(suggested))).Round(2),
		}
		if h, ok := salesByID[p.ID]; ok {
			s.UnitsSold90Days = h.UnitsSold
			s.MarginPct = marginPct(h.Revenue, h.Cost)
		} else {
			// Sin ventas: margen estimado por precio y costo.
			s.MarginPct = marginPct(p.Price, p.Cost)
		}
		out = append(out, s)
	}

	// 4. Prioridad
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.MarginPct.Equal(b.MarginPct) {
			return a.MarginPct.GreaterThan(b.MarginPct)
		}
		if a.UnitsSold90Days != b.UnitsSold90Days {
			return a.UnitsSold90Days > b.UnitsSold90Days
		}
		return a.MinStock-a.Quantity > b.MinStock-b.Quantity
	})
	for i := range out {
		out[i].Priority = i + 1
	}

	uc.log.Debug().Str("user_id", actor.ID).Str("owner_id", tenant).Int("items", len(out)).Msg("lista de reposición generada")
	return out, nil
}

// idealStock mínimo × 1.5 redondeado hacia arriba; nunca menos de 1.
func idealStock(minStock int) int {
	ideal := decimal.NewFromInt(int64(minStock)).Mul(decimal.NewFromFloat(idealStockFactor)).Ceil().IntPart()
	if ideal < 1 {
		return 1
	}
	return int(ideal)
}
