// Package analytics reportes de ventas para OWNER y ADMIN.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen de ventas del día y del mes en curso.
type DashboardUseCase struct {
	repos  repository.Set
	policy *authz.Policy
	log    *logger.Logger
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso. Sólo lee: no usa el TxRunner.
func NewDashboardUseCase(d usecase.Deps) *DashboardUseCase {
	uc := &DashboardUseCase{repos: d.Repos, policy: d.Policy, log: d.Log, now: time.Now}
	if uc.policy == nil {
		uc.policy = authz.NewPolicy()
	}
	if uc.log == nil {
		uc.log = logger.Nop()
	}
	uc.log = uc.log.Named("dashboard")
	return uc
}

// GetSummary resumen del tenant del actor; con storeID se limita a esa tienda.
//
// Tres consultas en paralelo:
//  1. SalesMetrics(hoy)
//  2. SalesMetrics(mes)
//  3. TopProducts(mes, top 5)
func (uc *DashboardUseCase) GetSummary(ctx context.Context, actor entity.Actor, storeID string) (*dto.DashboardSummary, error) {
	if err := uc.policy.Authorize(actor, authz.ActionRead, authz.ResourceReport); err != nil {
		return nil, err
	}
	tenant, err := reportScope(ctx, uc.repos, uc.policy, actor, storeID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	// ── Rangos de fecha: [inicio, fin) ─────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type topResult struct {
		list []repository.ProductSales
		err  error
	}
	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		m, err := uc.repos.Analytics.SalesMetrics(ctx, tenant, storeID, todayStart, todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.repos.Analytics.SalesMetrics(ctx, tenant, storeID, monthStart, todayEnd)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		list, err := uc.repos.Analytics.TopProducts(ctx, tenant, storeID, monthStart, todayEnd, dashboardTopProducts)
		topCh <- topResult{list, err}
	}()

	low, lowErr := uc.repos.Products.ListLowStock(ctx, tenant)
	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: métricas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: métricas del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top productos: %w", top.err)
	}
	if lowErr != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", lowErr)
	}

	lowCount := 0
	for _, p := range low {
		if storeID == "" || p.StoreID == storeID {
			lowCount++
		}
	}
	tops := make([]dto.TopProductDTO, 0, len(top.list))
	for _, ps := range top.list {
		tops = append(tops, dto.TopProductDTO{
			ProductID: ps.ProductID,
			SKU:       ps.SKU,
			Name:      ps.Name,
			UnitsSold: ps.UnitsSold,
			Revenue:   ps.Revenue.Round(2),
			MarginPct: marginPct(ps.Revenue, ps.Cost),
		})
	}

	uc.log.Debug().Str("user_id", actor.ID).Str("owner_id", tenant).Str("store_id", storeID).Msg("dashboard generado")
	return &dto.DashboardSummary{
		StoreID:           storeID,
		TodaySales:        today.m.Revenue.Round(2),
		TodayMargin:       today.m.Revenue.Sub(today.m.Cost).Round(2),
		TodayTransactions: today.m.Transactions,
		MonthlySales:      month.m.Revenue.Round(2),
		MonthlyMargin:     month.m.Revenue.Sub(month.m.Cost).Round(2),
		MonthTransactions: month.m.Transactions,
		TopProducts:       tops,
		LowStockCount:     lowCount,
		DateLabel:         monthLabel(now),
	}, nil
}

// reportScope tenant del actor; con storeID comprueba que la tienda exista (404) y sea suya (403).
func reportScope(ctx context.Context, repos repository.Set, policy *authz.Policy, actor entity.Actor, storeID string) (string, error) {
	tenant := actor.TenantID()
	if tenant == "" {
		return "", domain.NewAuthorizationError("You do not have access to this tenant")
	}
	if storeID == "" {
		return tenant, nil
	}
	s, err := repos.Stores.FindByID(ctx, storeID)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", domain.NewNotFoundError("Store")
	}
	if err := policy.CheckOwnership(actor, authz.ActionRead, authz.ResourceStore, s.OwnerID); err != nil {
		return "", err
	}
	return tenant, nil
}

// marginPct (ingreso - costo) / ingreso × 100; cero si no hubo ingreso.
func marginPct(revenue, cost decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
