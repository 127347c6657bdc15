package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func intPtr(n int) *int { return &n }

func TestProductCheckUseCase_Create(t *testing.T) {
	mem := newMemStore()
	seedCatalog(mem)
	uc := NewProductCheckUseCase(mem.deps())
	ctx := context.Background()

	// Caso 1: conteo con faltante.
	c, err := uc.Create(ctx, admin1, dto.CreateProductCheckRequest{ProductID: "p1", ActualQuantity: intPtr(8)})
	require.NoError(t, err)
	assert.Equal(t, 10, c.ExpectedQuantity)
	assert.Equal(t, 8, c.ActualQuantity)
	assert.Equal(t, -2, c.Discrepancy)
	assert.Equal(t, entity.CheckDiscrepancy, c.Status)
	assert.Equal(t, "st1", c.StoreID)
	assert.Equal(t, "a1", c.CheckedBy)

	// Caso 2: conteo que cuadra.
	c, err = uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p1", ActualQuantity: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckVerified, c.Status)

	// Caso 3: sin cantidad queda pendiente.
	c, err = uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckPending, c.Status)
}

func TestProductCheckUseCase_Create_Rechazos(t *testing.T) {
	mem := newMemStore()
	seedCatalog(mem)
	uc := NewProductCheckUseCase(mem.deps())
	ctx := context.Background()

	_, err := uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p9", ActualQuantity: intPtr(1)})
	assert.Equal(t, domain.CodeAuthorization, appErr(t, err).Code)

	_, err = uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "nope"})
	assert.Equal(t, domain.CodeNotFound, appErr(t, err).Code)

	_, err = uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p1", ActualQuantity: intPtr(-1)})
	assert.Equal(t, domain.CodeValidation, appErr(t, err).Code)

	_, err = uc.Create(ctx, staff1, dto.CreateProductCheckRequest{ProductID: "p1"})
	assert.Equal(t, domain.CodeAuthorization, appErr(t, err).Code)
}

func TestProductCheckUseCase_UpdateYListado(t *testing.T) {
	mem := newMemStore()
	seedCatalog(mem)
	uc := NewProductCheckUseCase(mem.deps())
	ctx := context.Background()

	pending, err := uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p2", ActualQuantity: intPtr(1)})
	require.NoError(t, err)

	got, err := uc.Update(ctx, admin1, pending.ID, dto.UpdateProductCheckRequest{ActualQuantity: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, entity.CheckVerified, got.Status)
	assert.Equal(t, 0, got.Discrepancy)
	assert.Equal(t, "a1", got.CheckedBy)

	page, err := uc.List(ctx, cashier1, dto.ListQuery{}, dto.ProductCheckFilter{Status: entity.CheckDiscrepancy})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "p2", page.Data[0].ProductID)

	history, err := uc.History(ctx, staff1, "p1")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = uc.History(ctx, owner2, "p1")
	assert.Equal(t, domain.CodeAuthorization, appErr(t, err).Code)
}

func TestProductCheckUseCase_DeleteSoloOwner(t *testing.T) {
	mem := newMemStore()
	seedCatalog(mem)
	uc := NewProductCheckUseCase(mem.deps())
	ctx := context.Background()

	c, err := uc.Create(ctx, owner1, dto.CreateProductCheckRequest{ProductID: "p1"})
	require.NoError(t, err)

	err = uc.Delete(ctx, admin1, c.ID)
	assert.Equal(t, "Admin users cannot delete product checks", appErr(t, err).Message)

	require.NoError(t, uc.Delete(ctx, owner1, c.ID))
	_, err = uc.GetByID(ctx, owner1, c.ID)
	assert.Equal(t, domain.CodeNotFound, appErr(t, err).Code)
}
