package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func appErr(t *testing.T, err error) *domain.AppError {
	t.Helper()
	require.Error(t, err)
	ae, ok := domain.AsAppError(err)
	require.True(t, ok, "se esperaba AppError, llegó %T: %v", err, err)
	return ae
}

// Caso 1: OWNER crea "Main"; un ADMIN del mismo tenant no puede crear "main" (409).
func TestStoreUseCase_Create_NombreDuplicadoEnTenant(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	uc := NewStoreUseCase(mem.deps())

	first, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "  Main  "})
	require.NoError(t, err)
	assert.Equal(t, "o1", first.OwnerID)
	assert.Equal(t, "Main", first.Name)
	assert.True(t, first.IsActive)

	_, err = uc.Create(ctx, admin1, dto.CreateStoreRequest{Name: "MAIN"})
	ae := appErr(t, err)
	assert.Equal(t, domain.CodeConflict, ae.Code)
	assert.Equal(t, 409, ae.StatusCode)
}

// Caso 2: el mismo nombre en otro tenant no choca.
func TestStoreUseCase_Create_MismoNombreOtroTenant(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())

	_, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)
	second, err := uc.Create(ctx, owner2, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)
	assert.Equal(t, "o2", second.OwnerID)
}

// Caso 3: la tienda creada por un ADMIN pertenece al OWNER del ADMIN.
func TestStoreUseCase_Create_AdminHeredaOwner(t *testing.T) {
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(context.Background(), admin1, dto.CreateStoreRequest{Name: "Norte"})
	require.NoError(t, err)
	assert.Equal(t, "o1", s.OwnerID)
}

func TestStoreUseCase_Create_StaffNoPuede(t *testing.T) {
	mem := newMemStore()
	uc := NewStoreUseCase(mem.deps())
	_, err := uc.Create(context.Background(), staff1, dto.CreateStoreRequest{Name: "Norte"})
	assert.Equal(t, domain.CodeAuthorization, appErr(t, err).Code)
	assert.Equal(t, 0, mem.txCalls, "la barrera por rol va antes de abrir la transacción")
}

func TestStoreUseCase_Create_NombreVacio(t *testing.T) {
	uc := NewStoreUseCase(newMemStore().deps())
	_, err := uc.Create(context.Background(), owner1, dto.CreateStoreRequest{Name: ""})
	assert.Equal(t, domain.CodeValidation, appErr(t, err).Code)
}

// ───────────────────────────────────────────────────────────────────────────
// Lectura: 404 antes que 403, y aislamiento entre tenants
// ───────────────────────────────────────────────────────────────────────────

func TestStoreUseCase_GetByID_OtroTenantEs403(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)

	_, err = uc.GetByID(ctx, owner2, s.ID)
	ae := appErr(t, err)
	assert.Equal(t, domain.CodeAuthorization, ae.Code)
	assert.Equal(t, "You do not have access to this store", ae.Message)

	got, err := uc.GetByID(ctx, cashier1, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
}

func TestStoreUseCase_GetByID_Inexistente404(t *testing.T) {
	uc := NewStoreUseCase(newMemStore().deps())
	_, err := uc.GetByID(context.Background(), owner1, "nope")
	ae := appErr(t, err)
	assert.Equal(t, domain.CodeNotFound, ae.Code)
	assert.Equal(t, "Store not found", ae.Message)
}

// Caso B: STAFF borrando una tienda recibe 403 exista o no.
func TestStoreUseCase_Delete_StaffRecibe403SinMirarExistencia(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)

	for _, id := range []string{s.ID, "no-existe"} {
		err := uc.Delete(ctx, staff1, id)
		assert.Equal(t, domain.CodeAuthorization, appErr(t, err).Code, id)
	}

	err = uc.Delete(ctx, owner1, "no-existe")
	assert.Equal(t, domain.CodeNotFound, appErr(t, err).Code)
}

func TestStoreUseCase_Delete_AdminNoPuede(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)

	err = uc.Delete(ctx, admin1, s.ID)
	ae := appErr(t, err)
	assert.Equal(t, "Admin users cannot delete stores", ae.Message)
}

// ───────────────────────────────────────────────────────────────────────────
// Borrado lógico y restauración
// ───────────────────────────────────────────────────────────────────────────

func TestStoreUseCase_DeleteRestore(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, owner1, s.ID))

	_, err = uc.GetByID(ctx, owner1, s.ID)
	assert.Equal(t, domain.CodeNotFound, appErr(t, err).Code)

	// Borrar dos veces: la segunda ya no encuentra la fila.
	err = uc.Delete(ctx, owner1, s.ID)
	assert.Equal(t, domain.CodeNotFound, appErr(t, err).Code)

	restored, err := uc.Restore(ctx, owner1, s.ID)
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	_, err = uc.Restore(ctx, owner1, s.ID)
	ae := appErr(t, err)
	assert.Equal(t, domain.CodeValidation, ae.Code)
	assert.Equal(t, "Store is not deleted", ae.Message)
}

func TestStoreUseCase_Restore_NombreTomadoEntretanto(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	s, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, owner1, s.ID))
	_, err = uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "main"})
	require.NoError(t, err)

	_, err = uc.Restore(ctx, owner1, s.ID)
	assert.Equal(t, domain.CodeConflict, appErr(t, err).Code)
}

func TestStoreUseCase_Update_Renombrar(t *testing.T) {
	ctx := context.Background()
	uc := NewStoreUseCase(newMemStore().deps())
	a, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Main"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: "Norte"})
	require.NoError(t, err)

	// Cambiar sólo mayúsculas del propio nombre no choca consigo mismo.
	name := "MAIN"
	got, err := uc.Update(ctx, admin1, a.ID, dto.UpdateStoreRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "MAIN", got.Name)

	taken := "norte"
	_, err = uc.Update(ctx, admin1, a.ID, dto.UpdateStoreRequest{Name: &taken})
	assert.Equal(t, domain.CodeConflict, appErr(t, err).Code)
}

// ───────────────────────────────────────────────────────────────────────────
// Listado: paginación y tenant forzado
// ───────────────────────────────────────────────────────────────────────────

// Caso D: 25 tiendas, limit 10, page 3 → 5 filas y 3 páginas.
func TestStoreUseCase_List_Paginacion(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	uc := NewStoreUseCase(mem.deps())
	for i := 0; i < 25; i++ {
		_, err := uc.Create(ctx, owner1, dto.CreateStoreRequest{Name: fmt.Sprintf("Tienda %02d", i)})
		require.NoError(t, err)
	}
	_, err := uc.Create(ctx, owner2, dto.CreateStoreRequest{Name: "Ajena"})
	require.NoError(t, err)

	page, err := uc.List(ctx, admin1, dto.ListQuery{Page: 3, Limit: 10}, dto.StoreFilter{})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	assert.Len(t, page.Data, 5)
	for _, s := range page.Data {
		assert.Equal(t, "o1", s.OwnerID)
	}
}

func TestStoreUseCase_List_FiltroActivas(t *testing.T) {
	ctx := context.Background()
	mem := newMemStore()
	mem.stores.put(&entity.Store{Model: entity.Model{ID: "st1"}, OwnerID: "o1", Name: "A", IsActive: true})
	mem.stores.put(&entity.Store{Model: entity.Model{ID: "st2"}, OwnerID: "o1", Name: "B", IsActive: false})
	uc := NewStoreUseCase(mem.deps())

	active := true
	page, err := uc.List(ctx, owner1, dto.ListQuery{}, dto.StoreFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "st1", page.Data[0].ID)

	list, err := uc.ListActive(ctx, cashier1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestStoreUseCase_List_SortDesconocido(t *testing.T) {
	uc := NewStoreUseCase(newMemStore().deps())
	_, err := uc.List(context.Background(), owner1, dto.ListQuery{SortBy: "password"}, dto.StoreFilter{})
	assert.Equal(t, domain.CodeValidation, appErr(t, err).Code)
}
