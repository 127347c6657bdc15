package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

// logLines decodifica la salida JSON del logger, una entrada por línea.
func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestMutaciones_LogConUsuarioYTenant(t *testing.T) {
	var buf bytes.Buffer
	mem := newMemStore()
	seedCatalog(mem)
	d := mem.deps()
	d.Log = logger.New(logger.Config{Env: "test", Level: "info", Out: &buf})
	ctx := context.Background()

	txs := NewTransactionUseCase(d, nil)
	products := NewProductUseCase(d)
	checks := NewProductCheckUseCase(d)

	s, err := txs.Create(ctx, admin1, sale(dto.TransactionItemRequest{ProductID: "p1", Quantity: 1}))
	require.NoError(t, err)
	notes := "entregado"
	_, err = txs.Update(ctx, admin1, s.ID, dto.UpdateTransactionRequest{Notes: &notes})
	require.NoError(t, err)
	require.NoError(t, txs.Delete(ctx, owner1, s.ID))
	_, err = txs.Restore(ctx, owner1, s.ID)
	require.NoError(t, err)

	require.NoError(t, products.Delete(ctx, owner1, "p2"))
	_, err = products.Restore(ctx, owner1, "p2")
	require.NoError(t, err)

	c, err := checks.Create(ctx, admin1, dto.CreateProductCheckRequest{ProductID: "p1"})
	require.NoError(t, err)
	actual := 8
	_, err = checks.Update(ctx, admin1, c.ID, dto.UpdateProductCheckRequest{ActualQuantity: &actual})
	require.NoError(t, err)

	entries := logLines(t, &buf)
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, e["message"].(string))
		assert.Equal(t, "o1", e["owner_id"], e["message"])
		assert.NotEmpty(t, e["user_id"], e["message"])
		assert.Equal(t, "info", e["level"])
	}
	assert.Equal(t, []string{
		"transacción registrada", "transacción actualizada", "transacción eliminada", "transacción restaurada",
		"producto eliminado", "producto restaurado",
		"conteo registrado", "conteo actualizado",
	}, msgs)
}
