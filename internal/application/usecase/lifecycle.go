package usecase

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/domain"
)

// softDelete 404 si otra petición ya eliminó la fila entre la lectura y el UPDATE.
func softDelete(ctx context.Context, del func(context.Context, string) (bool, error), id string, res authz.Resource) error {
	ok, err := del(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFound(res)
	}
	return nil
}

// restore sólo actúa sobre filas eliminadas; restaurar una fila activa es un error de entrada.
func restore(ctx context.Context, undo func(context.Context, string) (bool, error), id string, res authz.Resource) error {
	ok, err := undo(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewValidationError("%s is not deleted", title(res))
	}
	return nil
}
