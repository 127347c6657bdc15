package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
)

// ProductCheckHandler conteos físicos.
type ProductCheckHandler struct {
	uc *usecase.ProductCheckUseCase
}

func NewProductCheckHandler(uc *usecase.ProductCheckUseCase) *ProductCheckHandler {
	return &ProductCheckHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar conteo físico
// @Tags         product-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductCheckRequest  true  "Producto y cantidad contada"
// @Success      201   {object}  dto.ProductCheckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/product-checks [post]
func (h *ProductCheckHandler) Create(c *fiber.Ctx) error {
	in, err := parseBody[dto.CreateProductCheckRequest](c)
	if err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetActor(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener conteo
// @Tags         product-checks
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.ProductCheckResponse
// @Router       /api/product-checks/{id} [get]
func (h *ProductCheckHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar conteos
// @Tags         product-checks
// @Security     Bearer
// @Produce      json
// @Param        status     query  string  false  "PENDING | VERIFIED | DISCREPANCY"
// @Param        productId  query  string  false  "Filtrar por producto"
// @Success      200  {object}  dto.Page[dto.ProductCheckResponse]
// @Router       /api/product-checks [get]
func (h *ProductCheckHandler) List(c *fiber.Ctx) error {
	q, f, err := parseList[dto.ProductCheckFilter](c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), GetActor(c), q, f)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Registrar o corregir la cantidad contada
// @Tags         product-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del conteo"
// @Param        body  body  dto.UpdateProductCheckRequest  true  "Cantidad y notas"
// @Success      200   {object}  dto.ProductCheckResponse
// @Router       /api/product-checks/{id} [put]
func (h *ProductCheckHandler) Update(c *fiber.Ctx) error {
	in, err := parseBody[dto.UpdateProductCheckRequest](c)
	if err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), GetActor(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar conteo (lógico)
// @Tags         product-checks
// @Security     Bearer
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.MessageResponse
// @Router       /api/product-checks/{id} [delete]
func (h *ProductCheckHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return err
	}
	return deletedResponse(c, "Product check")
}

// Restore godoc
// @Summary      Restaurar conteo
// @Tags         product-checks
// @Security     Bearer
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.ProductCheckResponse
// @Router       /api/product-checks/{id}/restore [post]
func (h *ProductCheckHandler) Restore(c *fiber.Ctx) error {
	out, err := h.uc.Restore(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
