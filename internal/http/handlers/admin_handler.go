package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

// AdminHandler serves the write side of the catalog under /api/admin.
type AdminHandler struct {
	Products *services.ProductService
}

// POST /api/admin/products
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ProductInput
	if ok, err := bind(c, "admin.products.create", &in); !ok {
		return err
	}
	p, err := h.Products.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "admin.products.create", err, nil)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// PATCH /api/admin/products/:id
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	var patch services.ProductPatch
	if ok, err := bind(c, "admin.products.update", &patch); !ok {
		return err
	}
	p, err := h.Products.Update(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "admin.products.update", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id})
	return c.JSON(p)
}

// DELETE /api/admin/products/:id also removes the product's components.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	if err := h.Products.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.products.delete", err, map[string]any{"product_id": id})
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}

// POST /api/admin/products/:id/components
func (h *AdminHandler) CreateComponent(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	var in services.ComponentInput
	if ok, err := bind(c, "admin.components.create", &in); !ok {
		return err
	}
	_, found, err := h.Products.Get(c.UserContext(), pid)
	if err != nil {
		return fail(c, "admin.components.create", err, map[string]any{"product_id": pid})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	comp, err := h.Products.CreateComponent(c.UserContext(), pid, in)
	if err != nil {
		return fail(c, "admin.components.create", err, map[string]any{"product_id": pid})
	}
	applog.Audit(c, "admin.components.create", map[string]any{"product_id": pid, "component_id": comp.ID})
	return c.Status(fiber.StatusCreated).JSON(comp)
}

// PATCH /api/admin/components/:id
func (h *AdminHandler) UpdateComponent(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	var patch services.ComponentPatch
	if ok, err := bind(c, "admin.components.update", &patch); !ok {
		return err
	}
	comp, err := h.Products.UpdateComponent(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "admin.components.update", err, map[string]any{"component_id": id})
	}
	applog.Audit(c, "admin.components.update", map[string]any{"component_id": id})
	return c.JSON(comp)
}

// DELETE /api/admin/components/:id
func (h *AdminHandler) DeleteComponent(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	if err := h.Products.DeleteComponent(c.UserContext(), id); err != nil {
		return fail(c, "admin.components.delete", err, map[string]any{"component_id": id})
	}
	applog.Audit(c, "admin.components.delete", map[string]any{"component_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
