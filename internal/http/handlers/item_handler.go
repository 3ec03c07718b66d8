package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ItemHandler struct {
	Items *services.ItemService
}

// GET /api/items
func (h *ItemHandler) List(c *fiber.Ctx) error {
	items, err := h.Items.List(c.UserContext())
	if err != nil {
		return fail(c, "items.list", err, nil)
	}
	return c.JSON(items)
}

// GET /api/items/:id
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	it, err := h.Items.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "items.get", err, map[string]any{"item_id": id})
	}
	return c.JSON(it)
}

// POST /api/items
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in services.ItemInput
	if ok, err := bind(c, "items.create", &in); !ok {
		return err
	}
	it, err := h.Items.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "items.create", err, nil)
	}
	applog.Audit(c, "items.create", map[string]any{"item_id": it.ID})
	return c.Status(fiber.StatusCreated).JSON(it)
}

// PATCH /api/items/:id
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	var patch services.ItemPatch
	if ok, err := bind(c, "items.update", &patch); !ok {
		return err
	}
	it, err := h.Items.Update(c.UserContext(), id, patch)
	if err != nil {
		return fail(c, "items.update", err, map[string]any{"item_id": id})
	}
	applog.Audit(c, "items.update", map[string]any{"item_id": id})
	return c.JSON(it)
}

// DELETE /api/items/:id
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	if err := h.Items.Delete(c.UserContext(), id); err != nil {
		return fail(c, "items.delete", err, map[string]any{"item_id": id})
	}
	applog.Audit(c, "items.delete", map[string]any{"item_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
