package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/domain"
	"storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Products *services.ProductService
}

type productView struct {
	domain.Product
	Availability services.Availability `json:"availability"`
}

// GET /api/products[?q=&category=]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q string
	if raw := c.Query("q"); strings.TrimSpace(raw) != "" {
		var ok bool
		if q, ok = validate.Q(raw); !ok {
			log.Security(c, "validation.fail", map[string]any{"field": "q", "value": raw})
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Enter a valid keyword (letters/numbers only)"})
		}
	}
	category := strings.TrimSpace(c.Query("category"))
	if category != "" {
		if _, ok := validate.Q(category); !ok {
			return badParam(c, "category")
		}
	}

	ps, err := h.Products.List(c.UserContext())
	if err != nil {
		return fail(c, "products.list", err, nil)
	}
	if q == "" && category == "" {
		return c.JSON(ps)
	}
	q = strings.ToLower(q)
	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.Brand), q) {
			continue
		}
		out = append(out, p)
	}
	return c.JSON(out)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	p, found, err := h.Products.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get", err, map[string]any{"product_id": id})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	return c.JSON(productView{Product: p, Availability: services.CheckAvailability(p)})
}

// GET /api/products/:id/components
func (h *ProductHandler) Components(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	cs, err := h.Products.ListComponents(c.UserContext(), id)
	if err != nil {
		return fail(c, "components.list", err, map[string]any{"product_id": id})
	}
	return c.JSON(cs)
}

// GET /api/components/:id
func (h *ProductHandler) Component(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badParam(c, "id")
	}
	comp, found, err := h.Products.GetComponent(c.UserContext(), id)
	if err != nil {
		return fail(c, "components.get", err, map[string]any{"component_id": id})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}
	return c.JSON(comp)
}
