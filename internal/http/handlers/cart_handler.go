package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type CartHandler struct {
	Cart     *services.CartService
	Products *services.ProductService
}

type cartView struct {
	Items    []domain.CartItem `json:"items"`
	Count    int               `json:"count"`
	Subtotal decimal.Decimal   `json:"subtotal"`
}

func viewOf(s cart.State) cartView {
	items := s.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{Items: items, Count: s.Count(), Subtotal: s.Subtotal()}
}

type addToCartRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Qty       int    `json:"qty" validate:"gte=1"`
}

// GET /api/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return c.JSON(viewOf(h.Cart.State()))
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addToCartRequest
	if ok, err := bind(c, "cart.add", &req); !ok {
		return err
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return badParam(c, "productId")
	}
	p, found, err := h.Products.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "cart.add", err, map[string]any{"product_id": id})
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "This item is no longer available"})
	}
	if !validate.Qty(req.Qty, p.CountInStock) {
		applog.Security(c, "validation.fail", map[string]any{"field": "qty", "qty": req.Qty, "in_stock": p.CountInStock})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("quantity must be between 1 and %d", p.CountInStock),
		})
	}

	s, err := h.Cart.Add(c.UserContext(), p, req.Qty)
	if err != nil {
		return fail(c, "cart.add", err, map[string]any{"product_id": id})
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": id, "qty": req.Qty})
	return c.JSON(viewOf(s))
}

// DELETE /api/cart/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badParam(c, "productId")
	}
	s, err := h.Cart.Remove(c.UserContext(), id)
	if err != nil {
		return fail(c, "cart.remove", err, map[string]any{"product_id": id})
	}
	applog.Info(c, "cart.remove", map[string]any{"product_id": id})
	return c.JSON(viewOf(s))
}

// DELETE /api/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	s, err := h.Cart.Clear(c.UserContext())
	if err != nil {
		return fail(c, "cart.clear", err, nil)
	}
	applog.Info(c, "cart.clear", nil)
	return c.JSON(viewOf(s))
}

// POST /api/cart/checkout
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	sum, err := h.Cart.Checkout(c.UserContext())
	if errors.Is(err, services.ErrEmptyCart) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cart empty"})
	}
	if err != nil {
		return fail(c, "cart.checkout", err, nil)
	}
	applog.Audit(c, "cart.checkout", map[string]any{"count": sum.Count, "subtotal": sum.Subtotal.StringFixed(2)})
	return c.JSON(sum)
}
