package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/tealeg/xlsx"

	"storefront/internal/domain"
	applog "storefront/internal/log"
	"storefront/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Products *services.ProductService
}

var productColumns = []string{
	"ID", "Name", "Brand", "Category", "Price", "CountInStock", "Rating", "NumReviews", "Image", "Description",
}

// ProductsWorkbook lays products out one per row under a header row.
func ProductsWorkbook(products []domain.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}
	header := sheet.AddRow()
	for _, h := range productColumns {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.CountInStock)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.NumReviews)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(p.Description)
	}
	return file, nil
}

// GET /api/admin/products/export.xlsx
func (h *ExportHandler) ProductsXLSX(c *fiber.Ctx) error {
	ps, err := h.Products.List(c.UserContext())
	if err != nil {
		return fail(c, "admin.products.export", err, nil)
	}
	file, err := ProductsWorkbook(ps)
	if err != nil {
		return fail(c, "admin.products.export", err, nil)
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return fail(c, "admin.products.export", err, nil)
	}
	applog.Audit(c, "admin.products.export", map[string]any{"rows": len(ps)})
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Send(buf.Bytes())
}
