package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tealeg/xlsx"

	"styleshop/internal/apperror"
	"styleshop/internal/models"
	"styleshop/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves catalog maintenance, order fulfilment and exports.
type AdminHandler struct {
	products *services.ProductService
	orders   *services.OrderService
	exports  *services.ExportService
}

func NewAdminHandler(products *services.ProductService, orders *services.OrderService, exports *services.ExportService) *AdminHandler {
	return &AdminHandler{products: products, orders: orders, exports: exports}
}

// RegisterRoutes mounts everything under /admin behind guard.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	adminRoutes := router.Group("/admin", guard)
	adminRoutes.Post("/products", h.HandleCreateProduct)
	adminRoutes.Put("/products/:id", h.HandleUpdateProduct)
	adminRoutes.Delete("/products/:id", h.HandleDeleteProduct)
	adminRoutes.Get("/products/export", h.HandleExportProducts)

	adminRoutes.Patch("/orders/:id/status", h.HandleUpdateOrderStatus)
	adminRoutes.Get("/orders/export", h.HandleExportOrders)
}

// ProductRequest is the admin payload for a catalog product.
type ProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gt=0"`
	Category    string   `json:"category" validate:"required"`
	Brand       string   `json:"brand"`
	Match       string   `json:"match"`
	ImageURL    string   `json:"imageUrl"`
	Images      []string `json:"images"`
	Tags        []string `json:"tags"`
	Stock       int      `json:"stock" validate:"min=0"`
}

func (r ProductRequest) product() *models.Product {
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Brand:       r.Brand,
		Match:       r.Match,
		ImageURL:    r.ImageURL,
		Images:      r.Images,
		Tags:        r.Tags,
		Stock:       r.Stock,
	}
}

func (h *AdminHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.product()
	if err := h.products.Create(c.UserContext(), p); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *AdminHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	p := req.product()
	if err := h.products.Update(c.UserContext(), c.Params("id"), p); err != nil {
		return err
	}
	return c.JSON(p)
}

func (h *AdminHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order along its fulfilment states.
func (h *AdminHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req OrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(order)
}

func (h *AdminHandler) HandleExportOrders(c *fiber.Ctx) error {
	file, err := h.exports.OrdersWorkbook(c.UserContext())
	if err != nil {
		return err
	}
	return sendWorkbook(c, "orders", file)
}

func (h *AdminHandler) HandleExportProducts(c *fiber.Ctx) error {
	file, err := h.exports.ProductsWorkbook(c.UserContext())
	if err != nil {
		return err
	}
	return sendWorkbook(c, "products", file)
}

func sendWorkbook(c *fiber.Ctx, name string, file *xlsx.File) error {
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return apperror.Internal("failed to write workbook", err)
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set("Content-Transfer-Encoding", "binary")
	c.Set(fiber.HeaderExpires, "0")
	return c.Send(buf.Bytes())
}
