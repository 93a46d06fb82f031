package services

import (
	"context"
	"strings"

	"styleshop/internal/apperror"
	"styleshop/internal/repositories"

	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportService builds spreadsheet exports for the back office.
type ExportService struct {
	orders   repositories.OrderRepository
	products repositories.ProductRepository
}

func NewExportService(orders repositories.OrderRepository, products repositories.ProductRepository) *ExportService {
	return &ExportService{orders: orders, products: products}
}

func header(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, h := range names {
		row.AddCell().SetValue(h)
	}
}

// OrdersWorkbook has one row per order, newest first.
func (s *ExportService) OrdersWorkbook(ctx context.Context) (*xlsx.File, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to load orders", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, apperror.Internal("failed to create sheet", err)
	}
	header(sheet, "Order", "User", "Status", "Items", "Subtotal", "Tax", "Total", "Payment", "City", "Placed At")

	for _, o := range orders {
		units := 0
		for _, it := range o.Items {
			units += it.Quantity
		}
		row := sheet.AddRow()
		row.AddCell().SetValue(o.OrderNumber)
		row.AddCell().SetValue(o.UserID)
		row.AddCell().SetValue(o.Status)
		row.AddCell().SetValue(units)
		row.AddCell().SetValue(o.Subtotal)
		row.AddCell().SetValue(o.Tax)
		row.AddCell().SetValue(o.Total)
		row.AddCell().SetValue(o.PaymentMethod)
		row.AddCell().SetValue(o.ShippingAddress.City)
		row.AddCell().SetValue(o.CreatedAt.Format(exportTimeLayout))
	}
	return file, nil
}

// ProductsWorkbook lists the whole catalog.
func (s *ExportService) ProductsWorkbook(ctx context.Context) (*xlsx.File, error) {
	products, err := s.products.List(ctx, repositories.ProductFilter{})
	if err != nil {
		return nil, apperror.Internal("failed to load products", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, apperror.Internal("failed to create sheet", err)
	}
	header(sheet, "ID", "Name", "Brand", "Category", "Price", "Stock", "Tags", "Image", "Created At")

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Stock)
		row.AddCell().SetValue(strings.Join(p.Tags, ","))
		row.AddCell().SetValue(p.PrimaryImage())
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
	}
	return file, nil
}
