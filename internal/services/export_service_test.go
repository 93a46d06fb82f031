package services_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"styleshop/internal/models"
	"styleshop/internal/repositories"
	"styleshop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_OrdersWorkbook(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := services.NewExportService(orders, new(MockProductRepository))

	orders.On("List", ctx).Return([]models.Order{{
		OrderNumber:     "ORD-20260101-AAAAAAAA",
		UserID:          "user-1",
		Status:          models.OrderStatusProcessing,
		Items:           []models.OrderItem{{Quantity: 2}, {Quantity: 1}},
		Total:           1180,
		ShippingAddress: models.ShippingAddress{City: "Pune"},
		CreatedAt:       time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
	}}, nil).Once()

	file, err := svc.OrdersWorkbook(ctx)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)
	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Order", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "ORD-20260101-AAAAAAAA", sheet.Rows[1].Cells[0].Value)
	assert.Equal(t, "Pune", sheet.Rows[1].Cells[8].Value)
	assert.Equal(t, "2026-01-01 10:00:00", sheet.Rows[1].Cells[9].Value)

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	assert.Equal(t, []byte("PK"), buf.Bytes()[:2], "xlsx is a zip archive")
}

func TestExportService_ProductsWorkbook(t *testing.T) {
	ctx := context.Background()
	products := new(MockProductRepository)
	svc := services.NewExportService(new(MockOrderRepository), products)

	products.On("List", ctx, repositories.ProductFilter{}).Return([]models.Product{
		{ID: "p1", Name: "Tee", Category: "Tops", Tags: []string{"cotton", "basic"}, ImageURL: "tee.jpg"},
	}, nil).Once()

	file, err := svc.ProductsWorkbook(ctx)
	require.NoError(t, err)
	rows := file.Sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Tee", rows[1].Cells[1].Value)
	assert.Equal(t, "cotton,basic", rows[1].Cells[6].Value)
	assert.Equal(t, "tee.jpg", rows[1].Cells[7].Value)
}
