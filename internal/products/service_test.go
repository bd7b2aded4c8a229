package products

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func TestApplyUpdateToProduct(t *testing.T) {
	desc := "old description"
	product := &models.Product{
		Name:          "Old Name",
		Description:   &desc,
		Category:      "Gloves",
		UnitPrice:     decimal.RequireFromString("10.00"),
		UnitOfMeasure: "box",
		ReorderPoint:  10,
	}

	name := "  New Name "
	category := " Masks "
	price := decimal.RequireFromString("11.50")
	reorder := 25
	inactive := false

	err := applyUpdateToProduct(product, UpdateProductInput{
		Name:         &name,
		Category:     &category,
		UnitPrice:    &price,
		ReorderPoint: &reorder,
		IsActive:     &inactive,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if product.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.Category != "Masks" {
		t.Fatalf("expected trimmed category, got %q", product.Category)
	}
	if !product.UnitPrice.Equal(price) {
		t.Fatalf("expected price %s, got %s", price, product.UnitPrice)
	}
	if product.ReorderPoint != 25 {
		t.Fatalf("expected reorder point 25, got %d", product.ReorderPoint)
	}
	if product.IsActive {
		t.Fatal("expected product to be inactive")
	}
	if product.Description == nil || *product.Description != desc {
		t.Fatalf("expected untouched description, got %v", product.Description)
	}
}

func TestApplyUpdateToProductRejectsNegativePrice(t *testing.T) {
	price := decimal.RequireFromString("-1.00")
	err := applyUpdateToProduct(&models.Product{}, UpdateProductInput{UnitPrice: &price})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateProductRejectsNegativePrices(t *testing.T) {
	svc := &service{}
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:          "Gloves",
		SKU:           "glv-001",
		Category:      "Gloves",
		UnitPrice:     decimal.RequireFromString("-0.01"),
		UnitOfMeasure: "box",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestToProductViewDerivesAvailableStock(t *testing.T) {
	product := &models.Product{
		Name:      "Gloves",
		SKU:       "GLV-001",
		UnitPrice: decimal.RequireFromString("12.99"),
		Inventory: &models.Inventory{
			CurrentStock:  150,
			ReservedStock: 20,
		},
	}

	view := toProductView(product)
	if view.Inventory == nil {
		t.Fatal("expected inventory view")
	}
	if view.Inventory.AvailableStock != 130 {
		t.Fatalf("expected available 130, got %d", view.Inventory.AvailableStock)
	}
}
