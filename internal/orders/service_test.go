package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func TestEnsureUniqueItems(t *testing.T) {
	productA := uuid.New()
	productB := uuid.New()

	t.Run("distinctProducts", func(t *testing.T) {
		err := ensureUniqueItems([]OrderItemInput{
			{ProductID: productA, Quantity: 2},
			{ProductID: productB, Quantity: 1},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("duplicateProduct", func(t *testing.T) {
		err := ensureUniqueItems([]OrderItemInput{
			{ProductID: productA, Quantity: 2},
			{ProductID: productA, Quantity: 1},
		})
		if err == nil {
			t.Fatal("expected validation error for duplicate product")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	})

	t.Run("nonPositiveQuantity", func(t *testing.T) {
		err := ensureUniqueItems([]OrderItemInput{
			{ProductID: productA, Quantity: 0},
		})
		if err == nil {
			t.Fatal("expected validation error for zero quantity")
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", err)
		}
	})
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	svc := &service{}
	_, err := svc.UpdateOrderStatus(context.Background(), uuid.New(), UpdateOrderStatusInput{Status: "archived"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}
