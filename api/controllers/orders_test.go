package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordersvc "github.com/medsup-innovation/medsup-backend/internal/orders"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func TestUpdateOrderStatus(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader("{"))
		req = withURLParam(req, "id", orderID.String())
		rec := httptest.NewRecorder()
		UpdateOrderStatus(&stubOrderService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for malformed body, got %d", rec.Code)
		}
	})

	t.Run("illegal transition", func(t *testing.T) {
		stub := &stubOrderService{
			statusErr: pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed"),
		}
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"delivered"}`))
		req = withURLParam(req, "id", orderID.String())
		rec := httptest.NewRecorder()
		UpdateOrderStatus(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 for illegal transition, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubOrderService{
			view: &ordersvc.OrderView{ID: orderID, OrderNumber: "ORD-2026-001"},
		}
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"confirmed"}`))
		req = withURLParam(req, "id", orderID.String())
		rec := httptest.NewRecorder()
		UpdateOrderStatus(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.lastStatus != "confirmed" {
			t.Fatalf("expected status to reach the service, got %q", stub.lastStatus)
		}
	})
}

func TestCreateOrderAcceptsUnitPriceOnLines(t *testing.T) {
	logg := testLogger()
	orderID := uuid.New()
	stub := &stubOrderService{
		view: &ordersvc.OrderView{ID: orderID, OrderNumber: "ORD-2026-002"},
	}
	productID := uuid.NewString()
	body := `{"customer_id":"` + uuid.NewString() + `","items":[{"product_id":"` + productID + `","quantity":3,"unit_price":"12.99"}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrder(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for line with unit_price, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(stub.lastCreate.Items) != 1 {
		t.Fatalf("expected one line to reach the service, got %d", len(stub.lastCreate.Items))
	}
	line := stub.lastCreate.Items[0]
	if line.ProductID.String() != productID || line.Quantity != 3 {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line.UnitPrice == nil || !line.UnitPrice.Equal(decimal.RequireFromString("12.99")) {
		t.Fatalf("expected unit price to decode, got %+v", line.UnitPrice)
	}
}

func TestCreateOrderInsufficientStockMapsToConflict(t *testing.T) {
	logg := testLogger()
	stub := &stubOrderService{
		createErr: pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock"),
	}
	body := `{"customer_id":"` + uuid.NewString() + `","items":[{"product_id":"` + uuid.NewString() + `","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateOrder(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

type stubOrderService struct {
	view       *ordersvc.OrderView
	createErr  error
	statusErr  error
	lastStatus string
	lastCreate ordersvc.CreateOrderInput
}

func (s *stubOrderService) ListOrders(ctx context.Context, query ordersvc.OrderListQuery) (*ordersvc.OrderListResult, error) {
	panic("unimplemented")
}

func (s *stubOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*ordersvc.OrderView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) CreateOrder(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.OrderView, error) {
	s.lastCreate = input
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.view, nil
}

func (s *stubOrderService) UpdateOrder(ctx context.Context, id uuid.UUID, input ordersvc.UpdateOrderInput) (*ordersvc.OrderView, error) {
	panic("unimplemented")
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, input ordersvc.UpdateOrderStatusInput) (*ordersvc.OrderView, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	s.lastStatus = input.Status
	return s.view, nil
}

func (s *stubOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}
