package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// Service exposes the order workflow operations.
type Service interface {
	ListOrders(ctx context.Context, query OrderListQuery) (*OrderListResult, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, input UpdateOrderStatusInput) (*OrderView, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo    *Repository
	client  txRunner
	pricing config.PricingConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the order service with its dependencies.
func NewService(repo *Repository, client txRunner, pricing config.PricingConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order service requires a repository")
	}
	if client == nil {
		return nil, fmt.Errorf("order service requires a db client")
	}
	if logg == nil {
		return nil, fmt.Errorf("order service requires a logger")
	}
	return &service{
		repo:    repo,
		client:  client,
		pricing: pricing,
		logg:    logg,
		now:     time.Now,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, query OrderListQuery) (*OrderListResult, error) {
	result, err := s.repo.ListOrderSummaries(ctx, orderListQuery{
		Pagination: query.Pagination,
		Filters:    query.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}
	return result, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := s.repo.GetOrderView(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get order")
	}
	return view, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderView, error) {
	if err := ensureUniqueItems(input.Items); err != nil {
		return nil, err
	}

	var orderID uuid.UUID
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		customer, err := txRepo.FindCustomer(ctx, input.CustomerID)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get customer")
		}
		if !customer.IsActive {
			return pkgerrors.New(pkgerrors.CodeValidation, "customer is inactive")
		}

		items, err := s.priceItems(ctx, txRepo, input.Items)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := s.reserve(ctx, txRepo, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		orderNumber, err := txRepo.NextOrderNumber(ctx, s.now().UTC().Year())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: next order number")
		}

		totals := computeTotals(items, s.pricing)
		order := &models.Order{
			OrderNumber:    orderNumber,
			CustomerID:     customer.ID,
			OrderDate:      s.now().UTC(),
			RequiredDate:   input.RequiredDate,
			Status:         enums.OrderStatusPending,
			Subtotal:       totals.Subtotal,
			TaxAmount:      totals.Tax,
			ShippingAmount: totals.Shipping,
			TotalAmount:    totals.Total,
			Notes:          input.Notes,
			Items:          items,
		}

		created, err := txRepo.CreateOrder(ctx, order)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_orders_order_number") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order number already taken, retry")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		orderID = created.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithField(ctx, "order_id", orderID)
	s.logg.Info(logCtx, "order.created")

	return s.GetOrder(ctx, orderID)
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderView, error) {
	if input.Items != nil {
		if err := ensureUniqueItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get order")
		}

		if input.RequiredDate != nil {
			order.RequiredDate = input.RequiredDate
		}
		if input.Notes != nil {
			order.Notes = input.Notes
		}

		if input.Items != nil {
			if order.Status != enums.OrderStatusPending {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "items can only change while the order is pending").
					WithDetails(map[string]any{"status": order.Status})
			}

			for _, item := range order.Items {
				if err := txRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release stock")
				}
			}

			items, err := s.priceItems(ctx, txRepo, *input.Items)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := s.reserve(ctx, txRepo, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}

			if err := txRepo.ReplaceItems(ctx, order.ID, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace items")
			}

			totals := computeTotals(items, s.pricing)
			order.Subtotal = totals.Subtotal
			order.TaxAmount = totals.Tax
			order.ShippingAmount = totals.Shipping
			order.TotalAmount = totals.Total
		}

		order.Items = nil
		if _, err := txRepo.UpdateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

func (s *service) UpdateOrderStatus(ctx context.Context, id uuid.UUID, input UpdateOrderStatusInput) (*OrderView, error) {
	next, err := enums.ParseOrderStatus(input.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": input.Status})
	}

	err = s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get order")
		}

		if !order.Status.CanTransitionTo(next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]any{"from": order.Status, "to": next})
		}

		switch next {
		case enums.OrderStatusCancelled:
			for _, item := range order.Items {
				if err := txRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release stock")
				}
			}
		case enums.OrderStatusDelivered:
			for _, item := range order.Items {
				if err := txRepo.FulfillStock(ctx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: fulfill stock")
				}
			}
		}

		if err := txRepo.UpdateStatus(ctx, order.ID, next); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update status")
		}

		logCtx := s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID,
			"from":     order.Status,
			"to":       next,
		})
		s.logg.Info(logCtx, "order.status_changed")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(ctx, id)
}

func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		order, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get order")
		}

		if order.Status.HoldsReservation() {
			for _, item := range order.Items {
				if err := txRepo.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: release stock")
				}
			}
		}

		if err := txRepo.DeleteOrder(ctx, order.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete order")
		}
		return nil
	})
	if err != nil {
		return err
	}

	logCtx := s.logg.WithField(ctx, "order_id", id)
	s.logg.Info(logCtx, "order.deleted")
	return nil
}

// priceItems snapshots the current unit price onto each requested line.
func (s *service) priceItems(ctx context.Context, txRepo *Repository, inputs []OrderItemInput) ([]models.OrderItem, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	for _, input := range inputs {
		ids = append(ids, input.ProductID)
	}

	products, err := txRepo.FindProducts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get products")
	}

	items := make([]models.OrderItem, 0, len(inputs))
	for _, input := range inputs {
		product, ok := products[input.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found").
				WithDetails(map[string]any{"product_id": input.ProductID})
		}
		if !product.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is inactive").
				WithDetails(map[string]any{"product_id": input.ProductID, "sku": product.SKU})
		}
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   input.Quantity,
			UnitPrice:  product.UnitPrice,
			TotalPrice: lineTotal(product.UnitPrice, input.Quantity),
		})
	}
	return items, nil
}

// reserve takes stock for one line and translates a refused update into
// a conflict the caller can act on.
func (s *service) reserve(ctx context.Context, txRepo *Repository, productID uuid.UUID, quantity int) error {
	reserved, err := txRepo.ReserveStock(ctx, productID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reserve stock")
	}
	if reserved {
		return nil
	}

	available, err := txRepo.AvailableStock(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "product has no inventory").
				WithDetails(map[string]any{"product_id": productID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get inventory")
	}
	return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
		WithDetails(map[string]any{
			"product_id": productID,
			"requested":  quantity,
			"available":  available,
		})
}

func ensureUniqueItems(items []OrderItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		if _, ok := seen[item.ProductID]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate product in items").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}
