package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// expiryWindowDays is how far ahead the expiry alert feed looks.
const expiryWindowDays = 90

// Service exposes the inventory operations.
type Service interface {
	ListInventory(ctx context.Context, query InventoryListQuery) (*InventoryListResult, error)
	GetInventory(ctx context.Context, id uuid.UUID) (*InventoryView, error)
	CreateInventory(ctx context.Context, input CreateInventoryInput) (*InventoryView, error)
	UpdateInventory(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryView, error)
	DeleteInventory(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*InventoryView, error)
	GetAlerts(ctx context.Context) (*AlertsView, error)
	GetStats(ctx context.Context) (*StatsView, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   *Repository
	client txRunner
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the inventory service with its dependencies.
func NewService(repo *Repository, client txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory service requires a repository")
	}
	if client == nil {
		return nil, fmt.Errorf("inventory service requires a db client")
	}
	if logg == nil {
		return nil, fmt.Errorf("inventory service requires a logger")
	}
	return &service{
		repo:   repo,
		client: client,
		logg:   logg,
		now:    time.Now,
	}, nil
}

func (s *service) ListInventory(ctx context.Context, query InventoryListQuery) (*InventoryListResult, error) {
	if query.Filters.Status != nil {
		return s.listByStatus(ctx, query)
	}

	records, total, err := s.repo.ListInventoryRecords(ctx, inventoryListQuery{
		Pagination: query.Pagination,
		Filters:    query.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}

	views := make([]InventoryView, 0, len(records))
	for _, record := range records {
		views = append(views, toInventoryView(record))
	}

	return &InventoryListResult{
		Inventory: views,
		Total:     total,
	}, nil
}

// listByStatus filters on the derived status in Go and pages afterwards
// so the reported total stays correct.
func (s *service) listByStatus(ctx context.Context, query InventoryListQuery) (*InventoryListResult, error) {
	records, err := s.repo.ListAllInventoryRecords(ctx, query.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list inventory")
	}

	matched := make([]InventoryView, 0, len(records))
	for _, record := range records {
		view := toInventoryView(record)
		if view.StockStatus == *query.Filters.Status {
			matched = append(matched, view)
		}
	}

	limit := pagination.NormalizeLimit(query.Pagination.Limit)
	offset := pagination.NormalizeOffset(query.Pagination.Offset)
	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	return &InventoryListResult{
		Inventory: matched[offset:end],
		Total:     int64(len(matched)),
	}, nil
}

func (s *service) GetInventory(ctx context.Context, id uuid.UUID) (*InventoryView, error) {
	record, err := s.repo.GetInventoryRecord(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get inventory")
	}
	view := toInventoryView(*record)
	return &view, nil
}

func (s *service) CreateInventory(ctx context.Context, input CreateInventoryInput) (*InventoryView, error) {
	inventory := &models.Inventory{
		ProductID:    input.ProductID,
		CurrentStock: input.CurrentStock,
		MaximumStock: input.MaximumStock,
		Location:     input.Location,
		BatchNumber:  input.BatchNumber,
		ExpiryDate:   input.ExpiryDate,
		SupplierID:   input.SupplierID,
	}

	created, err := s.repo.CreateInventory(ctx, inventory)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_inventory_product_id") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already has an inventory row").
				WithDetails(map[string]any{"product_id": input.ProductID})
		}
		if db.IsForeignKeyViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product or supplier does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create inventory")
	}

	return s.GetInventory(ctx, created.ID)
}

func (s *service) UpdateInventory(ctx context.Context, id uuid.UUID, input UpdateInventoryInput) (*InventoryView, error) {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		inventory, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get inventory")
		}

		if input.MaximumStock != nil {
			inventory.MaximumStock = *input.MaximumStock
		}
		if input.Location != nil {
			inventory.Location = input.Location
		}
		if input.BatchNumber != nil {
			inventory.BatchNumber = input.BatchNumber
		}
		if input.ExpiryDate != nil {
			inventory.ExpiryDate = input.ExpiryDate
		}
		if input.SupplierID != nil {
			inventory.SupplierID = input.SupplierID
		}

		if _, err := txRepo.UpdateInventory(ctx, inventory); err != nil {
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeValidation, "supplier does not exist").
					WithDetails(map[string]any{"supplier_id": input.SupplierID})
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update inventory")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetInventory(ctx, id)
}

func (s *service) DeleteInventory(ctx context.Context, id uuid.UUID) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		inventory, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get inventory")
		}
		if inventory.ReservedStock > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "inventory has open reservations").
				WithDetails(map[string]any{"reserved_stock": inventory.ReservedStock})
		}

		if err := txRepo.DeleteInventory(ctx, inventory.ID); err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete inventory")
		}
		return nil
	})
}

func (s *service) AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*InventoryView, error) {
	if input.Delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta must not be zero")
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		inventory, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if db.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get inventory")
		}

		adjusted, err := txRepo.AdjustStock(ctx, inventory.ID, input.Delta)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: adjust stock")
		}
		if !adjusted {
			return pkgerrors.New(pkgerrors.CodeConflict, "adjustment would drop stock below reservations").
				WithDetails(map[string]any{
					"delta":          input.Delta,
					"current_stock":  inventory.CurrentStock,
					"reserved_stock": inventory.ReservedStock,
				})
		}

		logCtx := s.logg.WithFields(ctx, map[string]any{
			"inventory_id": inventory.ID,
			"product_id":   inventory.ProductID,
			"delta":        input.Delta,
			"reason":       input.Reason,
		})
		s.logg.Info(logCtx, "inventory.stock_adjusted")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetInventory(ctx, id)
}

func (s *service) GetAlerts(ctx context.Context) (*AlertsView, error) {
	shortfall, err := s.repo.ListShortfallRecords(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list shortfall")
	}

	cutoff := s.now().UTC().AddDate(0, 0, expiryWindowDays)
	expiring, err := s.repo.ListExpiringRecords(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list expiring")
	}

	alerts := &AlertsView{
		LowStock:   []InventoryAlert{},
		OutOfStock: []InventoryAlert{},
		Expiring:   []InventoryAlert{},
	}
	for _, record := range shortfall {
		alert := toInventoryAlert(record)
		if alert.StockStatus == enums.StockStatusOutOfStock {
			alerts.OutOfStock = append(alerts.OutOfStock, alert)
		} else {
			alerts.LowStock = append(alerts.LowStock, alert)
		}
	}
	for _, record := range expiring {
		alerts.Expiring = append(alerts.Expiring, toInventoryAlert(record))
	}
	return alerts, nil
}

func (s *service) GetStats(ctx context.Context) (*StatsView, error) {
	cutoff := s.now().UTC().AddDate(0, 0, expiryWindowDays)
	record, err := s.repo.GetStats(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: inventory stats")
	}
	return &StatsView{
		TotalProducts:   record.TotalProducts,
		TotalStockValue: record.TotalStockValue.Round(2),
		LowStockCount:   record.LowStockCount,
		OutOfStockCount: record.OutOfStockCount,
		ExpiringCount:   record.ExpiringCount,
	}, nil
}

func toInventoryView(record inventoryRecord) InventoryView {
	view := InventoryView{
		ID:             record.ID,
		ProductID:      record.ProductID,
		ProductName:    record.ProductName,
		ProductSKU:     record.ProductSKU,
		Category:       record.Category,
		UnitPrice:      record.UnitPrice,
		CurrentStock:   record.CurrentStock,
		ReservedStock:  record.ReservedStock,
		AvailableStock: record.CurrentStock - record.ReservedStock,
		MaximumStock:   record.MaximumStock,
		ReorderPoint:   record.ReorderPoint,
		StockStatus:    computeStockStatus(record.CurrentStock, record.ReservedStock, record.ReorderPoint, record.MaximumStock),
		SupplierID:     record.SupplierID,
		UpdatedAt:      record.UpdatedAt,
	}
	if record.Location.Valid {
		location := record.Location.String
		view.Location = &location
	}
	if record.BatchNumber.Valid {
		batch := record.BatchNumber.String
		view.BatchNumber = &batch
	}
	if record.ExpiryDate.Valid {
		expiry := record.ExpiryDate.Time
		view.ExpiryDate = &expiry
	}
	if record.SupplierName.Valid {
		supplier := record.SupplierName.String
		view.SupplierName = &supplier
	}
	return view
}

func toInventoryAlert(record inventoryRecord) InventoryAlert {
	alert := InventoryAlert{
		ProductID:      record.ProductID,
		ProductName:    record.ProductName,
		ProductSKU:     record.ProductSKU,
		AvailableStock: record.CurrentStock - record.ReservedStock,
		ReorderPoint:   record.ReorderPoint,
		StockStatus:    computeStockStatus(record.CurrentStock, record.ReservedStock, record.ReorderPoint, record.MaximumStock),
	}
	if record.ExpiryDate.Valid {
		expiry := record.ExpiryDate.Time
		alert.ExpiryDate = &expiry
	}
	return alert
}
