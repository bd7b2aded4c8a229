package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/internal/inventory"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

const (
	recentOrdersLimit = 5
	lowStockLimit     = 5
	salesMonths       = 6
	salesWindowDays   = 30
	maxAlerts         = 20
	pendingWindowDays = 7
)

// Service exposes the dashboard aggregate and the attention feed.
type Service interface {
	GetDashboard(ctx context.Context) (*View, error)
	GetAlerts(ctx context.Context) ([]Alert, error)
}

type stockProvider interface {
	GetAlerts(ctx context.Context) (*inventory.AlertsView, error)
	GetStats(ctx context.Context) (*inventory.StatsView, error)
}

type service struct {
	repo  *Repository
	stock stockProvider
	logg  *logger.Logger
	now   func() time.Time
}

// NewService wires the dashboard service with its dependencies.
func NewService(repo *Repository, stock stockProvider, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard service requires a repository")
	}
	if stock == nil {
		return nil, fmt.Errorf("dashboard service requires a stock provider")
	}
	if logg == nil {
		return nil, fmt.Errorf("dashboard service requires a logger")
	}
	return &service{
		repo:  repo,
		stock: stock,
		logg:  logg,
		now:   time.Now,
	}, nil
}

func (s *service) GetDashboard(ctx context.Context) (*View, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	chartStart := monthStart.AddDate(0, -(salesMonths - 1), 0)

	metrics, err := s.collectMetrics(ctx, now.AddDate(0, 0, -salesWindowDays))
	if err != nil {
		return nil, err
	}

	recent, err := s.repo.ListRecentOrders(ctx, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recent orders")
	}

	lowStock, err := s.repo.ListLowStockItems(ctx, lowStockLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: low stock")
	}

	categories, err := s.repo.ListCategoryStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: category stats")
	}
	for i := range categories {
		categories[i].StockValue = categories[i].StockValue.Round(2)
	}

	salesRows, err := s.repo.ListOrdersSince(ctx, chartStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sales rows")
	}

	alerts, err := s.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}

	return &View{
		Metrics:       *metrics,
		RecentOrders:  recent,
		LowStock:      lowStock,
		CategoryStats: categories,
		MonthlySales:  bucketMonthlySales(salesRows, monthStart, salesMonths),
		Alerts:        alerts,
	}, nil
}

func (s *service) GetAlerts(ctx context.Context) ([]Alert, error) {
	feeds, err := s.stock.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}

	pendingSince := s.now().UTC().AddDate(0, 0, -pendingWindowDays)
	pending, err := s.repo.ListPendingOrdersSince(ctx, pendingSince)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: pending orders")
	}

	return mergeAlerts(feeds, pending, maxAlerts), nil
}

func (s *service) collectMetrics(ctx context.Context, windowStart time.Time) (*Metrics, error) {
	products, err := s.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	customers, err := s.repo.CountActiveCustomers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count customers")
	}
	orders, err := s.repo.CountOrders(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	pending, err := s.repo.CountOrdersByStatus(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending")
	}

	stats, err := s.stock.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	windowRows, err := s.repo.ListOrdersSince(ctx, windowStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sales window")
	}
	windowRevenue := decimal.Zero
	for _, row := range windowRows {
		windowRevenue = windowRevenue.Add(row.TotalAmount)
	}

	return &Metrics{
		TotalProducts:  products,
		TotalCustomers: customers,
		TotalOrders:    orders,
		PendingOrders:  pending,
		LowStockCount:  stats.LowStockCount + stats.OutOfStockCount,
		ExpiringCount:  stats.ExpiringCount,
		InventoryValue: stats.TotalStockValue.Round(2),
		MonthOrders:    int64(len(windowRows)),
		MonthRevenue:   windowRevenue.Round(2),
	}, nil
}

// bucketMonthlySales folds order rows into per-month buckets. Buckets
// are emitted oldest first and empty months stay present so the chart
// keeps a fixed width.
func bucketMonthlySales(rows []salesOrderRecord, currentMonthStart time.Time, months int) []MonthlySale {
	buckets := make([]MonthlySale, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		month := currentMonthStart.AddDate(0, i-(months-1), 0)
		key := month.Format("2006-01")
		buckets[i] = MonthlySale{Month: key, Revenue: decimal.Zero}
		index[key] = i
	}

	for _, row := range rows {
		key := row.OrderDate.UTC().Format("2006-01")
		i, ok := index[key]
		if !ok {
			continue
		}
		buckets[i].Orders++
		buckets[i].Revenue = buckets[i].Revenue.Add(row.TotalAmount).Round(2)
	}
	return buckets
}

// mergeAlerts flattens the inventory feeds and pending orders into one
// capped list, most urgent first.
func mergeAlerts(feeds *inventory.AlertsView, pending []pendingOrderRecord, limit int) []Alert {
	alerts := make([]Alert, 0, limit)

	for _, row := range feeds.OutOfStock {
		productID := row.ProductID
		alerts = append(alerts, Alert{
			Kind:      "out_of_stock",
			Message:   fmt.Sprintf("%s (%s) is out of stock", row.ProductName, row.ProductSKU),
			ProductID: &productID,
		})
	}
	for _, row := range feeds.LowStock {
		productID := row.ProductID
		alerts = append(alerts, Alert{
			Kind:      "low_stock",
			Message:   fmt.Sprintf("%s (%s) is down to %d units", row.ProductName, row.ProductSKU, row.AvailableStock),
			ProductID: &productID,
		})
	}
	for _, row := range feeds.Expiring {
		productID := row.ProductID
		alert := Alert{
			Kind:       "expiring",
			Message:    fmt.Sprintf("%s (%s) expires soon", row.ProductName, row.ProductSKU),
			ProductID:  &productID,
			ExpiryDate: row.ExpiryDate,
		}
		if row.ExpiryDate != nil {
			alert.Message = fmt.Sprintf("%s (%s) expires on %s", row.ProductName, row.ProductSKU, row.ExpiryDate.Format("2006-01-02"))
		}
		alerts = append(alerts, alert)
	}
	for _, row := range pending {
		orderID := row.ID
		alerts = append(alerts, Alert{
			Kind:    "pending_order",
			Message: fmt.Sprintf("Order %s from %s is awaiting confirmation", row.OrderNumber, row.CustomerName),
			OrderID: &orderID,
		})
	}

	if len(alerts) > limit {
		alerts = alerts[:limit]
	}
	return alerts
}
