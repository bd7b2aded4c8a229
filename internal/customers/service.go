package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/db"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
	"github.com/medsup-innovation/medsup-backend/pkg/logger"
)

// Service exposes the customer directory operations.
type Service interface {
	ListCustomers(ctx context.Context, query CustomerListQuery) (*CustomerListResult, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerView, error)
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerView, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService wires the customer service with its dependencies.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer service requires a repository")
	}
	if logg == nil {
		return nil, fmt.Errorf("customer service requires a logger")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListCustomers(ctx context.Context, query CustomerListQuery) (*CustomerListResult, error) {
	result, err := s.repo.ListCustomers(ctx, customerListQuery{
		Pagination: query.Pagination,
		Filters:    query.Filters,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	return result, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerView, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get customer")
	}
	view := toCustomerView(customer)
	return &view, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerView, error) {
	customerType, err := enums.ParseCustomerType(input.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer type").
			WithDetails(map[string]any{"type": input.Type})
	}

	creditLimit := decimal.Zero
	if input.CreditLimit != nil {
		if input.CreditLimit.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit_limit must not be negative")
		}
		creditLimit = *input.CreditLimit
	}

	customer := &models.Customer{
		Name:          strings.TrimSpace(input.Name),
		Type:          customerType,
		ContactPerson: input.ContactPerson,
		Email:         normalizeEmailPtr(input.Email),
		Phone:         input.Phone,
		Address:       input.Address,
		City:          input.City,
		PostalCode:    input.PostalCode,
		Country:       input.Country,
		TaxNumber:     input.TaxNumber,
		PaymentTerms:  input.PaymentTerms,
		CreditLimit:   creditLimit,
		IsActive:      true,
	}

	created, err := s.repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{"customer_id": created.ID, "type": created.Type})
	s.logg.Info(logCtx, "customer.created")

	view := toCustomerView(created)
	return &view, nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerView, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get customer")
	}

	if err := applyUpdateToCustomer(customer, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}

	view := toCustomerView(updated)
	return &view, nil
}

func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate customer")
	}

	logCtx := s.logg.WithField(ctx, "customer_id", id)
	s.logg.Info(logCtx, "customer.deactivated")
	return nil
}

func applyUpdateToCustomer(customer *models.Customer, input UpdateCustomerInput) error {
	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Type != nil {
		customerType, err := enums.ParseCustomerType(*input.Type)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer type").
				WithDetails(map[string]any{"type": *input.Type})
		}
		customer.Type = customerType
	}
	if input.ContactPerson != nil {
		customer.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		customer.Email = normalizeEmailPtr(input.Email)
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.PostalCode != nil {
		customer.PostalCode = input.PostalCode
	}
	if input.Country != nil {
		customer.Country = input.Country
	}
	if input.TaxNumber != nil {
		customer.TaxNumber = input.TaxNumber
	}
	if input.PaymentTerms != nil {
		customer.PaymentTerms = input.PaymentTerms
	}
	if input.CreditLimit != nil {
		if input.CreditLimit.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "credit_limit must not be negative")
		}
		customer.CreditLimit = *input.CreditLimit
	}
	if input.IsActive != nil {
		customer.IsActive = *input.IsActive
	}
	return nil
}

func normalizeEmailPtr(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
