package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	"github.com/medsup-innovation/medsup-backend/pkg/pagination"
)

// CustomerListFilters narrows the customer listing.
type CustomerListFilters struct {
	Type   *enums.CustomerType
	Active *bool
	Query  string
}

// CustomerListQuery bundles filters with pagination.
type CustomerListQuery struct {
	Pagination pagination.Params
	Filters    CustomerListFilters
}

// CustomerView is the customer payload returned by the API.
type CustomerView struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Type          enums.CustomerType `json:"type"`
	ContactPerson *string            `json:"contact_person"`
	Email         *string            `json:"email"`
	Phone         *string            `json:"phone"`
	Address       *string            `json:"address"`
	City          *string            `json:"city"`
	PostalCode    *string            `json:"postal_code"`
	Country       *string            `json:"country"`
	TaxNumber     *string            `json:"tax_number"`
	PaymentTerms  *string            `json:"payment_terms"`
	CreditLimit   decimal.Decimal    `json:"credit_limit"`
	IsActive      bool               `json:"is_active"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// CustomerListResult is a page of customers plus the unpaged total.
type CustomerListResult struct {
	Customers []CustomerView `json:"customers"`
	Total     int64          `json:"total"`
}

// CreateCustomerInput carries the fields accepted when adding a customer.
type CreateCustomerInput struct {
	Name          string           `json:"name" validate:"required,min=2,max=200"`
	Type          string           `json:"type" validate:"required"`
	ContactPerson *string          `json:"contact_person" validate:"omitempty,max=200"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Phone         *string          `json:"phone" validate:"omitempty,max=32"`
	Address       *string          `json:"address" validate:"omitempty,max=500"`
	City          *string          `json:"city" validate:"omitempty,max=100"`
	PostalCode    *string          `json:"postal_code" validate:"omitempty,max=16"`
	Country       *string          `json:"country" validate:"omitempty,max=100"`
	TaxNumber     *string          `json:"tax_number" validate:"omitempty,max=64"`
	PaymentTerms  *string          `json:"payment_terms" validate:"omitempty,max=100"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerInput carries the optional fields for a partial update.
type UpdateCustomerInput struct {
	Name          *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Type          *string          `json:"type"`
	ContactPerson *string          `json:"contact_person" validate:"omitempty,max=200"`
	Email         *string          `json:"email" validate:"omitempty,email"`
	Phone         *string          `json:"phone" validate:"omitempty,max=32"`
	Address       *string          `json:"address" validate:"omitempty,max=500"`
	City          *string          `json:"city" validate:"omitempty,max=100"`
	PostalCode    *string          `json:"postal_code" validate:"omitempty,max=16"`
	Country       *string          `json:"country" validate:"omitempty,max=100"`
	TaxNumber     *string          `json:"tax_number" validate:"omitempty,max=64"`
	PaymentTerms  *string          `json:"payment_terms" validate:"omitempty,max=100"`
	CreditLimit   *decimal.Decimal `json:"credit_limit"`
	IsActive      *bool            `json:"is_active"`
}

func toCustomerView(customer *models.Customer) CustomerView {
	return CustomerView{
		ID:            customer.ID,
		Name:          customer.Name,
		Type:          customer.Type,
		ContactPerson: customer.ContactPerson,
		Email:         customer.Email,
		Phone:         customer.Phone,
		Address:       customer.Address,
		City:          customer.City,
		PostalCode:    customer.PostalCode,
		Country:       customer.Country,
		TaxNumber:     customer.TaxNumber,
		PaymentTerms:  customer.PaymentTerms,
		CreditLimit:   customer.CreditLimit,
		IsActive:      customer.IsActive,
		CreatedAt:     customer.CreatedAt,
		UpdatedAt:     customer.UpdatedAt,
	}
}
