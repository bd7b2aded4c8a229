package customers

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
	"github.com/medsup-innovation/medsup-backend/pkg/enums"
	pkgerrors "github.com/medsup-innovation/medsup-backend/pkg/errors"
)

func TestApplyUpdateToCustomer(t *testing.T) {
	customer := &models.Customer{
		Name:     "General Hospital",
		Type:     enums.CustomerTypeHospital,
		IsActive: true,
	}

	name := "  City Clinic "
	typ := "clinic"
	email := " Billing@Clinic.example "
	limit := decimal.RequireFromString("5000.00")

	err := applyUpdateToCustomer(customer, UpdateCustomerInput{
		Name:        &name,
		Type:        &typ,
		Email:       &email,
		CreditLimit: &limit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if customer.Name != "City Clinic" {
		t.Fatalf("expected trimmed name, got %q", customer.Name)
	}
	if customer.Type != enums.CustomerTypeClinic {
		t.Fatalf("expected clinic type, got %s", customer.Type)
	}
	if customer.Email == nil || *customer.Email != "billing@clinic.example" {
		t.Fatalf("expected normalized email, got %v", customer.Email)
	}
	if !customer.CreditLimit.Equal(limit) {
		t.Fatalf("expected credit limit %s, got %s", limit, customer.CreditLimit)
	}
}

func TestApplyUpdateToCustomerRejectsBadType(t *testing.T) {
	typ := "warehouse"
	err := applyUpdateToCustomer(&models.Customer{}, UpdateCustomerInput{Type: &typ})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestApplyUpdateToCustomerRejectsNegativeCreditLimit(t *testing.T) {
	limit := decimal.RequireFromString("-1")
	err := applyUpdateToCustomer(&models.Customer{}, UpdateCustomerInput{CreditLimit: &limit})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestNormalizeEmailPtr(t *testing.T) {
	empty := "   "
	if got := normalizeEmailPtr(&empty); got != nil {
		t.Fatalf("expected nil for blank email, got %v", got)
	}
	if got := normalizeEmailPtr(nil); got != nil {
		t.Fatalf("expected nil passthrough, got %v", got)
	}
}
