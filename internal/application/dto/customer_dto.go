package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name      string           `json:"name" validate:"required,min=1,max=200"`
	Phone     string           `json:"phone,omitempty"`
	DebtLimit *decimal.Decimal `json:"debt_limit,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID             string           `json:"id"`
	PharmacyID     string           `json:"pharmacy_id"`
	Name           string           `json:"name"`
	Phone          string           `json:"phone,omitempty"`
	IsCashCustomer bool             `json:"is_cash_customer"`
	DebtLimit      *decimal.Decimal `json:"debt_limit,omitempty"`
}
