package dto

import "github.com/ebanklabs/ebank_backend/internal/core/domain"

// CustomerLoginRequest authenticates a customer by phone number and PIN.
type CustomerLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required"`
}

// OperatorLoginRequest authenticates the bank operator.
type OperatorLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token         string `json:"token"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// ResolveAlertRequest toggles the resolved flag of a fraud alert.
type ResolveAlertRequest struct {
	Resolved *bool `json:"resolved" binding:"required"`
}

// FlagsResponse wraps detector findings for dashboard views.
type FlagsResponse struct {
	TransactionFlags []domain.FraudFlag `json:"transactionFlags"`
	LoginFlags       []domain.FraudFlag `json:"loginFlags"`
}
