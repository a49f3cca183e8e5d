package dto

import (
	"time"

	"github.com/ebanklabs/ebank_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the operator request to open a customer account.
type CreateAccountRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	PIN   string `json:"pin" binding:"required,min=4,max=8"`
}

// AccountResponse is the API representation of an account.
type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Name          string          `json:"name"`
	Phone         string          `json:"phone"`
	MainBalance   decimal.Decimal `json:"mainBalance"`
	WalletBalance decimal.Decimal `json:"walletBalance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToAccountResponse maps a domain account to its API representation.
func ToAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: a.AccountNumber,
		Name:          a.Name,
		Phone:         a.Phone,
		MainBalance:   a.MainBalance,
		WalletBalance: a.WalletBalance,
		CreatedAt:     a.CreatedAt,
	}
}
