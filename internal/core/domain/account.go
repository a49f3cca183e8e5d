package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a customer bank account within the core domain.
// This is the primary representation used by services. Balances are mutated
// only through the ledger service; both are invariantly non-negative.
type Account struct {
	AccountNumber string          `json:"accountNumber"` // Unique 8-digit numeric identifier
	Name          string          `json:"name"`          // Customer name
	Phone         string          `json:"phone"`         // Login identifier, unique
	PINHash       string          `json:"-"`             // bcrypt hash, never serialized
	MainBalance   decimal.Decimal `json:"mainBalance"`   // Primary balance
	WalletBalance decimal.Decimal `json:"walletBalance"` // Wallet balance
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}
