package dto

import (
	"github.com/shopspring/decimal"
)

// DepositRequest credits the authenticated account's main balance.
type DepositRequest struct {
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Details string          `json:"details"`
}

// WithdrawToWalletRequest moves funds from the main balance into the wallet.
type WithdrawToWalletRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest moves funds from the authenticated account to another one.
type TransferRequest struct {
	ToAccount string          `json:"toAccount" binding:"required,acctnum"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Details   string          `json:"details"`
}
