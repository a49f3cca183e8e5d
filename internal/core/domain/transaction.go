package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry by the balance movement it records.
type TransactionType string

const (
	// Deposit credits the main balance from outside the bank.
	Deposit TransactionType = "deposit"
	// WithdrawToWallet moves funds from the main balance into the wallet balance.
	WithdrawToWallet TransactionType = "withdraw_to_wallet"
	// TransferOut debits the sender side of an inter-account transfer.
	TransferOut TransactionType = "transfer_out"
	// TransferIn credits the receiver side of an inter-account transfer.
	TransferIn TransactionType = "transfer_in"
)

// Direction reports whether a transaction of this type credits or debits the
// main balance of its owning account. WithdrawToWallet is a debit of the main
// balance even though the funds stay with the customer.
func (t TransactionType) Direction() int {
	switch t {
	case Deposit, TransferIn:
		return 1
	case WithdrawToWallet, TransferOut:
		return -1
	}
	return 0
}

// Transaction is an immutable ledger fact recording a single balance movement on
// one account. A transfer produces two Transaction rows, one per side, linked
// only by CounterpartyAccount; there is no foreign key between them.
type Transaction struct {
	TransactionID       string          `json:"transactionID"`                 // Primary key (UUID)
	AccountNumber       string          `json:"accountNumber"`                 // Owning account
	Type                TransactionType `json:"type"`                          //
	Amount              decimal.Decimal `json:"amount"`                        // Always positive
	Details             string          `json:"details"`                       // Free text
	CounterpartyAccount string          `json:"counterpartyAccount,omitempty"` // Set for transfer_out/transfer_in
	CreatedAt           time.Time       `json:"createdAt"`                     // Stamped by the store at commit
}
