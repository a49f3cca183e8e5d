package domain

import "github.com/shopspring/decimal"

// BalanceChange is the net effect of one ledger operation on a single account.
// Deltas may be negative; the store rejects any change that would leave either
// balance negative.
type BalanceChange struct {
	Main   decimal.Decimal
	Wallet decimal.Decimal
}

// Add combines two balance changes affecting the same account.
func (b BalanceChange) Add(other BalanceChange) BalanceChange {
	return BalanceChange{
		Main:   b.Main.Add(other.Main),
		Wallet: b.Wallet.Add(other.Wallet),
	}
}

// ReconciliationMismatch reports one account whose stored balances do not match
// the balances recomputed from its transaction log.
type ReconciliationMismatch struct {
	AccountNumber  string          `json:"accountNumber"`
	StoredMain     decimal.Decimal `json:"storedMain"`
	ComputedMain   decimal.Decimal `json:"computedMain"`
	StoredWallet   decimal.Decimal `json:"storedWallet"`
	ComputedWallet decimal.Decimal `json:"computedWallet"`
}

// ReconciliationReport is the outcome of replaying the transaction log against
// stored balances. An empty Mismatches slice means the ledger reconciles.
type ReconciliationReport struct {
	AccountsChecked int                      `json:"accountsChecked"`
	Mismatches      []ReconciliationMismatch `json:"mismatches,omitempty"`
}

// BankSummary aggregates bank-wide balance totals for the operator dashboard.
type BankSummary struct {
	TotalAccounts      int             `json:"totalAccounts"`
	TotalMainBalance   decimal.Decimal `json:"totalMainBalance"`
	TotalWalletBalance decimal.Decimal `json:"totalWalletBalance"`
}
