package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FlagKind enumerates the reasons the fraud detector can raise.
type FlagKind string

const (
	// StatisticalOutlier marks a transaction whose amount lies >= 3 standard
	// deviations from the account's mean transaction amount.
	StatisticalOutlier FlagKind = "statistical_outlier"
	// HighFrequency marks a burst of transactions within the frequency window.
	HighFrequency FlagKind = "high_frequency"
	// LargeWithdrawal marks a wallet withdrawal at or above the configured threshold.
	LargeWithdrawal FlagKind = "large_withdrawal"
	// LoginBruteForce marks repeated failed logins for one identifier.
	LoginBruteForce FlagKind = "login_brute_force"
)

// Severity grades how urgently a flag needs operator attention.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FraudFlag is a structured finding produced by the fraud detector. Flags are
// data, not errors: scoring a clean history returns an empty slice.
type FraudFlag struct {
	AccountNumber string          `json:"accountNumber,omitempty"` // Empty for system-wide flags
	Kind          FlagKind        `json:"kind"`
	Description   string          `json:"description"`
	Severity      Severity        `json:"severity"`
	TriggerID     string          `json:"triggerID,omitempty"` // Transaction or attempt that raised the flag
	Amount        decimal.Decimal `json:"amount,omitempty"`    // Set for amount-based flags
	Count         int             `json:"count,omitempty"`     // Set for window-count flags
	ObservedAt    time.Time       `json:"observedAt"`
}

// FraudAlert is a persisted FraudFlag awaiting operator review. Alerts are
// append-only except for the Resolved field, which an operator may toggle.
type FraudAlert struct {
	AlertID       string    `json:"alertID"`                 // Primary key (UUID)
	AccountNumber string    `json:"accountNumber,omitempty"` // Empty for system-wide alerts
	Kind          FlagKind  `json:"kind"`
	Description   string    `json:"description"`
	Severity      Severity  `json:"severity"`
	TriggerID     string    `json:"triggerID,omitempty"`
	Resolved      bool      `json:"resolved"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
