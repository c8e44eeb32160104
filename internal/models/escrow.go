package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransferState string

const (
	TransferHeld     TransferState = "HELD"
	TransferSettled  TransferState = "SETTLED"
	TransferReleased TransferState = "RELEASED"
)

// EscrowTransfer is money taken from the payer and not yet credited to anyone.
// It resolves exactly once: SETTLED credits the payee, RELEASED refunds the payer.
type EscrowTransfer struct {
	ID             string          `json:"id" db:"id"`
	PayerAccountID string          `json:"payerAccountId" db:"payer_account_id"`
	PayeeAccountID string          `json:"payeeAccountId" db:"payee_account_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	State          TransferState   `json:"state" db:"state"`
	Reference      string          `json:"reference" db:"reference"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	ResolvedAt     *time.Time      `json:"resolvedAt,omitempty" db:"resolved_at"`
}
