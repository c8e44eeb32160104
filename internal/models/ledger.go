package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryDeposit  EntryKind = "DEPOSIT"
	EntryWithdraw EntryKind = "WITHDRAW"
	EntryPending  EntryKind = "PENDING"
	EntrySettled  EntryKind = "SETTLED"
	EntryReleased EntryKind = "RELEASED"
)

// LedgerEntry is an immutable balance change. Amount is signed.
type LedgerEntry struct {
	ID              int64           `json:"id" db:"id"`
	AccountID       string          `json:"accountId" db:"account_id"`
	Kind            EntryKind       `json:"kind" db:"kind"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Balance         decimal.Decimal `json:"balance" db:"balance"` // balance after this entry
	CounterpartyRef string          `json:"counterpartyRef" db:"counterparty_ref"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

type Account struct {
	ID            string          `json:"id" db:"id"`
	OwnerID       string          `json:"ownerId" db:"owner_id"`
	AccountNumber string          `json:"accountNumber" db:"account_number"`
	SecretHash    string          `json:"-" db:"secret_hash"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	Version       int             `json:"-" db:"version"` // for optimistic locking
	CreatedAt     time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time       `json:"updatedAt" db:"updated_at"`
}
