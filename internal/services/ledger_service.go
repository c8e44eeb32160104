package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coursebank/backend/internal/audit"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
	"github.com/coursebank/backend/internal/secrets"
)

// PlatformOwnerID owns the account that collects course-creation fees.
const PlatformOwnerID = "platform"

// LedgerService owns account balances. Every balance change appends exactly one
// ledger entry in the same transaction, so Balance always equals the sum of
// the account's entries.
type LedgerService struct {
	store  repository.Store
	hasher *secrets.Hasher
	audit  *audit.Logger
	now    func() time.Time
}

// AccountView is an account with its full history, oldest first.
type AccountView struct {
	*models.Account
	History []models.LedgerEntry `json:"history"`
}

func NewLedgerService(store repository.Store, hasher *secrets.Hasher, auditLogger *audit.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		hasher: hasher,
		audit:  auditLogger,
		now:    time.Now,
	}
}

// Open creates the single bank account of ownerID with a zero balance.
func (s *LedgerService) Open(ctx context.Context, ownerID, accountNumber, secret string) (*models.Account, error) {
	if ownerID == "" || accountNumber == "" || secret == "" {
		return nil, fmt.Errorf("owner, account number and secret are required: %w", models.ErrValidation)
	}

	secretHash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, fmt.Errorf("hash account secret: %w", err)
	}

	now := s.now().UTC()
	account := &models.Account{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		AccountNumber: accountNumber,
		SecretHash:    secretHash,
		Balance:       decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.store.WithTx(ctx, func(tx repository.Tx) error {
		return tx.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEDGER] Opened account %s (%s) for owner %s", account.ID, account.AccountNumber, ownerID)
	return account, nil
}

// EnsurePlatformAccount returns the fee account, opening it on first start.
// An empty secret leaves the account without any usable debit secret.
func (s *LedgerService) EnsurePlatformAccount(ctx context.Context, accountNumber, secret string) (*models.Account, error) {
	account, err := s.store.AccountByOwner(ctx, PlatformOwnerID)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	if secret == "" {
		secret = uuid.NewString()
	}
	account, err = s.Open(ctx, PlatformOwnerID, accountNumber, secret)
	if errors.Is(err, models.ErrConflict) {
		// opened concurrently by another instance
		return s.store.AccountByOwner(ctx, PlatformOwnerID)
	}
	return account, err
}

// CreditTx adds amount to the account inside tx.
func (s *LedgerService) CreditTx(ctx context.Context, tx repository.Tx, accountID string, amount decimal.Decimal, kind models.EntryKind, ref string) (*models.LedgerEntry, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	account, err := tx.LockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if after := account.Balance.Add(amount); after.GreaterThanOrEqual(maxAmount) {
		return nil, fmt.Errorf("balance of account %s would reach %s: %w", account.AccountNumber, after.StringFixed(2), models.ErrInvalidAmount)
	}

	return s.apply(ctx, tx, account, amount, kind, ref)
}

// DebitTx removes amount from the account inside tx. It is the only place an
// account secret is checked.
func (s *LedgerService) DebitTx(ctx context.Context, tx repository.Tx, accountID string, amount decimal.Decimal, kind models.EntryKind, ref, secret string) (*models.LedgerEntry, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}

	account, err := tx.LockAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(secret, account.SecretHash)
	if err != nil || !ok {
		return nil, fmt.Errorf("bank secret rejected for account %s: %w", account.AccountNumber, models.ErrUnauthorized)
	}

	if account.Balance.LessThan(amount) {
		return nil, fmt.Errorf("balance %s is below %s: %w", account.Balance.StringFixed(2), amount.StringFixed(2), models.ErrInsufficientFunds)
	}

	return s.apply(ctx, tx, account, amount.Neg(), kind, ref)
}

func (s *LedgerService) apply(ctx context.Context, tx repository.Tx, account *models.Account, delta decimal.Decimal, kind models.EntryKind, ref string) (*models.LedgerEntry, error) {
	now := s.now().UTC()

	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = now
	if err := tx.SaveBalance(ctx, account); err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		AccountID:       account.ID,
		Kind:            kind,
		Amount:          delta,
		Balance:         account.Balance,
		CounterpartyRef: ref,
		CreatedAt:       now,
	}
	if err := tx.AppendEntry(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Deposit credits the caller's own account. No secret is needed to add money.
func (s *LedgerService) Deposit(ctx context.Context, ownerID string, amount decimal.Decimal) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		account, err := tx.LockAccountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		entry, err = s.CreditTx(ctx, tx, account.ID, amount, models.EntryDeposit, "deposit")
		return err
	})
	if err != nil {
		s.audit.LogError("DEPOSIT", ownerID, err)
		return nil, err
	}

	s.audit.LogOperation(entry.AccountID, "DEPOSIT", amount, "")
	log.Printf("[LEDGER] Deposit of %s to account %s, balance %s", amount.StringFixed(2), entry.AccountID, entry.Balance.StringFixed(2))
	return entry, nil
}

func (s *LedgerService) Withdraw(ctx context.Context, ownerID string, amount decimal.Decimal, secret string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		account, err := tx.LockAccountByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		entry, err = s.DebitTx(ctx, tx, account.ID, amount, models.EntryWithdraw, "withdrawal", secret)
		return err
	})
	if err != nil {
		s.audit.LogError("WITHDRAW", ownerID, err)
		return nil, err
	}

	s.audit.LogOperation(entry.AccountID, "WITHDRAW", amount, "")
	log.Printf("[LEDGER] Withdrawal of %s from account %s, balance %s", amount.StringFixed(2), entry.AccountID, entry.Balance.StringFixed(2))
	return entry, nil
}

// Account returns the caller's balance and history.
func (s *LedgerService) Account(ctx context.Context, ownerID string) (*AccountView, error) {
	account, err := s.store.AccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	history, err := s.store.Entries(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	return &AccountView{Account: account, History: history}, nil
}

func (s *LedgerService) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.store.AccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (s *LedgerService) History(ctx context.Context, accountID string) ([]models.LedgerEntry, error) {
	if _, err := s.store.AccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.store.Entries(ctx, accountID)
}

// maxAmount bounds amounts and balances to what NUMERIC(18,2) holds.
var maxAmount = decimal.New(1, 16)

// checkAmount accepts positive amounts below maxAmount with at most two
// decimal places.
func checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("amount must be positive, got %s: %w", amount.String(), models.ErrInvalidAmount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount %s exceeds 16 integer digits: %w", amount.String(), models.ErrInvalidAmount)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("amount %s has more than two decimal places: %w", amount.String(), models.ErrInvalidAmount)
	}
	return nil
}
