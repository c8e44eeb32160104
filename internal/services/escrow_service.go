package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coursebank/backend/internal/audit"
	"github.com/coursebank/backend/internal/models"
	"github.com/coursebank/backend/internal/repository"
)

// EscrowService moves money into limbo (hold) and out of it exactly once,
// either to the payee (settle) or back to the payer (release).
type EscrowService struct {
	store  repository.Store
	ledger *LedgerService
	audit  *audit.Logger
	now    func() time.Time
}

func NewEscrowService(store repository.Store, ledger *LedgerService, auditLogger *audit.Logger) *EscrowService {
	return &EscrowService{
		store:  store,
		ledger: ledger,
		audit:  auditLogger,
		now:    time.Now,
	}
}

// HoldTx debits the payer and records a HELD transfer. The payee is not
// credited until SettleTx.
func (s *EscrowService) HoldTx(ctx context.Context, tx repository.Tx, payerAccountID, payeeAccountID string, amount decimal.Decimal, secret, reference string) (*models.EscrowTransfer, error) {
	if payerAccountID == payeeAccountID {
		return nil, fmt.Errorf("payer and payee are the same account: %w", models.ErrValidation)
	}
	if _, err := tx.AccountByID(ctx, payeeAccountID); err != nil {
		return nil, err
	}

	transfer := &models.EscrowTransfer{
		ID:             uuid.NewString(),
		PayerAccountID: payerAccountID,
		PayeeAccountID: payeeAccountID,
		Amount:         amount,
		State:          models.TransferHeld,
		Reference:      reference,
		CreatedAt:      s.now().UTC(),
	}

	if _, err := s.ledger.DebitTx(ctx, tx, payerAccountID, amount, models.EntryPending, transfer.ID, secret); err != nil {
		return nil, err
	}

	if err := tx.CreateTransfer(ctx, transfer); err != nil {
		return nil, err
	}

	return transfer, nil
}

// SettleTx credits the payee of a HELD transfer.
func (s *EscrowService) SettleTx(ctx context.Context, tx repository.Tx, transferID string) (*models.EscrowTransfer, error) {
	return s.resolveTx(ctx, tx, transferID, models.TransferSettled)
}

// ReleaseTx refunds the payer of a HELD transfer.
func (s *EscrowService) ReleaseTx(ctx context.Context, tx repository.Tx, transferID string) (*models.EscrowTransfer, error) {
	return s.resolveTx(ctx, tx, transferID, models.TransferReleased)
}

func (s *EscrowService) resolveTx(ctx context.Context, tx repository.Tx, transferID string, to models.TransferState) (*models.EscrowTransfer, error) {
	transfer, err := tx.LockTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if transfer.State != models.TransferHeld {
		return nil, fmt.Errorf("transfer %s is already %s: %w", transferID, transfer.State, models.ErrInvalidState)
	}

	now := s.now().UTC()
	if err := tx.ResolveTransfer(ctx, transferID, to, now); err != nil {
		return nil, err
	}

	creditAccount, kind := transfer.PayeeAccountID, models.EntrySettled
	if to == models.TransferReleased {
		creditAccount, kind = transfer.PayerAccountID, models.EntryReleased
	}
	if _, err := s.ledger.CreditTx(ctx, tx, creditAccount, transfer.Amount, kind, transferID); err != nil {
		return nil, err
	}

	transfer.State = to
	transfer.ResolvedAt = &now
	return transfer, nil
}

func (s *EscrowService) Hold(ctx context.Context, payerAccountID, payeeAccountID string, amount decimal.Decimal, secret, reference string) (*models.EscrowTransfer, error) {
	var transfer *models.EscrowTransfer
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		transfer, err = s.HoldTx(ctx, tx, payerAccountID, payeeAccountID, amount, secret, reference)
		return err
	})
	if err != nil {
		s.audit.LogError("HOLD", reference, err)
		return nil, err
	}

	s.record(transfer)
	return transfer, nil
}

func (s *EscrowService) Settle(ctx context.Context, transferID string) (*models.EscrowTransfer, error) {
	return s.resolve(ctx, transferID, s.SettleTx)
}

func (s *EscrowService) Release(ctx context.Context, transferID string) (*models.EscrowTransfer, error) {
	return s.resolve(ctx, transferID, s.ReleaseTx)
}

func (s *EscrowService) resolve(ctx context.Context, transferID string, fn func(context.Context, repository.Tx, string) (*models.EscrowTransfer, error)) (*models.EscrowTransfer, error) {
	var transfer *models.EscrowTransfer
	err := s.store.WithTx(ctx, func(tx repository.Tx) error {
		var err error
		transfer, err = fn(ctx, tx, transferID)
		return err
	})
	if err != nil {
		s.audit.LogError("RESOLVE", transferID, err)
		return nil, err
	}

	s.record(transfer)
	return transfer, nil
}

// record writes the audit line for a committed transfer change.
func (s *EscrowService) record(transfer *models.EscrowTransfer) {
	switch transfer.State {
	case models.TransferHeld:
		s.audit.LogHold(transfer.ID, transfer.PayerAccountID, transfer.PayeeAccountID, transfer.Reference, transfer.Amount)
	case models.TransferSettled:
		s.audit.LogSettle(transfer.ID, transfer.PayeeAccountID, transfer.Amount)
	case models.TransferReleased:
		s.audit.LogRelease(transfer.ID, transfer.PayerAccountID, transfer.Amount)
	}
	log.Printf("[ESCROW] Transfer %s %s: %s", transfer.ID, transfer.State, transfer.Amount.StringFixed(2))
}
