package handlers

import (
	"net/http"

	"github.com/coursebank/backend/internal/services"
)

// BankHandler exposes the caller's own ledger account.
type BankHandler struct {
	ledger    *services.LedgerService
	validator *services.ValidationHelper
}

func NewBankHandler(ledger *services.LedgerService) *BankHandler {
	return &BankHandler{
		ledger:    ledger,
		validator: services.NewValidationHelper(),
	}
}

// OpenAccount opens the caller's bank account
// @Summary Open bank account
// @Description Open the caller's single account with a zero balance and a bank secret
// @Tags bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{accountNumber=string,secret=string} true "Account request"
// @Success 201 {object} models.Account
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /bank/accounts [post]
func (h *BankHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		AccountNumber string `json:"accountNumber" validate:"required,numeric,min=6,max=20"`
		Secret        string `json:"secret" validate:"required,min=4,max=64"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	account, err := h.ledger.Open(r.Context(), userID, req.AccountNumber, req.Secret)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

// GetAccount returns the caller's balance and history
// @Summary Get bank account
// @Description Balance and ledger entries of the caller's account, oldest first
// @Tags bank
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.AccountView
// @Failure 404 {object} services.ErrorResponse
// @Router /bank/accounts/me [get]
func (h *BankHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	view, err := h.ledger.Account(r.Context(), userID)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Deposit adds money to the caller's account
// @Summary Deposit
// @Description Credit the caller's account. Amounts are decimal strings or numbers with at most two decimals
// @Tags bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{amount=string} true "Deposit request"
// @Success 200 {object} object{success=bool,entry=models.LedgerEntry,balance=string}
// @Failure 404 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /bank/deposit [post]
func (h *BankHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount amountField `json:"amount"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	amount, err := req.Amount.Decimal("amount")
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	entry, err := h.ledger.Deposit(r.Context(), userID, amount)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entry":   entry,
		"balance": entry.Balance,
	})
}

// Withdraw takes money out of the caller's account
// @Summary Withdraw
// @Description Debit the caller's account after checking the bank secret
// @Tags bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{amount=string,secret=string} true "Withdrawal request"
// @Success 200 {object} object{success=bool,entry=models.LedgerEntry,balance=string}
// @Failure 401 {object} services.ErrorResponse
// @Failure 402 {object} services.ErrorResponse
// @Failure 422 {object} services.ErrorResponse
// @Router /bank/withdraw [post]
func (h *BankHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount amountField `json:"amount"`
		Secret string      `json:"secret" validate:"required"`
	}
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}

	amount, err := req.Amount.Decimal("amount")
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	entry, err := h.ledger.Withdraw(r.Context(), userID, amount, req.Secret)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"entry":   entry,
		"balance": entry.Balance,
	})
}
