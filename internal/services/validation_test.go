package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/coursebank/backend/internal/models"
)

type TestStruct struct {
	Name  string `validate:"required,min=2"`
	Email string `validate:"required,email"`
	Age   int    `validate:"required,gte=18"`
}

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid struct", func(t *testing.T) {
		valid := TestStruct{
			Name:  "John Doe",
			Email: "john@example.com",
			Age:   25,
		}

		err := vh.ValidateStruct(&valid)
		assert.NoError(t, err)
	})

	t.Run("invalid struct - missing required fields", func(t *testing.T) {
		invalid := TestStruct{
			Name: "J", // Too short
			// Email missing
			Age: 16, // Too young
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 3) // Name, Email, Age errors
	})

	t.Run("invalid email format", func(t *testing.T) {
		invalid := TestStruct{
			Name:  "John Doe",
			Email: "invalid-email",
			Age:   25,
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 1)
		assert.Equal(t, "Email", validationErrors[0].Field())
		assert.Equal(t, "email", validationErrors[0].Tag())
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("error response without validation errors", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Something went wrong", http.StatusInternalServerError, nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Something went wrong", response.Error)
		assert.Nil(t, response.Details)
	})

	t.Run("error response with validation errors", func(t *testing.T) {
		vh := NewValidationHelper()
		invalid := TestStruct{
			Name:  "J",
			Email: "invalid-email",
			Age:   16,
		}

		validationErr := vh.ValidateStruct(&invalid)
		assert.Error(t, validationErr)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Validation failed", response.Error)
		assert.NotNil(t, response.Details)
		assert.Contains(t, response.Details, "Name")
		assert.Contains(t, response.Details, "Email")
		assert.Contains(t, response.Details, "Age")
	})

	t.Run("bad request error", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Invalid request", response.Error)
	})

	t.Run("unauthorized error", func(t *testing.T) {
		w := httptest.NewRecorder()

		SendErrorResponse(w, "Unauthorized access", http.StatusUnauthorized, nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var response ErrorResponse
		err := json.Unmarshal(w.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Unauthorized access", response.Error)
	})
}

func TestNewValidationHelper(t *testing.T) {
	vh := NewValidationHelper()
	assert.NotNil(t, vh)
	assert.NotNil(t, vh.validator)
}

func TestSendErrorResponse_ValidationCode(t *testing.T) {
	vh := NewValidationHelper()
	validationErr := vh.ValidateStruct(&TestStruct{Name: "Jo", Email: "jo@example.com"})

	w := httptest.NewRecorder()
	SendErrorResponse(w, "Validation failed", http.StatusBadRequest, validationErr)

	var response ErrorResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_FAILED", response.Code)
	assert.Equal(t, models.ActionRetryWithDifferentInput, response.Action)
	assert.Contains(t, response.Details, "Age")
}

func TestSendServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantAction models.Action
	}{
		{"unauthorized", fmt.Errorf("bad secret: %w", models.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHORIZED", models.ActionReauthenticate},
		{"already enrolled", models.ErrAlreadyEnrolled, http.StatusConflict, "ALREADY_ENROLLED", models.ActionDoNotRetry},
		{"invalid amount", models.ErrInvalidAmount, http.StatusUnprocessableEntity, "INVALID_AMOUNT", models.ActionRetryWithDifferentInput},
		{"insufficient funds", models.ErrInsufficientFunds, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", models.ActionRetryWithDifferentInput},
		{"invalid state", models.ErrInvalidState, http.StatusConflict, "INVALID_STATE", models.ActionDoNotRetry},
		{"not found", models.ErrNotFound, http.StatusNotFound, "NOT_FOUND", models.ActionDoNotRetry},
		{"already answered", models.ErrAlreadyAnswered, http.StatusConflict, "ALREADY_ANSWERED", models.ActionDoNotRetry},
		{"forbidden", models.ErrForbidden, http.StatusForbidden, "FORBIDDEN", models.ActionDoNotRetry},
		{"validation", models.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED", models.ActionRetryWithDifferentInput},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL", models.ActionRetryLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SendServiceError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var response ErrorResponse
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Code)
			assert.Equal(t, tt.wantAction, response.Action)
		})
	}

	t.Run("internal errors are not leaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendServiceError(w, errors.New("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}
