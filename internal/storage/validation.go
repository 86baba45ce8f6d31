// Package storage provides the data persistence layer for the tally application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tally-fin/tally/internal/common"
	"github.com/tally-fin/tally/internal/model"
	"github.com/tally-fin/tally/internal/service"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
)

// ErrNotFound wraps the shared sentinel so callers can match missing
// records with either errors.Is target.
var ErrNotFound = fmt.Errorf("record %w", common.ErrNotFound)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategoryFields validates the user-editable fields of a category.
func validateCategoryFields(fields service.CategoryFields) error {
	if strings.TrimSpace(fields.Name) == "" {
		return model.ErrEmptyName
	}
	if !fields.Kind.Valid() {
		return model.ErrInvalidKind
	}
	return nil
}

// validateTransactionFields validates the user-editable fields of a transaction.
func validateTransactionFields(fields service.TransactionFields) error {
	if err := fields.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(fields.Description) == "" {
		return model.ErrEmptyDescription
	}
	if !fields.Kind.Valid() {
		return model.ErrInvalidKind
	}
	if fields.Date.IsZero() {
		return model.ErrInvalidDate
	}
	return nil
}
