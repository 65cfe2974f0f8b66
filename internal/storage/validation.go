// Package storage provides the persistence layer that caches the normalized
// deal collection between CLI invocations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dealstack/dealstack/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = errors.New("string parameter cannot be empty")
	ErrEmptySlice  = errors.New("slice cannot be empty")
)

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

// validateDeals ensures a replace operation carries at least one deal, so an
// accidental empty load cannot silently wipe the cache.
func validateDeals(deals []model.Deal) error {
	if len(deals) == 0 {
		return fmt.Errorf("%w: deals", ErrEmptySlice)
	}
	return nil
}
