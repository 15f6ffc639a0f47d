package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidConfiguration is wrapped by every fatal configuration problem
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ConfigurationError is a fatal, caller-must-fix problem located by Scope
type ConfigurationError struct {
	Scope  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Scope, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

func configErrorf(scope, format string, args ...any) error {
	return &ConfigurationError{Scope: scope, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationWarning reports an allocation group whose shares do not total 100.
// The run proceeds with the raw percentages.
type ConfigurationWarning struct {
	Scope       string          `json:"scope"`
	ActualTotal decimal.Decimal `json:"actual_total"`
}

func (w ConfigurationWarning) String() string {
	return fmt.Sprintf("%s allocation totals %s%%, expected 100%%", w.Scope, w.ActualTotal.String())
}
