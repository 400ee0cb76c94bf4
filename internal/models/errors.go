package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotThisDialect indicates the rule does not belong to the expected dialect
	ErrNotThisDialect = errors.New("rule is not of the expected dialect")

	// ErrMalformedSyntax indicates the call syntax could not be tokenized
	ErrMalformedSyntax = errors.New("malformed rule syntax")

	// ErrUnknownName indicates a scriptlet or redirect name missing from the registry
	ErrUnknownName = errors.New("unknown scriptlet or redirect name")

	// ErrInconvertible indicates there is no equivalent in the target dialect
	ErrInconvertible = errors.New("rule cannot be converted")
)

// RuleError carries the offending rule alongside one of the sentinel errors
type RuleError struct {
	Rule   string
	Reason string
	Err    error
}

// NewRuleError wraps err with the rule text and a short reason
func NewRuleError(err error, rule, reason string) *RuleError {
	return &RuleError{Rule: rule, Reason: reason, Err: err}
}

func (e *RuleError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", e.Err, e.Rule)
	}
	return fmt.Sprintf("%v: %s: %s", e.Err, e.Reason, e.Rule)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
