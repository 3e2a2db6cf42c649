package common

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the ledger client and the store. Callers branch on
// these with errors.Is/errors.As; reason strings from contract reverts are
// carried verbatim in RevertError.
var (
	ErrNotConnected    = errors.New("ledger not connected")
	ErrUserRejected    = errors.New("transaction rejected by signer")
	ErrNetworkMismatch = errors.New("connected to unexpected network")
	ErrStaleSession    = errors.New("ledger session changed during operation")

	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotFound         = errors.New("record not found")

	ErrAlreadyVoted = errors.New("already voted in this election")
	ErrNotEligible  = errors.New("not eligible to vote in this election")
)

// RevertError is a contract-level business rule rejection. The reason string
// is preserved exactly as the contract reported it.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return e.Reason
}

func NewRevertError(reason string) *RevertError {
	return &RevertError{Reason: reason}
}

// ValidationError rejects an operation before any ledger or store write is
// attempted.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
