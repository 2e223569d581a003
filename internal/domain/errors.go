package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInputRejected      = errors.New("input rejected")
	ErrProviderFailure    = errors.New("provider failure")
	ErrLedgerInconsistent = errors.New("ledger inconsistent")
)
