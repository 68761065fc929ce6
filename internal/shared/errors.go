package shared

import "errors"

// Domain error taxonomy. Services wrap these with %w so handlers can map
// them to HTTP statuses with errors.Is.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates bad or duplicate input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates deletion blocked by dependents or a system flag.
	ErrConflict = errors.New("conflict")
	// ErrUnbalancedVoucher indicates debit and credit totals differ beyond tolerance.
	ErrUnbalancedVoucher = errors.New("voucher debits and credits do not balance")
	// ErrLockedVoucher indicates a mutation attempt on a locked voucher.
	ErrLockedVoucher = errors.New("voucher is locked")
	// ErrInvalidFormat indicates a backup file with a missing or wrong magic header.
	ErrInvalidFormat = errors.New("invalid backup format")
	// ErrDecryption indicates wrong key material or corrupted ciphertext.
	ErrDecryption = errors.New("backup decryption failed")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
