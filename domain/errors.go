package domain

import "errors"

// Expected repository conditions.
var (
	ErrUserNotFound      = errors.New("user-not-found")
	ErrDuplicateUsername = errors.New("duplicate-username")
)

// Token errors.
var (
	ErrExpiredToken          = errors.New("expired-token")
	ErrInvalidSigningAlg     = errors.New("invalid-signing-algorithm")
	ErrInvalidTokenSignature = errors.New("invalid-token-signature")
	ErrCorruptedToken        = errors.New("corrupted-token")
)

// Unexpected failures, wrapped with the underlying cause via %w.
var (
	UnexpectedDatabaseError               = errors.New("unexpected-database-error")
	UnexpectedTokenGenerationError        = errors.New("unexpected-token-generation-error")
	UnexpectedTokenVerificationError      = errors.New("unexpected-token-verification-error")
	UnexpectedPasswordHashingError        = errors.New("unexpected-password-hashing-error")
	UnexpectedPasswordHashComparisonError = errors.New("unexpected-password-hash-comparison-error")
)
