package jws

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrInvalidSignature     = errors.New("invalid token signature")
	ErrUnsupportedAlgorithm = errors.New("unsupported signature algorithm")
	ErrAlgorithmMismatch    = errors.New("token algorithm does not match verifier algorithm")
	ErrNullHeader           = errors.New("header cannot be nil")
)

// InvalidKeyError reports key material that cannot be used with an algorithm.
// It is returned at construction time, before any cryptographic operation.
type InvalidKeyError struct {
	Algorithm string // Algorithm the key was offered to
	Reason    string // Human-readable reason
}

func (e *InvalidKeyError) Error() string {
	if e.Algorithm == "" {
		return "invalid key: " + e.Reason
	}
	return fmt.Sprintf("invalid key for %s: %s", e.Algorithm, e.Reason)
}

// MalformedSignatureError reports a signature whose encoding is inconsistent
// with the format it claims to be in.
type MalformedSignatureError struct {
	Reason string
}

func (e *MalformedSignatureError) Error() string {
	return "malformed signature: " + e.Reason
}

// SigningError wraps a failure surfaced while producing a signature.
type SigningError struct {
	Algorithm string
	Err       error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("unable to sign with %s: %v", e.Algorithm, e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// VerificationError means a signature could not be checked at all. It is
// distinct from a signature that was checked and rejected.
type VerificationError struct {
	Algorithm string
	Err       error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("unable to verify %s signature: %v", e.Algorithm, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// UnsupportedCompressionError names a calg header value no codec is registered for.
type UnsupportedCompressionError struct {
	Algorithm string
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported compression algorithm %q", e.Algorithm)
}

func invalidKey(alg Algorithm, format string, args ...any) error {
	return &InvalidKeyError{Algorithm: alg.Name, Reason: fmt.Sprintf(format, args...)}
}

func malformed(format string, args ...any) error {
	return &MalformedSignatureError{Reason: fmt.Sprintf(format, args...)}
}
