package jws

import (
	"crypto/hmac"
)

// macSigner implements HMAC-based signing and verification. The same shared
// secret serves both directions.
type macSigner struct {
	alg    Algorithm
	secret []byte
}

func newMACSigner(alg Algorithm, key any) (*macSigner, error) {
	secret, ok := key.([]byte)
	if !ok {
		return nil, invalidKey(alg, "HMAC key must be []byte, got %T", key)
	}
	if len(secret) == 0 {
		return nil, invalidKey(alg, "HMAC key cannot be empty")
	}
	if len(secret) < alg.Hash.Size() {
		return nil, invalidKey(alg, "HMAC key is %d bytes, at least %d required", len(secret), alg.Hash.Size())
	}

	// Copy so later mutation by the caller cannot change the bound key.
	return &macSigner{
		alg:    alg,
		secret: append([]byte(nil), secret...),
	}, nil
}

func (m *macSigner) Algorithm() Algorithm {
	return m.alg
}

// Sign returns the HMAC of data
func (m *macSigner) Sign(data []byte) ([]byte, error) {
	return m.mac(data), nil
}

// IsValid compares signature with the expected HMAC in constant time
func (m *macSigner) IsValid(data, signature []byte) (bool, error) {
	return hmac.Equal(signature, m.mac(data)), nil
}

func (m *macSigner) mac(data []byte) []byte {
	mac := hmac.New(m.alg.Hash.New, m.secret)
	mac.Write(data)
	return mac.Sum(nil)
}
