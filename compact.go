package jws

import (
	"errors"
	"fmt"

	"github.com/cloudwego/base64x"
)

// CompactSigner signs the ASCII signing input of a compact token
// (base64url(header) "." base64url(payload)) and returns the base64url
// encoded signature.
type CompactSigner struct {
	signer Signer
}

// NewCompactSigner creates a CompactSigner using DefaultFactory.
func NewCompactSigner(alg Algorithm, key any) (*CompactSigner, error) {
	return NewCompactSignerWithFactory(DefaultFactory, alg, key)
}

// NewCompactSignerWithFactory creates a CompactSigner whose Signer comes from factory.
func NewCompactSignerWithFactory(factory SignerFactory, alg Algorithm, key any) (*CompactSigner, error) {
	if factory == nil {
		return nil, errors.New("signer factory cannot be nil")
	}

	signer, err := factory.NewSigner(alg, key)
	if err != nil {
		return nil, err
	}

	return &CompactSigner{signer: signer}, nil
}

// Algorithm returns the algorithm of the bound signer
func (c *CompactSigner) Algorithm() Algorithm {
	return c.signer.Algorithm()
}

// Sign signs signingInput and returns the unpadded base64url signature.
// MAC signatures are deterministic; EC and PSS signatures are not.
func (c *CompactSigner) Sign(signingInput string) (string, error) {
	for i := 0; i < len(signingInput); i++ {
		if signingInput[i] >= 0x80 {
			return "", &SigningError{
				Algorithm: c.signer.Algorithm().Name,
				Err:       fmt.Errorf("signing input has non-ASCII byte at offset %d", i),
			}
		}
	}

	signature, err := c.signer.Sign([]byte(signingInput))
	if err != nil {
		var signingErr *SigningError
		if errors.As(err, &signingErr) {
			return "", err
		}
		return "", &SigningError{Algorithm: c.signer.Algorithm().Name, Err: err}
	}

	return encodeSegment(signature), nil
}

func encodeSegment(data []byte) string {
	return base64x.RawURLEncoding.EncodeToString(data)
}

func decodeSegment(encoded string) ([]byte, error) {
	return base64x.RawURLEncoding.DecodeString(encoded)
}
