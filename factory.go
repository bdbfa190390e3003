package jws

import "fmt"

// SignerFactory binds an algorithm and key to a Signer.
type SignerFactory interface {
	NewSigner(alg Algorithm, key any) (Signer, error)
}

// VerifierFactory binds an algorithm and key to a Verifier.
type VerifierFactory interface {
	NewVerifier(alg Algorithm, key any) (Verifier, error)
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithStrictECSignatureFormat makes EC verifiers accept only the raw R||S
// encoding and reject DER signatures outright.
func WithStrictECSignatureFormat() FactoryOption {
	return func(f *Factory) {
		f.strictEC = true
	}
}

// Factory dispatches on the algorithm family once, at construction. Key type
// and curve mismatches are reported here, never at sign or verify time.
// A nil *Factory behaves like one built with no options.
type Factory struct {
	strictEC bool
}

// DefaultFactory accepts legacy DER-encoded EC signatures.
var DefaultFactory = NewFactory()

// NewFactory creates a Factory with the given options applied.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewSigner returns a Signer for alg backed by key.
//
// Key requirements by family:
//   - MAC: []byte of at least the digest size
//   - RSA: *rsa.PrivateKey of at least MinRSAKeyBits
//   - EC: *ecdsa.PrivateKey on the algorithm's curve
func (f *Factory) NewSigner(alg Algorithm, key any) (Signer, error) {
	if err := checkArgs(alg, key); err != nil {
		return nil, err
	}

	var (
		signer Signer
		err    error
	)
	switch alg.Family {
	case FamilyMAC:
		signer, err = newMACSigner(alg, key)
	case FamilyRSA:
		signer, err = newRSASigner(alg, key)
	case FamilyEC:
		signer, err = newECSigner(alg, key)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg.Name)
	}
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// NewVerifier returns a Verifier for alg backed by key. RSA verifiers also
// accept a private key and use its public half.
func (f *Factory) NewVerifier(alg Algorithm, key any) (Verifier, error) {
	if err := checkArgs(alg, key); err != nil {
		return nil, err
	}

	var (
		verifier Verifier
		err      error
	)
	switch alg.Family {
	case FamilyMAC:
		verifier, err = newMACSigner(alg, key)
	case FamilyRSA:
		verifier, err = newRSAVerifier(alg, key)
	case FamilyEC:
		verifier, err = newECVerifier(alg, key, f != nil && f.strictEC)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg.Name)
	}
	if err != nil {
		return nil, err
	}
	return verifier, nil
}

func checkArgs(alg Algorithm, key any) error {
	if !alg.known() {
		return fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg.Name)
	}
	if key == nil {
		return invalidKey(alg, "key cannot be nil")
	}
	if !alg.Hash.Available() {
		return fmt.Errorf("%w: %s digest %v is not linked into the binary", ErrUnsupportedAlgorithm, alg.Name, alg.Hash)
	}
	return nil
}

var (
	_ Signer   = (*macSigner)(nil)
	_ Verifier = (*macSigner)(nil)
	_ Signer   = (*rsaSigner)(nil)
	_ Verifier = (*rsaVerifier)(nil)
	_ Signer   = (*ecSigner)(nil)
	_ Verifier = (*ecVerifier)(nil)

	_ SignerFactory   = (*Factory)(nil)
	_ VerifierFactory = (*Factory)(nil)
)
