package jws

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
)

// MinRSAKeyBits is the smallest modulus accepted for RS* and PS* keys.
const MinRSAKeyBits = 2048

// rsaSigner implements RSA PKCS#1 v1.5 and RSA-PSS signing
type rsaSigner struct {
	alg        Algorithm
	privateKey *rsa.PrivateKey
}

// rsaVerifier implements RSA PKCS#1 v1.5 and RSA-PSS verification
type rsaVerifier struct {
	alg       Algorithm
	publicKey *rsa.PublicKey
}

func newRSASigner(alg Algorithm, key any) (*rsaSigner, error) {
	privateKey, ok := key.(*rsa.PrivateKey)
	if !ok || privateKey == nil {
		return nil, invalidKey(alg, "RSA signing requires *rsa.PrivateKey, got %T", key)
	}
	if err := checkRSAModulus(alg, &privateKey.PublicKey); err != nil {
		return nil, err
	}

	return &rsaSigner{alg: alg, privateKey: privateKey}, nil
}

func newRSAVerifier(alg Algorithm, key any) (*rsaVerifier, error) {
	var publicKey *rsa.PublicKey
	switch k := key.(type) {
	case *rsa.PublicKey:
		publicKey = k
	case *rsa.PrivateKey:
		if k != nil {
			publicKey = &k.PublicKey
		}
	}
	if publicKey == nil {
		return nil, invalidKey(alg, "RSA verification requires *rsa.PublicKey, got %T", key)
	}
	if err := checkRSAModulus(alg, publicKey); err != nil {
		return nil, err
	}

	return &rsaVerifier{alg: alg, publicKey: publicKey}, nil
}

func checkRSAModulus(alg Algorithm, key *rsa.PublicKey) error {
	if key.N == nil {
		return invalidKey(alg, "RSA key has no modulus")
	}
	if bits := key.N.BitLen(); bits < MinRSAKeyBits {
		return invalidKey(alg, "RSA key is %d bits, at least %d required", bits, MinRSAKeyBits)
	}
	return nil
}

func (r *rsaSigner) Algorithm() Algorithm {
	return r.alg
}

// Sign signs data using RSA. PSS signatures are randomized.
func (r *rsaSigner) Sign(data []byte) ([]byte, error) {
	digest := r.alg.digest(data)

	var (
		signature []byte
		err       error
	)
	if r.alg.PSS {
		signature, err = rsa.SignPSS(rand.Reader, r.privateKey, r.alg.Hash, digest, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthEqualsHash,
		})
	} else {
		signature, err = rsa.SignPKCS1v15(rand.Reader, r.privateKey, r.alg.Hash, digest)
	}
	if err != nil {
		return nil, &SigningError{Algorithm: r.alg.Name, Err: err}
	}
	return signature, nil
}

func (r *rsaVerifier) Algorithm() Algorithm {
	return r.alg
}

// IsValid verifies the signature using RSA
func (r *rsaVerifier) IsValid(data, signature []byte) (bool, error) {
	digest := r.alg.digest(data)

	var err error
	if r.alg.PSS {
		err = rsa.VerifyPSS(r.publicKey, r.alg.Hash, digest, signature, &rsa.PSSOptions{
			SaltLength: rsa.PSSSaltLengthAuto,
		})
	} else {
		err = rsa.VerifyPKCS1v15(r.publicKey, r.alg.Hash, digest, signature)
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rsa.ErrVerification):
		return false, nil
	default:
		return false, &VerificationError{Algorithm: r.alg.Name, Err: err}
	}
}
