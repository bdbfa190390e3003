package jws

import (
	"crypto/ecdsa"
	"crypto/rand"
)

// ecSigner implements ECDSA signing with JOSE raw R||S output
type ecSigner struct {
	alg        Algorithm
	privateKey *ecdsa.PrivateKey
}

// ecVerifier implements ECDSA verification of raw R||S signatures, with a
// fallback for DER signatures emitted by older token issuers.
type ecVerifier struct {
	alg       Algorithm
	publicKey *ecdsa.PublicKey
	strict    bool
}

func newECSigner(alg Algorithm, key any) (*ecSigner, error) {
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok || privateKey == nil {
		return nil, invalidKey(alg, "elliptic curve signing requires *ecdsa.PrivateKey, got %T", key)
	}
	if err := checkCurve(alg, &privateKey.PublicKey); err != nil {
		return nil, err
	}

	return &ecSigner{alg: alg, privateKey: privateKey}, nil
}

func newECVerifier(alg Algorithm, key any, strict bool) (*ecVerifier, error) {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok || publicKey == nil {
		return nil, invalidKey(alg, "elliptic curve signature validation requires *ecdsa.PublicKey, got %T", key)
	}
	if err := checkCurve(alg, publicKey); err != nil {
		return nil, err
	}
	// VerifyASN1 reports an off-curve key as a plain mismatch.
	if _, err := publicKey.ECDH(); err != nil {
		return nil, invalidKey(alg, "public key is not a valid point on %s: %v", alg.Curve().Params().Name, err)
	}

	return &ecVerifier{alg: alg, publicKey: publicKey, strict: strict}, nil
}

func checkCurve(alg Algorithm, key *ecdsa.PublicKey) error {
	if key.Curve == nil {
		return invalidKey(alg, "elliptic curve key has no curve")
	}
	if key.Curve != alg.Curve() {
		return invalidKey(alg, "key is on curve %s, algorithm requires %s",
			key.Curve.Params().Name, alg.Curve().Params().Name)
	}
	return nil
}

func (e *ecSigner) Algorithm() Algorithm {
	return e.alg
}

// Sign signs data using ECDSA and returns the fixed-length R||S form.
func (e *ecSigner) Sign(data []byte) ([]byte, error) {
	der, err := ecdsa.SignASN1(rand.Reader, e.privateKey, e.alg.digest(data))
	if err != nil {
		return nil, &SigningError{Algorithm: e.alg.Name, Err: err}
	}

	raw, err := ToRaw(der, e.alg.CoordinateSize)
	if err != nil {
		return nil, &SigningError{Algorithm: e.alg.Name, Err: err}
	}
	return raw, nil
}

func (e *ecVerifier) Algorithm() Algorithm {
	return e.alg
}

// IsValid verifies an ECDSA signature.
//
// A signature whose length differs from the raw size and which starts with
// the SEQUENCE tag is treated as DER. This accepts tokens from issuers that
// predate the raw encoding; WithStrictECSignatureFormat turns it off.
func (e *ecVerifier) IsValid(data, signature []byte) (bool, error) {
	der, err := e.toDER(signature)
	if err != nil {
		return false, &VerificationError{Algorithm: e.alg.Name, Err: err}
	}
	return ecdsa.VerifyASN1(e.publicKey, e.alg.digest(data), der), nil
}

func (e *ecVerifier) toDER(signature []byte) ([]byte, error) {
	if !e.strict && len(signature) != e.alg.SignatureSize() && len(signature) > 0 && signature[0] == 0x30 {
		// VerifyASN1 reports bad DER as a plain mismatch; parse it here so
		// malformed input surfaces as an error instead.
		if _, err := ToRaw(signature, e.alg.CoordinateSize); err != nil {
			return nil, err
		}
		return signature, nil
	}
	return ToDER(signature, e.alg.CoordinateSize)
}
