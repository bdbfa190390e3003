package jws

import (
	"crypto"
	"crypto/elliptic"
	_ "crypto/sha256" // registers SHA-256 for crypto.Hash
	_ "crypto/sha512" // registers SHA-384 and SHA-512
	"fmt"
)

// Family groups signature algorithms that share key types and signing primitives.
type Family uint8

const (
	FamilyMAC Family = iota + 1
	FamilyRSA
	FamilyEC
)

func (f Family) String() string {
	switch f {
	case FamilyMAC:
		return "MAC"
	case FamilyRSA:
		return "RSA"
	case FamilyEC:
		return "EC"
	default:
		return fmt.Sprintf("Family(%d)", uint8(f))
	}
}

// Algorithm describes a JWS signature algorithm as named by the "alg" header.
//
// For the EC family CoordinateSize is the byte length of one curve coordinate;
// the raw signature is always twice that long.
type Algorithm struct {
	Name           string
	Family         Family
	Hash           crypto.Hash
	CoordinateSize int
	PSS            bool

	curve elliptic.Curve
}

var (
	HS256 = Algorithm{Name: "HS256", Family: FamilyMAC, Hash: crypto.SHA256}
	HS384 = Algorithm{Name: "HS384", Family: FamilyMAC, Hash: crypto.SHA384}
	HS512 = Algorithm{Name: "HS512", Family: FamilyMAC, Hash: crypto.SHA512}

	RS256 = Algorithm{Name: "RS256", Family: FamilyRSA, Hash: crypto.SHA256}
	RS384 = Algorithm{Name: "RS384", Family: FamilyRSA, Hash: crypto.SHA384}
	RS512 = Algorithm{Name: "RS512", Family: FamilyRSA, Hash: crypto.SHA512}

	PS256 = Algorithm{Name: "PS256", Family: FamilyRSA, Hash: crypto.SHA256, PSS: true}
	PS384 = Algorithm{Name: "PS384", Family: FamilyRSA, Hash: crypto.SHA384, PSS: true}
	PS512 = Algorithm{Name: "PS512", Family: FamilyRSA, Hash: crypto.SHA512, PSS: true}

	ES256 = Algorithm{Name: "ES256", Family: FamilyEC, Hash: crypto.SHA256, CoordinateSize: 32, curve: elliptic.P256()}
	ES384 = Algorithm{Name: "ES384", Family: FamilyEC, Hash: crypto.SHA384, CoordinateSize: 48, curve: elliptic.P384()}
	ES512 = Algorithm{Name: "ES512", Family: FamilyEC, Hash: crypto.SHA512, CoordinateSize: 66, curve: elliptic.P521()}
)

var algorithms = map[string]Algorithm{
	HS256.Name: HS256, HS384.Name: HS384, HS512.Name: HS512,
	RS256.Name: RS256, RS384.Name: RS384, RS512.Name: RS512,
	PS256.Name: PS256, PS384.Name: PS384, PS512.Name: PS512,
	ES256.Name: ES256, ES384.Name: ES384, ES512.Name: ES512,
}

// LookupAlgorithm returns the descriptor for an "alg" header value.
// Names are matched exactly; "none" is never recognised.
func LookupAlgorithm(name string) (Algorithm, error) {
	alg, ok := algorithms[name]
	if !ok {
		return Algorithm{}, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, name)
	}
	return alg, nil
}

// Algorithms returns every supported descriptor.
func Algorithms() []Algorithm {
	return []Algorithm{
		HS256, HS384, HS512,
		RS256, RS384, RS512,
		PS256, PS384, PS512,
		ES256, ES384, ES512,
	}
}

// SignatureSize returns the fixed raw signature length for EC algorithms and
// zero for the other families.
func (a Algorithm) SignatureSize() int {
	return 2 * a.CoordinateSize
}

// Curve returns the elliptic curve bound to an EC algorithm, or nil.
func (a Algorithm) Curve() elliptic.Curve {
	return a.curve
}

func (a Algorithm) String() string {
	return a.Name
}

func (a Algorithm) known() bool {
	alg, ok := algorithms[a.Name]
	return ok && alg == a
}

func (a Algorithm) digest(data []byte) []byte {
	h := a.Hash.New()
	h.Write(data)
	return h.Sum(nil)
}

// Signer produces raw signatures for one algorithm and key.
// Implementations are immutable and safe for concurrent use.
type Signer interface {
	Algorithm() Algorithm
	Sign(data []byte) ([]byte, error)
}

// Verifier checks signatures for one algorithm and key.
//
// IsValid returns (true, nil) for a good signature and (false, nil) for a
// rejected one. A non-nil error means the check could not be performed.
type Verifier interface {
	Algorithm() Algorithm
	IsValid(data, signature []byte) (bool, error)
}
