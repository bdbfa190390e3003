package jws

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// TokenSigner produces compact tokens (header.payload.signature) over opaque
// payload bytes.
type TokenSigner struct {
	signer    *CompactSigner
	codec     Codec
	headerB64 string
}

// TokenVerifier checks compact tokens and returns their decoded payload.
type TokenVerifier struct {
	verifier Verifier
	resolver CompressionCodecResolver
}

type signerOptions struct {
	factory SignerFactory
	codec   Codec
	keyID   string
}

// SignerOption configures a TokenSigner.
type SignerOption func(*signerOptions)

// WithCompression compresses payloads with codec and records it in the "calg" header.
func WithCompression(codec Codec) SignerOption {
	return func(o *signerOptions) {
		o.codec = codec
	}
}

// WithKeyID sets the "kid" header.
func WithKeyID(kid string) SignerOption {
	return func(o *signerOptions) {
		o.keyID = kid
	}
}

// WithSignerFactory replaces DefaultFactory for signer construction.
func WithSignerFactory(factory SignerFactory) SignerOption {
	return func(o *signerOptions) {
		o.factory = factory
	}
}

type verifierOptions struct {
	factory  VerifierFactory
	resolver CompressionCodecResolver
}

// VerifierOption configures a TokenVerifier.
type VerifierOption func(*verifierOptions)

// WithCompressionCodecResolver replaces DefaultCompressionCodecResolver.
func WithCompressionCodecResolver(resolver CompressionCodecResolver) VerifierOption {
	return func(o *verifierOptions) {
		o.resolver = resolver
	}
}

// WithVerifierFactory replaces DefaultFactory for verifier construction.
func WithVerifierFactory(factory VerifierFactory) VerifierOption {
	return func(o *verifierOptions) {
		o.factory = factory
	}
}

// NewTokenSigner creates a new token signer for alg and key. Key problems are
// reported here rather than on first use.
func NewTokenSigner(alg Algorithm, key any, opts ...SignerOption) (*TokenSigner, error) {
	o := signerOptions{factory: DefaultFactory}
	for _, opt := range opts {
		opt(&o)
	}

	signer, err := NewCompactSignerWithFactory(o.factory, alg, key)
	if err != nil {
		return nil, err
	}

	header := Header{
		Algorithm: alg.Name,
		Type:      "JWT",
		KeyID:     o.keyID,
	}
	if o.codec != nil {
		header.CompressionAlgorithm = o.codec.AlgorithmName()
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal header: %w", err)
	}

	return &TokenSigner{
		signer:    signer,
		codec:     o.codec,
		headerB64: encodeSegment(headerJSON),
	}, nil
}

// NewTokenVerifier creates a new token verifier for alg and key
func NewTokenVerifier(alg Algorithm, key any, opts ...VerifierOption) (*TokenVerifier, error) {
	o := verifierOptions{
		factory:  DefaultFactory,
		resolver: DefaultCompressionCodecResolver,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.factory == nil {
		return nil, errors.New("verifier factory cannot be nil")
	}
	if o.resolver == nil {
		return nil, errors.New("compression codec resolver cannot be nil")
	}

	verifier, err := o.factory.NewVerifier(alg, key)
	if err != nil {
		return nil, err
	}

	return &TokenVerifier{verifier: verifier, resolver: o.resolver}, nil
}

// GenerateToken signs payload and returns the compact token
func (s *TokenSigner) GenerateToken(payload []byte) (string, error) {
	if s.codec != nil {
		compressed, err := s.codec.Compress(payload)
		if err != nil {
			return "", fmt.Errorf("failed to compress payload: %w", err)
		}
		payload = compressed
	}

	payloadB64 := encodeSegment(payload)

	var builder strings.Builder
	builder.Grow(len(s.headerB64) + 1 + len(payloadB64) + 1 + 176)

	builder.WriteString(s.headerB64)
	builder.WriteByte('.')
	builder.WriteString(payloadB64)

	signature, err := s.signer.Sign(builder.String())
	if err != nil {
		return "", err
	}

	builder.WriteByte('.')
	builder.WriteString(signature)

	return builder.String(), nil
}

// VerifyToken validates a compact token and returns its header and the
// decompressed payload.
//
// A rejected signature yields ErrInvalidSignature. A *VerificationError means
// the signature could not be checked at all.
func (v *TokenVerifier) VerifyToken(token string) (*Header, []byte, error) {
	signingInput, headerPart, payloadPart, signaturePart, err := parseTokenParts(token)
	if err != nil {
		return nil, nil, err
	}

	header, err := parseHeader(headerPart)
	if err != nil {
		return nil, nil, err
	}
	if header.Algorithm != v.verifier.Algorithm().Name {
		return nil, nil, fmt.Errorf("%w: got %q, want %q", ErrAlgorithmMismatch, header.Algorithm, v.verifier.Algorithm().Name)
	}

	signature, err := decodeSegment(signaturePart)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: signature: %v", ErrInvalidToken, err)
	}

	ok, err := v.verifier.IsValid([]byte(signingInput), signature)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, ErrInvalidSignature
	}

	codec, err := v.resolver.ResolveCompressionCodec(header)
	if err != nil {
		return nil, nil, err
	}

	payload, err := decodeSegment(payloadPart)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: payload: %v", ErrInvalidToken, err)
	}
	if codec != nil {
		payload, err = codec.Decompress(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: decompressing payload: %v", ErrInvalidToken, err)
		}
	}

	return header, payload, nil
}

// parseTokenParts splits a compact token into its three segments
func parseTokenParts(token string) (signingInput, headerPart, payloadPart, signaturePart string, err error) {
	firstDot := strings.IndexByte(token, '.')
	if firstDot <= 0 {
		return "", "", "", "", ErrInvalidToken
	}

	secondDot := strings.IndexByte(token[firstDot+1:], '.')
	if secondDot == -1 {
		return "", "", "", "", ErrInvalidToken
	}
	secondDot += firstDot + 1

	if secondDot >= len(token)-1 {
		return "", "", "", "", ErrInvalidToken
	}

	// Exactly 3 parts
	if strings.IndexByte(token[secondDot+1:], '.') != -1 {
		return "", "", "", "", ErrInvalidToken
	}

	signingInput = token[:secondDot]
	headerPart = token[:firstDot]
	payloadPart = token[firstDot+1 : secondDot]
	signaturePart = token[secondDot+1:]

	return signingInput, headerPart, payloadPart, signaturePart, nil
}

func parseHeader(headerPart string) (*Header, error) {
	headerJSON, err := decodeSegment(headerPart)
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidToken, err)
	}

	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidToken, err)
	}
	if header.Algorithm == "" {
		return nil, fmt.Errorf("%w: header has no alg", ErrInvalidToken)
	}

	return &header, nil
}
