package jws

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// Codec compresses and decompresses token payloads. The algorithm name is
// what appears in the "calg" header.
type Codec interface {
	AlgorithmName() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var (
	// Deflate is the DEF codec (raw DEFLATE, RFC 1951).
	Deflate Codec = deflateCodec{}
	// GZIP is the GZIP codec (RFC 1952).
	GZIP Codec = gzipCodec{}
)

type deflateCodec struct{}

func (deflateCodec) AlgorithmName() string { return "DEF" }

func (deflateCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.DefaultCompression)
	if err != nil {
		return nil, fmt.Errorf("creating deflate writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("deflate: %w", err)
	}
	return buf.Bytes(), nil
}

func (deflateCodec) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

type gzipCodec struct{}

func (gzipCodec) AlgorithmName() string { return "GZIP" }

func (gzipCodec) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	return out, nil
}

// CompressionCodecResolver finds the codec named by a header's "calg" value.
type CompressionCodecResolver interface {
	// ResolveCompressionCodec returns nil, nil when the header carries no
	// compression algorithm.
	ResolveCompressionCodec(header *Header) (Codec, error)
}

// DefaultCompressionCodecResolver resolves DEF and GZIP.
var DefaultCompressionCodecResolver = NewCompressionCodecResolver(Deflate, GZIP)

type codecResolver struct {
	codecs []Codec
}

// NewCompressionCodecResolver returns a resolver over a closed set of codecs.
// Names are matched case-insensitively.
func NewCompressionCodecResolver(codecs ...Codec) CompressionCodecResolver {
	return &codecResolver{codecs: append([]Codec(nil), codecs...)}
}

func (c *codecResolver) ResolveCompressionCodec(header *Header) (Codec, error) {
	if header == nil {
		return nil, ErrNullHeader
	}

	calg := header.CompressionAlgorithm
	if strings.TrimSpace(calg) == "" {
		return nil, nil
	}

	for _, codec := range c.codecs {
		if strings.EqualFold(codec.AlgorithmName(), calg) {
			return codec, nil
		}
	}

	return nil, &UnsupportedCompressionError{Algorithm: calg}
}
