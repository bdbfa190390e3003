package jws

import (
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// ToDER converts a raw R||S signature into an ASN.1 DER
// SEQUENCE { INTEGER r, INTEGER s }.
//
// raw must be exactly 2*coordinateSize bytes long, each half holding a
// big-endian unsigned integer.
func ToDER(raw []byte, coordinateSize int) ([]byte, error) {
	if coordinateSize <= 0 {
		return nil, malformed("invalid coordinate size %d", coordinateSize)
	}
	if len(raw) != 2*coordinateSize {
		return nil, malformed("raw signature is %d bytes, expected %d", len(raw), 2*coordinateSize)
	}

	r := derInteger(raw[:coordinateSize])
	s := derInteger(raw[coordinateSize:])

	// 2 integers of at most coordinateSize+1 bytes, plus worst-case headers.
	b := cryptobyte.NewBuilder(make([]byte, 0, 2*coordinateSize+16))
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1(asn1.INTEGER, func(b *cryptobyte.Builder) {
			b.AddBytes(r)
		})
		b.AddASN1(asn1.INTEGER, func(b *cryptobyte.Builder) {
			b.AddBytes(s)
		})
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, malformed("encoding DER sequence: %v", err)
	}
	return der, nil
}

// ToRaw converts a DER SEQUENCE { INTEGER r, INTEGER s } into the raw
// fixed-length R||S form of 2*coordinateSize bytes.
//
// The input is untrusted. Lengths are checked against the remaining buffer
// before use, and non-minimal or negative integers are rejected.
func ToRaw(der []byte, coordinateSize int) ([]byte, error) {
	if coordinateSize <= 0 {
		return nil, malformed("invalid coordinate size %d", coordinateSize)
	}
	if len(der) == 0 || der[0] != byte(asn1.SEQUENCE) {
		return nil, malformed("expected DER SEQUENCE tag 0x30")
	}

	input := cryptobyte.String(der)
	var seq cryptobyte.String
	if !input.ReadASN1(&seq, asn1.SEQUENCE) {
		return nil, malformed("invalid SEQUENCE length")
	}
	if !input.Empty() {
		return nil, malformed("%d trailing bytes after SEQUENCE", len(input))
	}

	raw := make([]byte, 2*coordinateSize)
	for i, name := range []string{"r", "s"} {
		var content cryptobyte.String
		if !seq.ReadASN1(&content, asn1.INTEGER) {
			return nil, malformed("expected INTEGER %s", name)
		}
		magnitude, err := integerMagnitude(content, name)
		if err != nil {
			return nil, err
		}
		if len(magnitude) > coordinateSize {
			return nil, malformed("INTEGER %s is %d bytes, exceeds coordinate size %d", name, len(magnitude), coordinateSize)
		}
		end := (i + 1) * coordinateSize
		copy(raw[end-len(magnitude):end], magnitude)
	}
	if !seq.Empty() {
		return nil, malformed("SEQUENCE holds more than two INTEGERs")
	}

	return raw, nil
}

// derInteger returns the minimal two's-complement content octets for an
// unsigned big-endian integer.
func derInteger(unsigned []byte) []byte {
	i := 0
	for i < len(unsigned) && unsigned[i] == 0 {
		i++
	}
	v := unsigned[i:]
	if len(v) == 0 {
		return []byte{0}
	}
	if v[0]&0x80 != 0 {
		out := make([]byte, len(v)+1)
		copy(out[1:], v)
		return out
	}
	return v
}

// integerMagnitude validates INTEGER content octets as a minimal, strictly
// positive value and returns its unsigned big-endian bytes.
func integerMagnitude(content []byte, name string) ([]byte, error) {
	switch {
	case len(content) == 0:
		return nil, malformed("INTEGER %s is empty", name)
	case content[0]&0x80 != 0:
		return nil, malformed("INTEGER %s is negative", name)
	case len(content) > 1 && content[0] == 0 && content[1]&0x80 == 0:
		return nil, malformed("INTEGER %s is not minimally encoded", name)
	}

	if content[0] == 0 {
		content = content[1:]
	}
	if len(content) == 0 {
		return nil, malformed("INTEGER %s is zero", name)
	}
	return content, nil
}
