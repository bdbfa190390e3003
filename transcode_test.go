package jws

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(b byte, n int) []byte {
	return bytes.Repeat([]byte{b}, n)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func requireMalformed(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var malformedErr *MalformedSignatureError
	assert.True(t, errors.As(err, &malformedErr), "expected *MalformedSignatureError, got %T: %v", err, err)
}

func TestToDER_Encoding(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		size int
		want []byte
	}{
		{
			name: "no padding needed",
			raw:  concat(repeat(0x11, 32), repeat(0x22, 32)),
			size: 32,
			want: concat([]byte{0x30, 0x44, 0x02, 0x20}, repeat(0x11, 32), []byte{0x02, 0x20}, repeat(0x22, 32)),
		},
		{
			name: "high bit gets zero pad",
			raw:  concat(repeat(0x11, 32), repeat(0xff, 32)),
			size: 32,
			want: concat([]byte{0x30, 0x45, 0x02, 0x20}, repeat(0x11, 32), []byte{0x02, 0x21, 0x00}, repeat(0xff, 32)),
		},
		{
			name: "leading zeros stripped",
			raw:  concat(repeat(0x00, 30), []byte{0x7f, 0x01}, repeat(0x00, 31), []byte{0x05}),
			size: 32,
			want: []byte{0x30, 0x07, 0x02, 0x02, 0x7f, 0x01, 0x02, 0x01, 0x05},
		},
		{
			name: "stripping stops before sign flip",
			raw:  concat(repeat(0x00, 31), []byte{0x80}, repeat(0x00, 31), []byte{0x01}),
			size: 32,
			want: []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x80, 0x02, 0x01, 0x01},
		},
		{
			name: "P-521 sized uses long form length",
			raw:  concat([]byte{0x01}, repeat(0xaa, 65), []byte{0x01}, repeat(0xbb, 65)),
			size: 66,
			want: concat(
				[]byte{0x30, 0x81, 0x88},
				[]byte{0x02, 0x42, 0x01}, repeat(0xaa, 65),
				[]byte{0x02, 0x42, 0x01}, repeat(0xbb, 65),
			),
		},
		{
			name: "P-521 sized with high bits",
			raw:  concat(repeat(0xff, 66), repeat(0xff, 66)),
			size: 66,
			want: concat(
				[]byte{0x30, 0x81, 0x8a},
				[]byte{0x02, 0x43, 0x00}, repeat(0xff, 66),
				[]byte{0x02, 0x43, 0x00}, repeat(0xff, 66),
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			der, err := ToDER(tt.raw, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, der)
		})
	}
}

func TestToDER_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		size int
	}{
		{"empty", nil, 32},
		{"too short", repeat(0x01, 63), 32},
		{"too long", repeat(0x01, 65), 32},
		{"zero coordinate size", repeat(0x01, 64), 0},
		{"negative coordinate size", repeat(0x01, 64), -32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			der, err := ToDER(tt.raw, tt.size)
			requireMalformed(t, err)
			assert.Nil(t, der)
		})
	}
}

func TestToRaw_Decoding(t *testing.T) {
	der := []byte{0x30, 0x08, 0x02, 0x02, 0x00, 0x80, 0x02, 0x02, 0x01, 0x02}
	raw, err := ToRaw(der, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x01, 0x02}, raw)
}

func TestToRaw_Rejects(t *testing.T) {
	valid := []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01}

	tests := []struct {
		name string
		der  []byte
	}{
		{"empty", nil},
		{"wrong outer tag", []byte{0x31, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01}},
		{"only tag", []byte{0x30}},
		{"length exceeds buffer", []byte{0x30, 0x50, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01}},
		{"length short of buffer", append(append([]byte{}, valid...), 0x00)},
		{"huge long form length", []byte{0x30, 0x84, 0x7f, 0xff, 0xff, 0xff, 0x02, 0x01, 0x01}},
		{"non-minimal length", []byte{0x30, 0x81, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01}},
		{"indefinite length", []byte{0x30, 0x80, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01, 0x00, 0x00}},
		{"single integer", []byte{0x30, 0x03, 0x02, 0x01, 0x01}},
		{"three integers", []byte{0x30, 0x09, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01, 0x02, 0x01, 0x01}},
		{"inner tag not integer", []byte{0x30, 0x06, 0x04, 0x01, 0x01, 0x02, 0x01, 0x01}},
		{"inner length exceeds sequence", []byte{0x30, 0x06, 0x02, 0x05, 0x01, 0x02, 0x01, 0x01}},
		{"empty integer", []byte{0x30, 0x05, 0x02, 0x00, 0x02, 0x01, 0x01}},
		{"negative r", []byte{0x30, 0x06, 0x02, 0x01, 0x81, 0x02, 0x01, 0x01}},
		{"negative s", []byte{0x30, 0x06, 0x02, 0x01, 0x01, 0x02, 0x01, 0xff}},
		{"non-minimal zero pad", []byte{0x30, 0x07, 0x02, 0x02, 0x00, 0x01, 0x02, 0x01, 0x01}},
		{"zero r", []byte{0x30, 0x06, 0x02, 0x01, 0x00, 0x02, 0x01, 0x01}},
		{"magnitude exceeds coordinate size", concat([]byte{0x30, 0x26, 0x02, 0x21}, repeat(0x01, 33), []byte{0x02, 0x01, 0x01})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ToRaw(tt.der, 32)
			requireMalformed(t, err)
			assert.Nil(t, raw)
		})
	}

	t.Run("invalid coordinate size", func(t *testing.T) {
		_, err := ToRaw(valid, 0)
		requireMalformed(t, err)
	})
}

func TestTranscoder_RoundTrip(t *testing.T) {
	for _, size := range []int{32, 48, 66} {
		for i := 0; i < 200; i++ {
			raw := make([]byte, 2*size)
			_, err := rand.Read(raw)
			require.NoError(t, err)

			// Vary the magnitudes so padding and high-bit paths are both hit,
			// and keep each half non-zero.
			if i%3 == 0 {
				copy(raw[:size/2], make([]byte, size/2))
			}
			if i%5 == 0 {
				raw[size] |= 0x80
			}
			raw[size-1] |= 0x01
			raw[2*size-1] |= 0x01

			der, err := ToDER(raw, size)
			require.NoError(t, err)

			back, err := ToRaw(der, size)
			require.NoError(t, err)
			require.Equal(t, raw, back, "raw round trip, size %d", size)

			again, err := ToDER(back, size)
			require.NoError(t, err)
			require.Equal(t, der, again, "DER re-encoding must be canonical, size %d", size)
		}
	}
}
