package jws

// Header is the protected JOSE header of a compact token.
type Header struct {
	Algorithm            string `json:"alg"`
	Type                 string `json:"typ,omitempty"`
	ContentType          string `json:"cty,omitempty"`
	KeyID                string `json:"kid,omitempty"`
	CompressionAlgorithm string `json:"calg,omitempty"`
}
