package schema

import (
	"encoding/hex"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// encMode uses Core Deterministic Encoding so equal maps produce equal
// bytes regardless of Go map iteration order.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("schema: CBOR encoder initialization failed: " + err.Error())
	}
}

// Fingerprint identifies the content of a schema map.
type Fingerprint [32]byte

// String returns the lowercase hex form.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Short returns the first 12 hex characters, for logs.
func (f Fingerprint) Short() string {
	return f.String()[:12]
}

// CanonicalBytes returns the deterministic CBOR encoding of m.
func CanonicalBytes(m Map) ([]byte, error) {
	return encMode.Marshal(m)
}

// FingerprintOf hashes the canonical encoding of m with BLAKE3. Maps with
// equal content have equal fingerprints.
func FingerprintOf(m Map) (Fingerprint, error) {
	data, err := CanonicalBytes(m)
	if err != nil {
		return Fingerprint{}, err
	}
	return blake3.Sum256(data), nil
}
