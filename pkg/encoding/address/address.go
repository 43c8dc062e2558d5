// Package address implements Neo's Base58Check address and WIF encodings.
package address

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// NEO3Prefix is the Neo N3 address version byte.
const NEO3Prefix byte = 0x35

// Uint160ToString converts a script hash to a Base58Check-encoded address
// using the given version byte (NEO3Prefix for N3 MainNet/TestNet).
func Uint160ToString(u util.Uint160, version byte) string {
	b := append([]byte{version}, u.BytesBE()...)
	return base58CheckEncode(b)
}

// StringToUint160 decodes a Base58Check address into its script hash,
// verifying that it carries the expected version byte.
func StringToUint160(s string, version byte) (util.Uint160, error) {
	b, err := base58CheckDecode(s)
	if err != nil {
		return util.Uint160{}, err
	}
	if len(b) != 1+util.Uint160Size {
		return util.Uint160{}, fmt.Errorf("invalid address length: %d", len(b))
	}
	if b[0] != version {
		return util.Uint160{}, fmt.Errorf("invalid address version: got 0x%02x want 0x%02x", b[0], version)
	}
	return util.Uint160DecodeBytesBE(b[1:])
}

func base58CheckEncode(b []byte) string {
	checksum := hash.Checksum(b)
	return base58.Encode(append(b, checksum...))
}

func base58CheckDecode(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(b) < 5 {
		return nil, errors.New("invalid base58check payload: too short")
	}
	body, checksum := b[:len(b)-4], b[len(b)-4:]
	expected := hash.Checksum(body)
	for i := range expected {
		if expected[i] != checksum[i] {
			return nil, errors.New("invalid base58check checksum")
		}
	}
	return body, nil
}
