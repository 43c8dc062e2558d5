package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint256Size is the size of Uint256 in bytes.
const Uint256Size = 32

// Uint256 is a 32-byte long unsigned integer, commonly used for hashes. Wire
// form is little-endian; textual form is big-endian hex with a 0x prefix.
type Uint256 [Uint256Size]uint8

// Uint256DecodeStringBE decodes a big-endian hex string (0x prefix optional).
func Uint256DecodeStringBE(s string) (u Uint256, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint256Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint256Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	return Uint256DecodeBytesLE(ArrayReverse(b))
}

// Uint256DecodeBytesLE decodes little-endian bytes into a Uint256.
func Uint256DecodeBytesLE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint256Size, len(b))
	}
	copy(u[:], b)
	return
}

// Uint256DecodeBytesBE decodes big-endian bytes into a Uint256.
func Uint256DecodeBytesBE(b []byte) (u Uint256, err error) {
	if len(b) != Uint256Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint256Size, len(b))
	}
	return Uint256DecodeBytesLE(ArrayReverse(b))
}

// BytesLE returns the little-endian byte slice representation of u.
func (u Uint256) BytesLE() []byte {
	b := make([]byte, Uint256Size)
	copy(b, u[:])
	return b
}

// BytesBE returns the big-endian byte slice representation of u.
func (u Uint256) BytesBE() []byte {
	return ArrayReverse(u.BytesLE())
}

// StringLE is the hex representation of u in little-endian byte order.
func (u Uint256) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE is the hex representation of u in big-endian byte order.
func (u Uint256) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// String implements the Stringer interface.
func (u Uint256) String() string {
	return "0x" + u.StringBE()
}

// Equals returns true if both Uint256 values are the same.
func (u Uint256) Equals(other Uint256) bool {
	return u == other
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint256) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint256) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*u, err = Uint256DecodeStringBE(js)
	return err
}
