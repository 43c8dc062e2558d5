package util

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Uint160Size is the size of Uint160 in bytes.
const Uint160Size = 20

// Uint160 is a 20-byte long unsigned integer. On the wire it is stored as raw
// little-endian bytes; its textual form is big-endian hex with a 0x prefix.
type Uint160 [Uint160Size]uint8

// Uint160DecodeStringBE attempts to decode the given big-endian hex string
// (with or without the 0x prefix) into a Uint160.
func Uint160DecodeStringBE(s string) (u Uint160, err error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != Uint160Size*2 {
		return u, fmt.Errorf("expected string size of %d got %d", Uint160Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return u, err
	}
	b = ArrayReverse(b)
	return Uint160DecodeBytesLE(b)
}

// Uint160DecodeBytesLE attempts to decode the given little-endian bytes into
// a Uint160.
func Uint160DecodeBytesLE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint160Size, len(b))
	}
	copy(u[:], b)
	return
}

// Uint160DecodeBytesBE attempts to decode the given big-endian bytes into a
// Uint160.
func Uint160DecodeBytesBE(b []byte) (u Uint160, err error) {
	if len(b) != Uint160Size {
		return u, fmt.Errorf("expected byte size of %d got %d", Uint160Size, len(b))
	}
	return Uint160DecodeBytesLE(ArrayReverse(b))
}

// BytesLE returns the little-endian byte slice representation of u (wire form).
func (u Uint160) BytesLE() []byte {
	b := make([]byte, Uint160Size)
	copy(b, u[:])
	return b
}

// BytesBE returns the big-endian byte slice representation of u (textual form).
func (u Uint160) BytesBE() []byte {
	return ArrayReverse(u.BytesLE())
}

// StringLE returns the hex representation of u in little-endian byte order.
func (u Uint160) StringLE() string {
	return hex.EncodeToString(u.BytesLE())
}

// StringBE returns the hex representation of u in big-endian byte order.
func (u Uint160) StringBE() string {
	return hex.EncodeToString(u.BytesBE())
}

// String implements the Stringer interface and is big-endian hex with 0x prefix.
func (u Uint160) String() string {
	return "0x" + u.StringBE()
}

// Equals returns true if both Uint160 values are the same.
func (u Uint160) Equals(other Uint160) bool {
	return u == other
}

// Less compares two Uint160 values treating them as big-endian encoded
// numbers (useful for deterministic ordering).
func (u Uint160) Less(other Uint160) bool {
	for i := Uint160Size - 1; i >= 0; i-- {
		if u[i] != other[i] {
			return u[i] < other[i]
		}
	}
	return false
}

// MarshalJSON implements the json.Marshaler interface.
func (u Uint160) MarshalJSON() ([]byte, error) {
	return []byte(`"` + u.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (u *Uint160) UnmarshalJSON(data []byte) (err error) {
	var js string
	if err = json.Unmarshal(data, &js); err != nil {
		return err
	}
	*u, err = Uint160DecodeStringBE(js)
	return err
}
