// Package hash provides the SHA-256/RIPEMD-160 primitives used throughout
// the Neo N3 wire protocol: script hashing, address derivation, Base58Check
// checksums and transaction signature hashes.
package hash

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // protocol mandates RIPEMD160, no replacement exists.
)

// Sha256 computes a single SHA-256 digest of data.
func Sha256(data []byte) util.Uint256 {
	h := sha256.Sum256(data)
	return util.Uint256(h)
}

// DoubleSha256 computes SHA-256(SHA-256(data)).
func DoubleSha256(data []byte) util.Uint256 {
	h := Sha256(data)
	return Sha256(h[:])
}

// RipeMD160 computes the RIPEMD-160 digest of data.
func RipeMD160(data []byte) util.Uint160 {
	hasher := ripemd160.New()
	_, _ = hasher.Write(data)
	sum := hasher.Sum(nil)
	var u util.Uint160
	copy(u[:], sum)
	return u
}

// Hash160 computes RIPEMD160(SHA256(data)), the script-to-account-hash
// derivation used for Hash160 values (script hashes, account identities).
func Hash160(data []byte) util.Uint160 {
	return RipeMD160(Sha256(data).BytesLE())
}

// Hash256 computes SHA256(SHA256(data)), the block/transaction hashing
// function.
func Hash256(data []byte) util.Uint256 {
	return DoubleSha256(data)
}

// Checksum returns the first 4 bytes of DoubleSha256(data), as used by
// Base58Check and NEF file integrity checks.
func Checksum(data []byte) []byte {
	sum := DoubleSha256(data)
	b := sum.BytesLE()
	return b[:4]
}

// ChecksumUint32 is Checksum interpreted as a little-endian uint32, the form
// stored inline in a NEF file.
func ChecksumUint32(data []byte) uint32 {
	return binary.LittleEndian.Uint32(Checksum(data))
}

// Hashable is implemented by types that can compute the sighash data they
// contribute to a network signature (everything preceding witnesses).
type Hashable interface {
	SignableHash() []byte
}

// NetSha256 computes sha256(network_magic_le || sha256(data)) — the
// network-scoped signature hash used when signing a Hashable with a given
// network magic number.
func NetSha256(net uint32, hh Hashable) util.Uint256 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], net)
	inner := Sha256(hh.SignableHash())
	return Sha256(append(buf[:], inner[:]...))
}
