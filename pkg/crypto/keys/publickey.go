// Package keys implements secp256r1 key pairs, SEC1 compressed public key
// encoding, WIF import/export and verification script construction for
// Neo N3 accounts.
package keys

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/encoding/address"
	"github.com/nspcc-dev/neow3j-go/pkg/io"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/neow3j-go/pkg/vm/emit"
)

// PublicKeys is a sortable list of public keys, used to build multi-sig
// verification scripts and committee lists.
type PublicKeys []*PublicKey

func (keys PublicKeys) Len() int      { return len(keys) }
func (keys PublicKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
func (keys PublicKeys) Less(i, j int) bool {
	return keys[i].Cmp(keys[j]) < 0
}

// Contains reports whether pKey is present in keys.
func (keys PublicKeys) Contains(pKey *PublicKey) bool {
	for _, key := range keys {
		if key.Equal(pKey) {
			return true
		}
	}
	return false
}

// PublicKey is a point on the secp256r1 curve, the only curve used for
// Neo N3 account keys.
type PublicKey struct {
	X *big.Int
	Y *big.Int
}

// Equal reports whether p and key are the same point.
func (p *PublicKey) Equal(key *PublicKey) bool {
	return p.X.Cmp(key.X) == 0 && p.Y.Cmp(key.Y) == 0
}

// Cmp orders public keys by their 33-byte compressed encoding, the
// ordering multi-sig verification scripts require their signer keys to be
// sorted by.
func (p *PublicKey) Cmp(key *PublicKey) int {
	return bytes.Compare(p.Bytes(), key.Bytes())
}

// NewPublicKeyFromString parses a hex-encoded SEC1 public key.
func NewPublicKeyFromString(s string) (*PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	p := new(PublicKey)
	if err := p.DecodeBytes(b); err != nil {
		return nil, err
	}
	return p, nil
}

// Bytes returns the 33-byte SEC1 compressed encoding of the key.
func (p *PublicKey) Bytes() []byte {
	x := p.X.Bytes()
	padded := append(bytes.Repeat([]byte{0x00}, 32-len(x)), x...)
	prefix := byte(0x03)
	if p.Y.Bit(0) == 0 {
		prefix = byte(0x02)
	}
	return append([]byte{prefix}, padded...)
}

// DecodeBytes decodes a SEC1-encoded (compressed or uncompressed) public
// key.
func (p *PublicKey) DecodeBytes(data []byte) error {
	l := len(data)
	if !(l == 33 && (data[0] == 0x02 || data[0] == 0x03)) &&
		!(l == 65 && data[0] == 0x04) {
		return errors.New("invalid public key size/prefix")
	}
	r := io.NewBinReaderFromBuf(data)
	p.DecodeBinary(r)
	return r.Err
}

// DecodeBinary decodes a SEC1-encoded public key from r.
func (p *PublicKey) DecodeBinary(r *io.BinReader) {
	prefix := r.ReadB()
	if r.Err != nil {
		return
	}
	curve := elliptic.P256()
	params := curve.Params()
	var x, y *big.Int
	switch prefix {
	case 0x02, 0x03:
		xbytes := make([]byte, 32)
		r.ReadBytes(xbytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		var err error
		y, err = decodeCompressedY(x, uint(prefix&0x1), curve)
		if err != nil {
			r.Err = err
			return
		}
	case 0x04:
		xbytes, ybytes := make([]byte, 32), make([]byte, 32)
		r.ReadBytes(xbytes)
		r.ReadBytes(ybytes)
		if r.Err != nil {
			return
		}
		x = new(big.Int).SetBytes(xbytes)
		y = new(big.Int).SetBytes(ybytes)
		if !curve.IsOnCurve(x, y) {
			r.Err = errors.New("point is not on the P256 curve")
			return
		}
	default:
		r.Err = fmt.Errorf("invalid public key prefix: 0x%02x", prefix)
		return
	}
	if x.Cmp(params.P) >= 0 || y.Cmp(params.P) >= 0 {
		r.Err = errors.New("encoded coordinate exceeds the field prime")
		return
	}
	p.X, p.Y = x, y
}

// EncodeBinary writes the SEC1 compressed encoding of the key to w.
func (p *PublicKey) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Bytes())
}

// decodeCompressedY recovers the Y coordinate of a compressed point on a
// short-form Weierstrass curve y^2 = x^3 + ax + b: a=-3 for secp256r1
// (the curve every account key uses), a=0 for secp256k1 (accepted only
// for the cross-curve verification in curve.go).
func decodeCompressedY(x *big.Int, ylsb uint, curve elliptic.Curve) (*big.Int, error) {
	var a *big.Int
	switch curve.(type) {
	case *btcec.KoblitzCurve:
		a = big.NewInt(0)
	default:
		a = big.NewInt(3)
	}
	cp := curve.Params()
	xCubed := new(big.Int).Exp(x, big.NewInt(3), cp.P)
	aX := new(big.Int).Mul(x, a)
	aX.Mod(aX, cp.P)
	ySquared := new(big.Int).Sub(xCubed, aX)
	ySquared.Add(ySquared, cp.B)
	ySquared.Mod(ySquared, cp.P)
	y := new(big.Int).ModSqrt(ySquared, cp.P)
	if y == nil {
		return nil, errors.New("compressed point has no square root on the curve")
	}
	if y.Bit(0) != ylsb {
		y.Sub(cp.P, y)
	}
	return y, nil
}

// GetVerificationScript returns the single-signature verification script
// for this key: PUSHDATA1 <33-byte key> SYSCALL CheckSig.
func (p *PublicKey) GetVerificationScript() []byte {
	buf := io.NewBufBinWriter()
	emit.Bytes(buf.BinWriter, p.Bytes())
	emit.Syscall(buf.BinWriter, SystemCryptoCheckSig)
	return buf.Bytes()
}

// SystemCryptoCheckSig is the interop method hash for
// System.Crypto.CheckSig.
const SystemCryptoCheckSig uint32 = 0x27b3e756

// SystemCryptoCheckMultisig is the interop method hash for
// System.Crypto.CheckMultisig.
const SystemCryptoCheckMultisig uint32 = 0x3adcd09e

// GetScriptHash returns the Hash160 of this key's verification script.
func (p *PublicKey) GetScriptHash() util.Uint160 {
	return hash.Hash160(p.GetVerificationScript())
}

// Address returns the Base58Check Neo N3 address derived from this key.
func (p *PublicKey) Address() string {
	return address.Uint160ToString(p.GetScriptHash(), address.NEO3Prefix)
}

// Verify reports whether signature is a valid ECDSA signature of digest
// under this key.
func (p *PublicKey) Verify(signature, digest []byte) bool {
	if p.X == nil || p.Y == nil || len(signature) != 64 {
		return false
	}
	pub := &ecdsa.PublicKey{Curve: elliptic.P256(), X: p.X, Y: p.Y}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify(pub, digest, r, s)
}

// String returns the concatenated hex encoding of X and Y.
func (p *PublicKey) String() string {
	return hex.EncodeToString(p.X.Bytes()) + hex.EncodeToString(p.Y.Bytes())
}

// MarshalJSON implements json.Marshaler.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(p.Bytes()))
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	return p.DecodeBytes(b)
}
