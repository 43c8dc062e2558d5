package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/nspcc-dev/rfc6979"
)

// PrivateKey is a secp256r1 key pair, with signing operations bound to
// the Neo N3 network-scoped sighash.
type PrivateKey struct {
	ecdsa.PrivateKey
}

// NewPrivateKey generates a new random secp256r1 private key.
func NewPrivateKey() (*PrivateKey, error) {
	c := elliptic.P256()
	priv, x, y, err := elliptic.GenerateKey(c, rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{
		ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: c, X: x, Y: y},
			D:         new(big.Int).SetBytes(priv),
		},
	}, nil
}

// NewPrivateKeyFromHex parses a hex-encoded 32-byte private key.
func NewPrivateKeyFromHex(s string) (*PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return NewPrivateKeyFromBytes(b)
}

// NewPrivateKeyFromBytes builds a private key from its 32-byte scalar.
func NewPrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(b))
	}
	c := elliptic.P256()
	d := new(big.Int).SetBytes(b)
	x, y := c.ScalarBaseMult(d.Bytes())
	return &PrivateKey{
		ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{Curve: c, X: x, Y: y},
			D:         d,
		},
	}, nil
}

// NewPrivateKeyFromWIF parses a wallet-import-format private key.
func NewPrivateKeyFromWIF(wif string) (*PrivateKey, error) {
	w, err := WIFDecode(wif, WIFVersion)
	if err != nil {
		return nil, err
	}
	return w.PrivateKey, nil
}

// PublicKey derives this key's public key.
func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{X: p.PrivateKey.PublicKey.X, Y: p.PrivateKey.PublicKey.Y}
}

// WIF encodes this key in wallet-import format, with the compressed flag
// set (Neo N3 addresses are always derived from compressed keys).
func (p *PrivateKey) WIF() string {
	w, err := WIFEncode(p.Bytes(), WIFVersion, true)
	if err != nil {
		panic(err)
	}
	return w
}

// Address returns the Base58Check address derived from this key's
// verification script.
func (p *PrivateKey) Address() string {
	return p.PublicKey().Address()
}

// GetScriptHash returns the Hash160 of this key's verification script.
func (p *PrivateKey) GetScriptHash() util.Uint160 {
	return p.PublicKey().GetScriptHash()
}

// Sign hashes data with SHA-256 and signs the digest.
func (p *PrivateKey) Sign(data []byte) []byte {
	digest := sha256.Sum256(data)
	return p.SignHash(util.Uint256(digest))
}

// SignHash produces a deterministic (RFC 6979) ECDSA signature of digest.
func (p *PrivateKey) SignHash(digest util.Uint256) []byte {
	r, s := rfc6979.SignECDSA(&p.PrivateKey, digest[:], sha256.New)
	return encodeSignature(p.Curve, r, s)
}

// SignHashable signs a Hashable's network-scoped sighash for the given
// network magic, as required to produce a transaction witness.
func (p *PrivateKey) SignHashable(net uint32, hh hash.Hashable) []byte {
	return p.SignHash(hash.NetSha256(net, hh))
}

func encodeSignature(curve elliptic.Curve, r, s *big.Int) []byte {
	n := curve.Params().P.BitLen() / 8
	sig := make([]byte, n*2)
	rb, sb := r.Bytes(), s.Bytes()
	copy(sig[n-len(rb):n], rb)
	copy(sig[2*n-len(sb):], sb)
	return sig
}

// String returns the hex encoding of the private scalar.
func (p *PrivateKey) String() string {
	return hex.EncodeToString(p.Bytes())
}

// Bytes returns the 32-byte big-endian encoding of the private scalar.
func (p *PrivateKey) Bytes() []byte {
	b := p.D.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
