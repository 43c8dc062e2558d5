package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// NamedCurve identifies one of the elliptic curves Neo N3's native
// CryptoLib contract accepts for out-of-band signature verification
// (oracle attestations, cross-chain proofs), distinct from the
// secp256r1 curve every account key is fixed to.
type NamedCurve byte

const (
	Secp256r1 NamedCurve = 0x00
	Secp256k1 NamedCurve = 0x01
)

func (c NamedCurve) curve() (elliptic.Curve, error) {
	switch c {
	case Secp256r1:
		return elliptic.P256(), nil
	case Secp256k1:
		return btcec.S256(), nil
	default:
		return nil, fmt.Errorf("unknown named curve: 0x%02x", byte(c))
	}
}

// VerifyWithCurve checks an ECDSA signature over digest against a SEC1
// compressed or uncompressed public key encoded for the given curve,
// mirroring the two-curve support of CryptoLib.verifyWithECDsa.
func VerifyWithCurve(c NamedCurve, pubKey, signature, digest []byte) (bool, error) {
	curve, err := c.curve()
	if err != nil {
		return false, err
	}
	x, y, err := decodeSEC1Point(pubKey, curve)
	if err != nil {
		return false, err
	}
	if len(signature) != 64 {
		return false, errors.New("invalid signature length")
	}
	pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])
	return ecdsa.Verify(pub, digest, r, s), nil
}

func decodeSEC1Point(data []byte, curve elliptic.Curve) (x, y *big.Int, err error) {
	l := len(data)
	cp := curve.Params()
	switch {
	case l == 33 && (data[0] == 0x02 || data[0] == 0x03):
		x = new(big.Int).SetBytes(data[1:])
		y, err = decodeCompressedY(x, uint(data[0]&0x1), curve)
		if err != nil {
			return nil, nil, err
		}
	case l == 65 && data[0] == 0x04:
		x = new(big.Int).SetBytes(data[1:33])
		y = new(big.Int).SetBytes(data[33:])
		if !curve.IsOnCurve(x, y) {
			return nil, nil, errors.New("point is not on the curve")
		}
	default:
		return nil, nil, errors.New("invalid public key size/prefix")
	}
	if x.Cmp(cp.P) >= 0 || y.Cmp(cp.P) >= 0 {
		return nil, nil, errors.New("encoded coordinate exceeds the field prime")
	}
	return x, y, nil
}
