package keys

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyWithCurveSecp256r1(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	msg := []byte("arbitrary 32-byte-ish message to sign for the test")
	sig := priv.Sign(msg)
	digest := sha256.Sum256(msg)

	ok, err := VerifyWithCurve(Secp256r1, priv.PublicKey().Bytes(), sig, digest[:])
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyWithCurveUnknown(t *testing.T) {
	_, err := VerifyWithCurve(NamedCurve(0xff), nil, nil, nil)
	require.Error(t, err)
}

func TestVerifyWithCurveBadKey(t *testing.T) {
	_, err := VerifyWithCurve(Secp256k1, []byte{0x01, 0x02}, make([]byte, 64), []byte("digest"))
	require.Error(t, err)
}
