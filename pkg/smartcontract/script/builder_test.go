package script

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/stretchr/testify/require"
)

func newTestKeys(t *testing.T, n int) keys.PublicKeys {
	t.Helper()
	pubs := make(keys.PublicKeys, n)
	for i := 0; i < n; i++ {
		priv, err := keys.NewPrivateKey()
		require.NoError(t, err)
		pubs[i] = priv.PublicKey()
	}
	return pubs
}

func TestSingleSigVerificationScriptRoundTrip(t *testing.T) {
	priv, err := keys.NewPrivateKey()
	require.NoError(t, err)

	script := BuildVerificationScript(priv.PublicKey())
	m, pubs, err := ParseVerificationScript(script)
	require.NoError(t, err)
	require.Equal(t, 1, m)
	require.Len(t, pubs, 1)
	require.Equal(t, priv.PublicKey().Bytes(), pubs[0].Bytes())
}

func TestMultiSigVerificationScriptRoundTrip(t *testing.T) {
	for _, n := range []int{2, 3, 16, 255, 256, 1024} {
		n := n
		t.Run("", func(t *testing.T) {
			pubs := newTestKeys(t, n)
			m := SigningThreshold(n)

			script, err := BuildMultiSigVerificationScript(m, pubs)
			require.NoError(t, err)

			gotM, gotPubs, err := ParseVerificationScript(script)
			require.NoError(t, err)
			require.Equal(t, m, gotM)
			require.Len(t, gotPubs, n)
		})
	}
}

func TestMultiSigInvalidThreshold(t *testing.T) {
	pubs := newTestKeys(t, 3)
	_, err := BuildMultiSigVerificationScript(0, pubs)
	require.Error(t, err)
	_, err = BuildMultiSigVerificationScript(4, pubs)
	require.Error(t, err)
}

func TestSigningThreshold(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 3, 4: 3, 7: 5, 16: 11}
	for n, want := range cases {
		require.Equal(t, want, SigningThreshold(n), "n=%d", n)
	}
}
