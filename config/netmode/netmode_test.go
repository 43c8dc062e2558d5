package netmode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMagicString(t *testing.T) {
	require.Equal(t, "mainnet", MainNet.String())
	require.Equal(t, "testnet", TestNet.String())
	require.Equal(t, "privnet", PrivNet.String())
	require.Equal(t, "unit_testnet", UnitTestNet.String())
	require.Equal(t, "net 0x539", Magic(1337).String())
}
