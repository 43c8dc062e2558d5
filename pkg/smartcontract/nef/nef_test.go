package nef

import (
	"testing"

	"github.com/nspcc-dev/neow3j-go/internal/testserdes"
	"github.com/nspcc-dev/neow3j-go/pkg/smartcontract/callflag"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestNefRoundTrip(t *testing.T) {
	h, err := util.Uint160DecodeStringBE("0102030405060708090a0b0c0d0e0f1011121314")
	require.NoError(t, err)

	f, err := NewFile("neow3j-go-compiler 0.1", []byte{0x40}, []MethodToken{
		{Hash: h, Method: "transfer", ParametersCount: 4, HasReturnValue: true, CallFlags: callflag.All},
	})
	require.NoError(t, err)

	var decoded File
	testserdes.EncodeDecodeBinary(t, f, &decoded)
}

func TestNefChecksumMismatch(t *testing.T) {
	f, err := NewFile("neow3j-go-compiler 0.1", []byte{0x40}, nil)
	require.NoError(t, err)

	data, err := f.Bytes()
	require.NoError(t, err)
	data[len(data)-1] ^= 0xff

	_, err = FileFromBytes(data)
	require.Error(t, err)
}

func TestNefCompilerTooLong(t *testing.T) {
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	_, err := NewFile(string(long), []byte{0x40}, nil)
	require.Error(t, err)
}

func TestNefEmptyScript(t *testing.T) {
	_, err := NewFile("c", nil, nil)
	require.Error(t, err)
}
