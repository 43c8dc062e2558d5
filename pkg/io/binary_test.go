package io

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarUintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xfe, 0xffff, 0x10000, 0xfffffffe, 0xffffffff, 0x100000000, 1<<64 - 1}
	for _, v := range cases {
		w := NewBufBinWriter()
		w.WriteVarUint(v)
		require.NoError(t, w.Err)

		r := NewBinReaderFromBuf(w.Bytes())
		got := r.ReadVarUint()
		require.NoError(t, r.Err)
		require.Equal(t, v, got)
	}
}

func TestVarUintShortestForm(t *testing.T) {
	tests := []struct {
		val  uint64
		size int
	}{
		{0, 1}, {0xfc, 1}, {0xfd, 3}, {0xffff, 3}, {0x10000, 5}, {0xffffffff, 5}, {0x100000000, 9},
	}
	for _, tc := range tests {
		w := NewBufBinWriter()
		w.WriteVarUint(tc.val)
		require.Equal(t, tc.size, w.Len(), "value %d", tc.val)
	}
}

func TestVarBytesRoundTrip(t *testing.T) {
	data := make([]byte, 256)
	for i := range data {
		data[i] = 0x01
	}
	w := NewBufBinWriter()
	w.WriteVarBytes(data)
	require.NoError(t, w.Err)

	r := NewBinReaderFromBuf(w.Bytes())
	got := r.ReadVarBytes()
	require.NoError(t, r.Err)
	require.Equal(t, data, got)
}

func TestVarBytesTooLarge(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteVarUint(100)
	w.WriteBytes(make([]byte, 5))

	r := NewBinReaderFromBuf(w.Bytes())
	r.ReadVarBytes(10)
	require.Error(t, r.Err)
}

func TestFixedString(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteFixedString("neow3j", 8)
	require.NoError(t, w.Err)
	require.Equal(t, 8, w.Len())

	r := NewBinReaderFromBuf(w.Bytes())
	got := r.ReadBytes
	buf := make([]byte, 8)
	got(buf)
	require.NoError(t, r.Err)
	require.Equal(t, "neow3j\x00\x00", string(buf))
}

func TestFixedStringOverflow(t *testing.T) {
	w := NewBufBinWriter()
	w.WriteFixedString("too-long-for-this-field", 4)
	require.Error(t, w.Err)
}

func TestErrStopsChaining(t *testing.T) {
	r := NewBinReaderFromBuf([]byte{0x01})
	_ = r.ReadU64LE() // fails: not enough bytes
	require.Error(t, r.Err)
	v := r.ReadVarUint()
	require.Equal(t, uint64(0), v)
}
