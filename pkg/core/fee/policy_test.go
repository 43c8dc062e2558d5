package fee

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaultNeverErrors(t *testing.T) {
	require.NoError(t, Apply(Default{}, 100, 10))
	require.NoError(t, Apply(nil, 100, 10))
	require.False(t, HasBalanceCheck(Default{}))
	require.False(t, HasBalanceCheck(nil))
}

func TestApplySufficientBalanceNeverCalls(t *testing.T) {
	called := false
	require.NoError(t, Apply(Consumer{Consume: func(fee, balance int64) { called = true }}, 5, 10))
	require.False(t, called)
}

func TestApplyConsumerInsufficientBalance(t *testing.T) {
	var gotFee, gotBalance int64
	policy := Consumer{Consume: func(fee, balance int64) {
		gotFee, gotBalance = fee, balance
	}}
	require.True(t, HasBalanceCheck(policy))
	require.NoError(t, Apply(policy, 100, 10))
	require.Equal(t, int64(100), gotFee)
	require.Equal(t, int64(10), gotBalance)
}

func TestApplySupplierInsufficientBalance(t *testing.T) {
	wantErr := errors.New("not enough GAS")
	policy := Supplier{Err: func(fee, balance int64) error { return wantErr }}
	require.True(t, HasBalanceCheck(policy))
	require.Equal(t, wantErr, Apply(policy, 100, 10))
}

func TestApplySupplierDefaultError(t *testing.T) {
	err := Apply(Supplier{}, 100, 10)
	require.Error(t, err)
	var insufficient *ErrInsufficientFunds
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(100), insufficient.Fee)
	require.Equal(t, int64(10), insufficient.Balance)
}
