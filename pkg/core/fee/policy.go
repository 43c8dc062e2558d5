// Package fee models what a transaction builder does when the sender's
// GAS balance can't cover a transaction's combined system and network
// fee.
package fee

import "fmt"

// Policy decides what happens when a sender's balance is insufficient to
// cover a transaction's fees. It is a sum type: exactly one of Default,
// Consumer or Supplier is ever in effect for a given build, enforced by
// the private marker method rather than by struct field conventions.
type Policy interface {
	isFeePolicy()
}

// Default performs no balance check at all; the build proceeds and the
// node rejects the transaction at broadcast time if funds are short.
type Default struct{}

func (Default) isFeePolicy() {}

// Consumer swallows an insufficient-balance condition, handing the
// shortfall to Consume instead of failing the build.
type Consumer struct {
	Consume func(fee, balance int64)
}

func (Consumer) isFeePolicy() {}

// Supplier fails the build with the error Err produces for the observed
// fee and balance.
type Supplier struct {
	Err func(fee, balance int64) error
}

func (Supplier) isFeePolicy() {}

// ErrInsufficientFunds is returned by Apply under Supplier when Err is
// nil, and is a sensible default error for callers that want one.
type ErrInsufficientFunds struct {
	Fee     int64
	Balance int64
}

func (e *ErrInsufficientFunds) Error() string {
	return fmt.Sprintf("sender balance %d is insufficient to cover fee %d", e.Balance, e.Fee)
}

// HasBalanceCheck reports whether policy requires the builder to query the
// sender's balance at all; Default (including a nil Policy) means no
// balance check is configured.
func HasBalanceCheck(policy Policy) bool {
	switch policy.(type) {
	case nil, Default:
		return false
	default:
		return true
	}
}

// Apply checks fee against balance under the given policy, invoking the
// Consumer or Supplier callback as appropriate. A nil policy behaves like
// Default.
func Apply(policy Policy, fee, balance int64) error {
	if fee <= balance {
		return nil
	}
	switch p := policy.(type) {
	case nil, Default:
		return nil
	case Consumer:
		if p.Consume != nil {
			p.Consume(fee, balance)
		}
		return nil
	case Supplier:
		if p.Err != nil {
			return p.Err(fee, balance)
		}
		return &ErrInsufficientFunds{Fee: fee, Balance: balance}
	default:
		return fmt.Errorf("unknown fee policy type %T", policy)
	}
}
