package result

import (
	"encoding/json"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
)

// StackItem is a shallow JSON projection of a NeoVM stack value: {type,
// value}, the same wire shape the node emits. This module has no VM
// interpreter, so items are kept opaque rather than decoded into typed Go
// values; callers that need a concrete value inspect Value themselves.
type StackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Notification is a single contract-emitted event, as returned inline in an
// Invoke result or via get_application_log.
type Notification struct {
	Contract string      `json:"contract"`
	Name     string      `json:"eventname"`
	State    []StackItem `json:"state"`
}

// Invoke is the result shape shared by invoke_script and invoke_function.
type Invoke struct {
	State          string                   `json:"state"`
	GasConsumed    int64                    `json:"gasconsumed,string"`
	Script         []byte                   `json:"script"`
	Stack          []StackItem              `json:"stack"`
	FaultException string                   `json:"exception,omitempty"`
	Notifications  []Notification           `json:"notifications,omitempty"`
	Transaction    *transaction.Transaction `json:"-"`
	Session        string                   `json:"session,omitempty"`
}

// Failed reports whether the invocation faulted, the one condition that
// should stop a build from proceeding to sign and broadcast.
func (i *Invoke) Failed() bool {
	return i.State != "HALT"
}
