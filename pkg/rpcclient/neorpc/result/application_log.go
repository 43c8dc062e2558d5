package result

import "github.com/nspcc-dev/neow3j-go/pkg/util"

// ApplicationLog is the node's record of a transaction's execution, fetched
// by get_application_log once a transaction is confirmed.
type ApplicationLog struct {
	TxHash      util.Uint256   `json:"txid"`
	Trigger     string         `json:"trigger"`
	VMState     string         `json:"vmstate"`
	GasConsumed int64          `json:"gasconsumed,string"`
	Stack       []StackItem    `json:"stack"`
	Events      []Notification `json:"notifications"`
}

// Faulted reports whether the logged execution faulted.
func (l *ApplicationLog) Faulted() bool {
	return l.VMState != "HALT"
}
