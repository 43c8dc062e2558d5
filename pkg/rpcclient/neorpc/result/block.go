package result

import "github.com/nspcc-dev/neow3j-go/pkg/util"

// Block is the subset of node block data the transaction builder and its
// block-tracking waiter need: enough to recognize which block a broadcast
// transaction landed in, nothing about full block contents or consensus
// data.
type Block struct {
	Hash          util.Uint256   `json:"hash"`
	Size          int            `json:"size"`
	Index         uint32         `json:"index"`
	Time          uint64         `json:"time"`
	PrevHash      util.Uint256   `json:"previousblockhash"`
	NextHash      *util.Uint256  `json:"nextblockhash,omitempty"`
	Confirmations uint32         `json:"confirmations"`
	Transactions  []util.Uint256 `json:"tx,omitempty"`
}

// RelayResult is the response to send_raw_transaction: the accepted
// transaction's hash, or an error if the node rejected it.
type RelayResult struct {
	Hash util.Uint256 `json:"hash"`
}
