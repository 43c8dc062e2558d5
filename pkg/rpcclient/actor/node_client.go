package actor

import (
	"context"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// NodeClient is the subset of a Neo N3 JSON-RPC node the Builder drives
// through its fee-estimation and broadcast steps.
type NodeClient interface {
	InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error)
	InvokeFunction(ctx context.Context, hash util.Uint160, method string, args []interface{}, signers []transaction.Signer) (*result.Invoke, error)
	CalculateNetworkFee(ctx context.Context, rawTx []byte) (int64, error)
	GetBlockCount(ctx context.Context) (uint32, error)
	SendRawTransaction(ctx context.Context, rawTx []byte) (util.Uint256, error)
	GetApplicationLog(ctx context.Context, txHash util.Uint256) (*result.ApplicationLog, error)
}

// CommitteeClient is implemented by a NodeClient that can also report the
// current committee, enabling a best-effort check that a HighPriority
// attribute's sender is actually a committee member. Builder skips the
// check silently when the configured NodeClient doesn't implement this.
type CommitteeClient interface {
	GetCommittee(ctx context.Context) (keys.PublicKeys, error)
}
