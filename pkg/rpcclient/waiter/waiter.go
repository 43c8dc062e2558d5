// Package waiter turns the block-tracking subscription into the cold,
// restartable, pull-based stream the transaction builder exposes after a
// broadcast: something that replays from the height recorded at send time
// and completes on the first block containing the transaction.
package waiter

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// ErrContextDone is returned when ctx is canceled before the transaction is
// found in a block.
var ErrContextDone = errors.New("waiter context done")

// NodeClient is the subset of the node client a Tracker needs: enough to
// open a block subscription and fetch the resulting execution record.
type NodeClient interface {
	GetApplicationLog(ctx context.Context, txHash util.Uint256) (*result.ApplicationLog, error)
}

// Tracker follows block_added notifications looking for one specific
// transaction hash, starting from the height recorded when the
// transaction was sent.
type Tracker struct {
	client     NodeClient
	wsEndpoint string
}

// New returns a Tracker that subscribes at wsEndpoint (the node's
// websocket JSON-RPC endpoint) and resolves application logs via client.
func New(client NodeClient, wsEndpoint string) *Tracker {
	return &Tracker{client: client, wsEndpoint: wsEndpoint}
}

// Wait blocks until txHash appears in a block at or before untilIndex, or
// ctx is canceled. Each call opens its own subscription starting at
// fromIndex, so repeated calls replay identically; multiple concurrent
// callers waiting on different hashes see independent streams.
func (t *Tracker) Wait(ctx context.Context, txHash util.Uint256, fromIndex, untilIndex uint32) (*result.ApplicationLog, error) {
	sub, err := neorpc.SubscribeBlocks(ctx, t.wsEndpoint, fromIndex, nil)
	if err != nil {
		return nil, fmt.Errorf("subscribing from block %d: %w", fromIndex, err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil, ErrContextDone
		case err := <-sub.Errs:
			return nil, fmt.Errorf("block subscription: %w", err)
		case block, ok := <-sub.Blocks:
			if !ok {
				return nil, fmt.Errorf("block subscription closed before block %d", untilIndex)
			}
			if containsHash(block.Transactions, txHash) {
				return t.client.GetApplicationLog(ctx, txHash)
			}
			if block.Index >= untilIndex {
				return nil, fmt.Errorf("transaction not found by block %d", untilIndex)
			}
		}
	}
}

func containsHash(hashes []util.Uint256, target util.Uint256) bool {
	for _, h := range hashes {
		if h.Equals(target) {
			return true
		}
	}
	return false
}
