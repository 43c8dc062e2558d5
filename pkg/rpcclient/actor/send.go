package actor

import (
	"context"
	"fmt"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/waiter"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

// Tracked is what Send returns: the broadcast transaction's hash together
// with a lazily-started observer over the blocks that follow it.
type Tracked struct {
	Hash    util.Uint256
	tracker *waiter.Tracker
	from    uint32
	until   uint32
}

// Wait blocks until the tracked transaction is included in a block, or
// ctx is canceled, returning its execution result. It may be called more
// than once; each call opens an independent block subscription starting
// from the height recorded at Send time.
func (t *Tracked) Wait(ctx context.Context) (*result.ApplicationLog, error) {
	return t.tracker.Wait(ctx, t.Hash, t.from, t.until)
}

// Send broadcasts a signed tx and returns a handle for observing its
// inclusion in a later block. wsEndpoint is the node's websocket endpoint,
// used only if the caller later calls Wait; maxWaitBlocks bounds how many
// blocks past ValidUntilBlock the wait may span (the transaction can't
// validly appear later than that).
func (b *Builder) Send(ctx context.Context, tx *transaction.Transaction, wsEndpoint string, maxWaitBlocks uint32) (*Tracked, error) {
	if len(tx.Scripts) != len(tx.Signers) {
		return nil, fmt.Errorf("transaction is unsigned: %d signers, %d witnesses", len(tx.Signers), len(tx.Scripts))
	}
	raw, err := encodeTransaction(tx)
	if err != nil {
		return nil, fmt.Errorf("encoding signed transaction: %w", err)
	}
	hash, err := b.client.SendRawTransaction(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("sending transaction: %w", err)
	}
	height, err := b.client.GetBlockCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting block count after send: %w", err)
	}
	until := tx.ValidUntilBlock + maxWaitBlocks
	return &Tracked{
		Hash:    hash,
		tracker: waiter.New(b.client, wsEndpoint),
		from:    height,
		until:   until,
	}, nil
}
