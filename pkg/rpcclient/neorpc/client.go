// Package neorpc implements the node client the transaction builder drives:
// a thin JSON-RPC caller over HTTP for one-shot calls and a websocket
// subscription for block tracking.
package neorpc

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/nspcc-dev/neow3j-go/pkg/core/transaction"
	"github.com/nspcc-dev/neow3j-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neow3j-go/pkg/neorpc"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
	"github.com/nspcc-dev/neow3j-go/pkg/util"
)

const (
	defaultDialTimeout    = 4 * time.Second
	defaultRequestTimeout = 4 * time.Second
)

// Options configures a Client. All fields are optional.
type Options struct {
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	Log            *zap.Logger
}

// Client is the node client the transaction builder's Build/Sign pipeline
// calls into. It's safe for concurrent use.
type Client struct {
	http     *http.Client
	endpoint *url.URL
	log      *zap.Logger
	lastID   atomic.Uint64
}

// New validates endpoint and returns a ready-to-use Client for the given
// JSON-RPC HTTP(S) endpoint. No connection is dialed eagerly.
func New(endpoint string, opts Options) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http: &http.Client{
			Timeout: opts.RequestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: opts.DialTimeout}).DialContext,
			},
		},
		endpoint: u,
		log:      log,
	}, nil
}

func (c *Client) nextID() uint64 {
	return c.lastID.Add(1)
}

// call performs one JSON-RPC round trip and decodes its result into v.
func (c *Client) call(ctx context.Context, method string, params []interface{}, v interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	req := neorpc.NewRequest(c.nextID(), method, params...)

	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug("rpc call", zap.String("method", method))
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw := new(neorpc.Response)
	if err := json.NewDecoder(resp.Body).Decode(raw); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: HTTP %d/%s", method, resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}
	if raw.Error != nil {
		c.log.Warn("rpc error", zap.String("method", method), zap.Error(raw.Error))
		return raw.Error
	}
	if raw.Result == nil {
		return fmt.Errorf("%s: no result returned", method)
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(raw.Result, v)
}

// InvokeScript runs script in a throwaway VM context under the given
// signers, used by the builder to estimate system fee.
func (c *Client) InvokeScript(ctx context.Context, script []byte, signers []transaction.Signer) (*result.Invoke, error) {
	params := []interface{}{hexBytes(script)}
	if len(signers) > 0 {
		params = append(params, signersParam(signers))
	}
	inv := new(result.Invoke)
	if err := c.call(ctx, "invokescript", params, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// InvokeFunction invokes method on the contract at hash, used by token and
// other native-contract helpers.
func (c *Client) InvokeFunction(ctx context.Context, hash util.Uint160, method string, args []interface{}, signers []transaction.Signer) (*result.Invoke, error) {
	params := []interface{}{hash.StringLE(), method, args}
	if len(signers) > 0 {
		params = append(params, signersParam(signers))
	}
	inv := new(result.Invoke)
	if err := c.call(ctx, "invokefunction", params, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// CalculateNetworkFee asks the node for the network fee a fully-witnessed
// (even with dummy witnesses) raw transaction would require.
func (c *Client) CalculateNetworkFee(ctx context.Context, rawTx []byte) (int64, error) {
	var out struct {
		NetworkFee int64 `json:"networkfee,string"`
	}
	if err := c.call(ctx, "calculatenetworkfee", []interface{}{hexBytes(rawTx)}, &out); err != nil {
		return 0, err
	}
	return out.NetworkFee, nil
}

// GetBlockCount returns the height of the best block plus one, the value
// the builder anchors valid_until_block against.
func (c *Client) GetBlockCount(ctx context.Context) (uint32, error) {
	var out uint32
	if err := c.call(ctx, "getblockcount", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// GetCommittee returns the current committee's public keys, used to decide
// whether HighPriority may legally be set.
func (c *Client) GetCommittee(ctx context.Context) (keys.PublicKeys, error) {
	var hexKeys []string
	if err := c.call(ctx, "getcommittee", nil, &hexKeys); err != nil {
		return nil, err
	}
	pks := make(keys.PublicKeys, len(hexKeys))
	for i, s := range hexKeys {
		pk, err := keys.NewPublicKeyFromString(s)
		if err != nil {
			return nil, fmt.Errorf("committee key %d: %w", i, err)
		}
		pks[i] = pk
	}
	return pks, nil
}

// SendRawTransaction broadcasts a fully-signed transaction.
func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (util.Uint256, error) {
	var out result.RelayResult
	if err := c.call(ctx, "sendrawtransaction", []interface{}{hexBytes(rawTx)}, &out); err != nil {
		return util.Uint256{}, err
	}
	return out.Hash, nil
}

// GetApplicationLog fetches the execution record for a confirmed
// transaction. It returns (nil, nil) if the node has no log for txHash yet.
func (c *Client) GetApplicationLog(ctx context.Context, txHash util.Uint256) (*result.ApplicationLog, error) {
	out := new(result.ApplicationLog)
	err := c.call(ctx, "getapplicationlog", []interface{}{txHash.StringLE()}, out)
	if err != nil {
		var rpcErr *neorpc.Error
		if errors.As(err, &rpcErr) && rpcErr.Code == unknownTransactionCode {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// unknownTransactionCode is the node's error code for a transaction hash it
// has no application log for, either unknown or not yet confirmed.
const unknownTransactionCode = -100

// GetBlock fetches a block by index, verbose enough to expose its
// transaction hashes for Conflicts/tracking purposes.
func (c *Client) GetBlock(ctx context.Context, index uint32) (*result.Block, error) {
	out := new(result.Block)
	if err := c.call(ctx, "getblock", []interface{}{index, true}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func hexBytes(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}

func signersParam(signers []transaction.Signer) []interface{} {
	out := make([]interface{}, len(signers))
	for i, s := range signers {
		out[i] = s
	}
	return out
}
