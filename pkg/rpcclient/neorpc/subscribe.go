package neorpc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nspcc-dev/neow3j-go/pkg/neorpc"
	"github.com/nspcc-dev/neow3j-go/pkg/rpcclient/neorpc/result"
)

const (
	wsReadLimit  = 10 * 1024 * 1024
	wsPongLimit  = 60 * time.Second
	wsPingPeriod = wsPongLimit / 2
)

// BlockSubscription is a live feed of confirmed blocks starting at
// fromIndex, backed by one websocket connection. Close unsubscribes and
// releases the connection; the Blocks channel is closed once that happens
// or the connection drops.
type BlockSubscription struct {
	Blocks <-chan *result.Block
	Errs   <-chan error

	id   uuid.UUID
	conn *websocket.Conn
	done chan struct{}
}

// Close tears down the underlying websocket connection.
func (s *BlockSubscription) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}
	return s.conn.Close()
}

type subscribeNotification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// SubscribeBlocks opens a websocket connection to endpoint (a ws:// or
// wss:// URL, normally the HTTP endpoint with its scheme swapped) and
// streams every block from fromIndex onward. The subscription is cold: the
// node replays from fromIndex rather than from "now".
func SubscribeBlocks(ctx context.Context, endpoint string, fromIndex uint32, log *zap.Logger) (*BlockSubscription, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dialer := websocket.Dialer{HandshakeTimeout: defaultDialTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", endpoint, err)
	}
	conn.SetReadLimit(wsReadLimit)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongLimit))
	})

	subID := uuid.New()
	req := neorpc.NewRequest(1, "subscribe", "block_added", map[string]interface{}{"primary": fromIndex})
	if err := conn.WriteJSON(req); err != nil {
		conn.Close()
		return nil, fmt.Errorf("subscribing: %w", err)
	}

	resp := new(neorpc.Response)
	if err := conn.ReadJSON(resp); err != nil {
		conn.Close()
		return nil, fmt.Errorf("reading subscribe ack: %w", err)
	}
	if resp.Error != nil {
		conn.Close()
		return nil, resp.Error
	}

	sub := &BlockSubscription{
		id:   subID,
		conn: conn,
		done: make(chan struct{}),
	}
	blocks := make(chan *result.Block)
	errs := make(chan error, 1)
	sub.Blocks = blocks
	sub.Errs = errs

	go sub.readLoop(blocks, errs, log)
	go sub.pingLoop()
	return sub, nil
}

func (s *BlockSubscription) readLoop(blocks chan<- *result.Block, errs chan<- error, log *zap.Logger) {
	defer close(blocks)
	for {
		_ = s.conn.SetReadDeadline(time.Now().Add(wsPongLimit))
		n := new(subscribeNotification)
		if err := s.conn.ReadJSON(n); err != nil {
			select {
			case <-s.done:
			default:
				select {
				case errs <- err:
				default:
				}
			}
			return
		}
		if !strings.HasSuffix(n.Method, "block_added") || len(n.Params) == 0 {
			continue
		}
		b := new(result.Block)
		if err := json.Unmarshal(n.Params[0], b); err != nil {
			log.Warn("malformed block notification", zap.Error(err))
			continue
		}
		select {
		case blocks <- b:
		case <-s.done:
			return
		}
	}
}

func (s *BlockSubscription) pingLoop() {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			_ = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsPingPeriod/2))
		}
	}
}
