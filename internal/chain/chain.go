// Package chain is a thin read-only view of an Ethereum JSON-RPC endpoint.
// The risk pipeline never touches chain state; this exists for the health
// matrix and the system status report.
package chain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
)

var ErrRPCConnection = errors.New("chain: RPC connection failed")

// Reader exposes the small slice of chain state the service reports on.
type Reader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	Healthy(ctx context.Context) bool
	Network() string
	Close()
}

// Client wraps ethclient with a fixed per-call timeout.
type Client struct {
	ec      *ethclient.Client
	network string
	timeout time.Duration
}

// Dial connects to the RPC endpoint. The connection is lazy in ethclient, so
// a successful Dial does not guarantee the endpoint is reachable; use Healthy
// for that.
func Dial(rpcURL, network string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ec, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRPCConnection, err)
	}
	return &Client{ec: ec, network: network, timeout: timeout}, nil
}

// BlockNumber returns the latest block number.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	n, err := c.ec.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRPCConnection, err)
	}
	return n, nil
}

// Healthy reports whether the endpoint answers a block number query.
func (c *Client) Healthy(ctx context.Context) bool {
	_, err := c.BlockNumber(ctx)
	return err == nil
}

func (c *Client) Network() string { return c.network }

func (c *Client) Close() {
	c.ec.Close()
}
