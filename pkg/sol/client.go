package sol

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/semaphore"

	"github.com/Solana-ZH/poolscout/pkg"
)

// DefaultMaxConcurrentRequests bounds in-flight RPC calls so a discovery
// fan-out cannot overwhelm the endpoint.
const DefaultMaxConcurrentRequests = 10

// Client wraps a Solana RPC client behind the pkg.AccountScanner contract,
// with a fixed-size permit pool over all account reads.
type Client struct {
	RpcClient *rpc.Client
	sem       *semaphore.Weighted
}

// NewClient creates a client for the given RPC endpoint. maxConcurrent <= 0
// falls back to DefaultMaxConcurrentRequests.
func NewClient(endpoint string, maxConcurrent int64) *Client {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentRequests
	}
	return &Client{
		RpcClient: rpc.New(endpoint),
		sem:       semaphore.NewWeighted(maxConcurrent),
	}
}

// ScanProgramAccounts implements pkg.AccountScanner over
// getProgramAccounts with dataSize and memcmp filters.
func (c *Client) ScanProgramAccounts(ctx context.Context, program solana.PublicKey, dataSize uint64, filters []pkg.MemcmpFilter) ([]pkg.KeyedAccount, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	rpcFilters := make([]rpc.RPCFilter, 0, len(filters)+1)
	if dataSize > 0 {
		rpcFilters = append(rpcFilters, rpc.RPCFilter{DataSize: dataSize})
	}
	for _, f := range filters {
		rpcFilters = append(rpcFilters, rpc.RPCFilter{
			Memcmp: &rpc.RPCFilterMemcmp{
				Offset: f.Offset,
				Bytes:  f.Bytes,
			},
		})
	}

	result, err := c.RpcClient.GetProgramAccountsWithOpts(ctx, program, &rpc.GetProgramAccountsOpts{
		Commitment: rpc.CommitmentConfirmed,
		Filters:    rpcFilters,
	})
	if err != nil {
		return nil, fmt.Errorf("scan program %s: %w", program, err)
	}

	accounts := make([]pkg.KeyedAccount, 0, len(result))
	for _, v := range result {
		accounts = append(accounts, pkg.KeyedAccount{
			Address: v.Pubkey,
			Data:    v.Account.Data.GetBinary(),
		})
	}
	return accounts, nil
}

// GetAccountData implements pkg.AccountScanner for a single account fetch.
func (c *Client) GetAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)

	result, err := c.RpcClient.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, pkg.ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}
	if result == nil || result.Value == nil {
		return nil, pkg.ErrAccountNotFound
	}
	return result.Value.Data.GetBinary(), nil
}
