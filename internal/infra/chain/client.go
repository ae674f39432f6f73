package chain

import (
	"context"
	"fmt"
	"math/big"
	"time"

	logger "log/slog"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/metrics"
)

// Client exposes typed read calls against the marketplace contract and any
// ERC-721 contract on the configured network. All calls are view calls; the
// client never signs or mutates chain state.
type Client struct {
	eth         *ethclient.Client
	marketplace common.Address
	marketABI   abi.ABI
	erc721ABI   abi.ABI
	timeout     time.Duration
	retry       RetryConfig
	log         *logger.Logger
}

// NewClient dials the JSON-RPC endpoint and loads both ABI documents.
func NewClient(rpcURL, marketplaceAddr string, timeout time.Duration, retry RetryConfig) (*Client, error) {
	if !common.IsHexAddress(marketplaceAddr) {
		return nil, fmt.Errorf("invalid marketplace address: %q", marketplaceAddr)
	}

	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc endpoint: %w", err)
	}

	marketABI, err := parseABI(MarketplaceABIJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse marketplace abi: %w", err)
	}
	erc721ABI, err := parseABI(ERC721ABIJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc721 abi: %w", err)
	}

	return &Client{
		eth:         eth,
		marketplace: common.HexToAddress(marketplaceAddr),
		marketABI:   marketABI,
		erc721ABI:   erc721ABI,
		timeout:     timeout,
		retry:       retry,
		log:         logger.Default(),
	}, nil
}

// MarketplaceAddress returns the checksummed marketplace contract address.
func (c *Client) MarketplaceAddress() string {
	return c.marketplace.Hex()
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}

// AllListed reads the full listing book from the marketplace contract. The
// contract returns two parallel arrays; index i describes one listing. Order
// is preserved as returned on chain.
func (c *Client) AllListed(ctx context.Context) (*domain.ListingBook, error) {
	out, err := c.call(ctx, c.marketABI, c.marketplace, "getAllListedNFTs")
	if err != nil {
		return nil, err
	}

	contracts, ok := out[0].([]common.Address)
	if !ok {
		return nil, fmt.Errorf("getAllListedNFTs: unexpected contracts type %T", out[0])
	}
	tokenIDs, ok := out[1].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("getAllListedNFTs: unexpected token ids type %T", out[1])
	}
	if len(contracts) != len(tokenIDs) {
		return nil, fmt.Errorf("getAllListedNFTs: length mismatch %d vs %d", len(contracts), len(tokenIDs))
	}

	book := &domain.ListingBook{Listings: make([]domain.Listing, len(contracts))}
	for i := range contracts {
		book.Listings[i] = domain.Listing{
			Contract: contracts[i].Hex(),
			TokenID:  tokenIDs[i],
		}
	}
	return book, nil
}

// Price reads the base-unit listing price for one token.
func (c *Client) Price(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, c.marketABI, c.marketplace, "getPrice", common.HexToAddress(contract), tokenID)
	if err != nil {
		return nil, err
	}
	price, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("getPrice: unexpected type %T", out[0])
	}
	return price, nil
}

// ProposalsFor reads the parallel proposer/price arrays for one token.
func (c *Client) ProposalsFor(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error) {
	out, err := c.call(ctx, c.marketABI, c.marketplace, "getProposalsForNFT", common.HexToAddress(contract), tokenID)
	if err != nil {
		return nil, nil, err
	}

	rawProposers, ok := out[0].([]common.Address)
	if !ok {
		return nil, nil, fmt.Errorf("getProposalsForNFT: unexpected proposers type %T", out[0])
	}
	prices, ok := out[1].([]*big.Int)
	if !ok {
		return nil, nil, fmt.Errorf("getProposalsForNFT: unexpected prices type %T", out[1])
	}
	if len(rawProposers) != len(prices) {
		return nil, nil, fmt.Errorf("getProposalsForNFT: length mismatch %d vs %d", len(rawProposers), len(prices))
	}

	proposers := make([]string, len(rawProposers))
	for i, p := range rawProposers {
		proposers[i] = p.Hex()
	}
	return proposers, prices, nil
}

// Symbol reads symbol() from a token contract. Not every ERC-721 implements
// it; the caller decides whether a failure degrades or aborts.
func (c *Client) Symbol(ctx context.Context, contract string) (string, error) {
	out, err := c.call(ctx, c.erc721ABI, common.HexToAddress(contract), "symbol")
	if err != nil {
		return "", err
	}
	sym, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("symbol: unexpected type %T", out[0])
	}
	return sym, nil
}

// TokenURI reads tokenURI(tokenId) from a token contract.
func (c *Client) TokenURI(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
	out, err := c.call(ctx, c.erc721ABI, common.HexToAddress(contract), "tokenURI", tokenID)
	if err != nil {
		return "", err
	}
	uri, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("tokenURI: unexpected type %T", out[0])
	}
	return uri, nil
}

// OwnerOf reads ownerOf(tokenId) from a token contract.
func (c *Client) OwnerOf(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
	out, err := c.call(ctx, c.erc721ABI, common.HexToAddress(contract), "ownerOf", tokenID)
	if err != nil {
		return "", err
	}
	owner, ok := out[0].(common.Address)
	if !ok {
		return "", fmt.Errorf("ownerOf: unexpected type %T", out[0])
	}
	return owner.Hex(), nil
}

// call packs, executes and unpacks a single view call with the client's
// timeout and retry policy. Each call is isolated: one failing token read
// never affects another.
func (c *Client) call(
	ctx context.Context,
	contractABI abi.ABI,
	to common.Address,
	method string,
	args ...any,
) ([]any, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	start := time.Now()
	metrics.RPCCallsTotal.WithLabelValues(method).Inc()

	var raw []byte
	err = withRetry(ctx, c.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		res, err := c.eth.CallContract(callCtx, ethereum.CallMsg{To: &to, Data: data}, nil)
		if err != nil {
			return err
		}
		raw = res
		return nil
	})
	metrics.RPCLatency.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%s call failed: %w", method, err)
	}
	if len(raw) == 0 {
		metrics.RPCErrorsTotal.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("%s returned no data (contract %s)", method, to.Hex())
	}

	out, err := contractABI.Unpack(method, raw)
	if err != nil {
		metrics.RPCErrorsTotal.WithLabelValues(method).Inc()
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}
