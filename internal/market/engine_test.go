package market

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/infra/indexer"
	"github.com/bytemint/minty/internal/infra/metadata"
)

const (
	contractA = "0xAaAa000000000000000000000000000000000001"
	contractB = "0xBbBb000000000000000000000000000000000002"
	wallet    = "0xCcCc000000000000000000000000000000000003"
)

// =============================================================================
// Mocks
// =============================================================================

type mockChain struct {
	allListed    func(ctx context.Context) (*domain.ListingBook, error)
	price        func(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error)
	proposalsFor func(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error)
	symbol       func(ctx context.Context, contract string) (string, error)
	tokenURI     func(ctx context.Context, contract string, tokenID *big.Int) (string, error)
	ownerOf      func(ctx context.Context, contract string, tokenID *big.Int) (string, error)
}

func (m *mockChain) AllListed(ctx context.Context) (*domain.ListingBook, error) {
	return m.allListed(ctx)
}

func (m *mockChain) Price(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error) {
	if m.price == nil {
		return big.NewInt(1000), nil
	}
	return m.price(ctx, contract, tokenID)
}

func (m *mockChain) ProposalsFor(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error) {
	return m.proposalsFor(ctx, contract, tokenID)
}

func (m *mockChain) Symbol(ctx context.Context, contract string) (string, error) {
	if m.symbol == nil {
		return "TST", nil
	}
	return m.symbol(ctx, contract)
}

func (m *mockChain) TokenURI(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
	if m.tokenURI == nil {
		return "", errors.New("no tokenURI")
	}
	return m.tokenURI(ctx, contract, tokenID)
}

func (m *mockChain) OwnerOf(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
	if m.ownerOf == nil {
		return wallet, nil
	}
	return m.ownerOf(ctx, contract, tokenID)
}

type mockIndexer struct {
	tokens []indexer.OwnedToken
	err    error
}

func (m *mockIndexer) OwnedTokens(ctx context.Context, w string) ([]indexer.OwnedToken, error) {
	return m.tokens, m.err
}

type mockResolver struct{}

func (mockResolver) Resolve(ctx context.Context, tokenURI string) metadata.Metadata {
	if tokenURI == "" {
		return metadata.Metadata{Image: "/placeholder.png"}
	}
	return metadata.Metadata{Image: "resolved:" + tokenURI}
}

func (mockResolver) Placeholder() string { return "/placeholder.png" }

func bookOf(listings ...domain.Listing) func(context.Context) (*domain.ListingBook, error) {
	return func(context.Context) (*domain.ListingBook, error) {
		return &domain.ListingBook{Listings: listings}, nil
	}
}

// =============================================================================
// Snapshot
// =============================================================================

func TestSnapshot_OrderPreserved(t *testing.T) {
	listings := make([]domain.Listing, 8)
	for i := range listings {
		listings[i] = domain.Listing{Contract: contractA, TokenID: big.NewInt(int64(i))}
	}

	chain := &mockChain{
		allListed: bookOf(listings...),
		price: func(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error) {
			// Later listings finish first to shuffle completion order
			time.Sleep(time.Duration(8-tokenID.Int64()) * time.Millisecond)
			return new(big.Int).Mul(tokenID, big.NewInt(10)), nil
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 4)
	views, err := e.Snapshot(t.Context())
	require.NoError(t, err)
	require.Len(t, views, 8)

	for i, v := range views {
		require.Equal(t, big.NewInt(int64(i)).String(), v.TokenID)
	}
}

func TestSnapshot_Empty(t *testing.T) {
	e := NewEngine(&mockChain{allListed: bookOf()}, &mockIndexer{}, mockResolver{}, 4)

	views, err := e.Snapshot(t.Context())
	require.NoError(t, err)
	require.NotNil(t, views)
	require.Empty(t, views)
}

func TestSnapshot_SymbolFailureDegrades(t *testing.T) {
	chain := &mockChain{
		allListed: bookOf(
			domain.Listing{Contract: contractA, TokenID: big.NewInt(1)},
			domain.Listing{Contract: contractB, TokenID: big.NewInt(2)},
			domain.Listing{Contract: contractA, TokenID: big.NewInt(3)},
		),
		symbol: func(ctx context.Context, contract string) (string, error) {
			if contract == domain.ChecksumAddress(contractB) {
				return "", errors.New("execution reverted")
			}
			return "MAPE", nil
		},
		tokenURI: func(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
			return "ipfs://x", nil
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 2)
	views, err := e.Snapshot(t.Context())
	require.NoError(t, err)
	require.Len(t, views, 3)

	require.Equal(t, "MAPE", views[0].Symbol)
	require.Equal(t, SymbolUnknown, views[1].Symbol)
	require.Equal(t, "MAPE", views[2].Symbol)
	// Other fields of the degraded item are populated normally
	require.Equal(t, "1000", views[1].PriceWei)
	require.Equal(t, "resolved:ipfs://x", views[1].ImageURL)
}

func TestSnapshot_PriceFailureFatal(t *testing.T) {
	chain := &mockChain{
		allListed: bookOf(
			domain.Listing{Contract: contractA, TokenID: big.NewInt(1)},
			domain.Listing{Contract: contractA, TokenID: big.NewInt(2)},
			domain.Listing{Contract: contractA, TokenID: big.NewInt(3)},
		),
		price: func(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error) {
			if tokenID.Int64() == 2 {
				return nil, errors.New("rpc timeout")
			}
			return big.NewInt(1), nil
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 2)
	_, err := e.Snapshot(t.Context())
	require.Error(t, err)
	require.True(t, domain.IsDependency(err))
}

func TestSnapshot_ListingReadFatal(t *testing.T) {
	chain := &mockChain{
		allListed: func(context.Context) (*domain.ListingBook, error) {
			return nil, errors.New("rpc unreachable")
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 2)
	_, err := e.Snapshot(t.Context())
	require.Error(t, err)
	require.True(t, domain.IsDependency(err))
}

func TestSnapshot_TokenURIFailureUsesPlaceholder(t *testing.T) {
	chain := &mockChain{
		allListed: bookOf(domain.Listing{Contract: contractA, TokenID: big.NewInt(1)}),
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 1)
	views, err := e.Snapshot(t.Context())
	require.NoError(t, err)
	require.Equal(t, "/placeholder.png", views[0].ImageURL)
}

func TestSnapshot_PriceConversion(t *testing.T) {
	priceWei, _ := new(big.Int).SetString("1500000000000000000", 10)
	chain := &mockChain{
		allListed: bookOf(domain.Listing{Contract: contractA, TokenID: big.NewInt(1)}),
		price: func(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error) {
			return priceWei, nil
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 1)
	views, err := e.Snapshot(t.Context())
	require.NoError(t, err)

	// Exact base units retained alongside the rounded display value
	require.Equal(t, "1500000000000000000", views[0].PriceWei)
	require.InDelta(t, 1.5, views[0].Price, 1e-9)
}

// =============================================================================
// OwnedListings
// =============================================================================

func TestOwnedListings_CaseInsensitiveMembership(t *testing.T) {
	idx := &mockIndexer{tokens: []indexer.OwnedToken{
		{Name: "Ape #7", Symbol: "MAPE", Contract: contractA, TokenID: "7"},
		{Name: "Ape #8", Symbol: "MAPE", Contract: contractA, TokenID: "8"},
	}}

	// Chain reports the same contract lowercased
	chain := &mockChain{
		allListed: bookOf(domain.Listing{
			Contract: "0xaaaa000000000000000000000000000000000001",
			TokenID:  big.NewInt(7),
		}),
	}

	e := NewEngine(chain, idx, mockResolver{}, 2)
	views, err := e.OwnedListings(t.Context(), wallet)
	require.NoError(t, err)
	require.Len(t, views, 2)

	require.True(t, views[0].Listed)
	require.False(t, views[1].Listed)
	// Indexer order preserved
	require.Equal(t, "Ape #7", views[0].Name)
	require.Equal(t, "Ape #8", views[1].Name)
}

func TestOwnedListings_ChainFailureFatal(t *testing.T) {
	idx := &mockIndexer{tokens: []indexer.OwnedToken{
		{Contract: contractA, TokenID: "7"},
	}}
	chain := &mockChain{
		allListed: func(context.Context) (*domain.ListingBook, error) {
			return nil, errors.New("rpc unreachable")
		},
	}

	e := NewEngine(chain, idx, mockResolver{}, 2)
	_, err := e.OwnedListings(t.Context(), wallet)
	require.Error(t, err)
	require.True(t, domain.IsDependency(err))
}

func TestOwnedListings_IndexerErrorsPropagate(t *testing.T) {
	idx := &mockIndexer{err: domain.Preconditionf("wallet address is required")}
	e := NewEngine(&mockChain{allListed: bookOf()}, idx, mockResolver{}, 2)

	_, err := e.OwnedListings(t.Context(), "")
	require.Error(t, err)
	require.True(t, domain.IsPrecondition(err))
}

func TestOwnedListings_BadTokenIDKeptUnlisted(t *testing.T) {
	idx := &mockIndexer{tokens: []indexer.OwnedToken{
		{Contract: contractA, TokenID: "not-a-number"},
	}}
	chain := &mockChain{
		allListed: bookOf(domain.Listing{Contract: contractA, TokenID: big.NewInt(1)}),
	}

	e := NewEngine(chain, idx, mockResolver{}, 2)
	views, err := e.OwnedListings(t.Context(), wallet)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.False(t, views[0].Listed)
}

// =============================================================================
// Proposals
// =============================================================================

func TestProposals(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	chain := &mockChain{
		proposalsFor: func(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error) {
			return []string{wallet}, []*big.Int{oneEther}, nil
		},
		ownerOf: func(ctx context.Context, contract string, tokenID *big.Int) (string, error) {
			return contractB, nil
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 2)
	got, err := e.Proposals(t.Context(), contractA, "0x7")
	require.NoError(t, err)

	require.Equal(t, domain.ChecksumAddress(contractA), got.Contract)
	require.Equal(t, "7", got.TokenID)
	require.Equal(t, contractB, got.Owner)
	require.Len(t, got.Proposals, 1)
	require.Equal(t, wallet, got.Proposals[0].Proposer)
	require.Equal(t, "1000000000000000000", got.Proposals[0].PriceWei)
	require.InDelta(t, 1.0, got.Proposals[0].Price, 1e-9)
}

func TestProposals_ReadFailureFatal(t *testing.T) {
	chain := &mockChain{
		proposalsFor: func(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error) {
			return nil, nil, errors.New("rpc timeout")
		},
	}

	e := NewEngine(chain, &mockIndexer{}, mockResolver{}, 2)
	_, err := e.Proposals(t.Context(), contractA, "7")
	require.Error(t, err)
	require.True(t, domain.IsDependency(err))
}

func TestProposals_InvalidReference(t *testing.T) {
	e := NewEngine(&mockChain{}, &mockIndexer{}, mockResolver{}, 2)

	_, err := e.Proposals(t.Context(), "not-an-address", "7")
	require.Error(t, err)
	require.True(t, domain.IsPrecondition(err))

	_, err = e.Proposals(t.Context(), contractA, "-3")
	require.Error(t, err)
	require.True(t, domain.IsPrecondition(err))
}
