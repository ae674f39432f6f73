package market

import (
	"context"
	"fmt"
	"math/big"
	"time"

	logger "log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bytemint/minty/internal/core/domain"
	"github.com/bytemint/minty/internal/infra/indexer"
	"github.com/bytemint/minty/internal/infra/metadata"
	"github.com/bytemint/minty/internal/metrics"
)

// Sentinel values for degraded per-item attributes. These are documented
// output, not errors: symbol, image and owner are descriptive, and one
// broken token must not blank the whole marketplace page.
const (
	SymbolUnknown = "Unknown"
	OwnerUnknown  = "Unknown"
)

// ChainReader is the subset of the chain client the engine needs.
type ChainReader interface {
	AllListed(ctx context.Context) (*domain.ListingBook, error)
	Price(ctx context.Context, contract string, tokenID *big.Int) (*big.Int, error)
	ProposalsFor(ctx context.Context, contract string, tokenID *big.Int) ([]string, []*big.Int, error)
	Symbol(ctx context.Context, contract string) (string, error)
	TokenURI(ctx context.Context, contract string, tokenID *big.Int) (string, error)
	OwnerOf(ctx context.Context, contract string, tokenID *big.Int) (string, error)
}

// OwnershipIndexer reports the tokens a wallet holds.
type OwnershipIndexer interface {
	OwnedTokens(ctx context.Context, wallet string) ([]indexer.OwnedToken, error)
}

// MetadataResolver resolves a token URI to display metadata.
type MetadataResolver interface {
	Resolve(ctx context.Context, tokenURI string) metadata.Metadata
	Placeholder() string
}

// Engine merges authoritative on-chain marketplace state with indexed
// ownership data into unified views. It owns no persistent state; every
// operation is a request-scoped read/merge pipeline.
type Engine struct {
	chain   ChainReader
	indexer OwnershipIndexer
	meta    MetadataResolver
	fanout  int
	log     *logger.Logger
}

// NewEngine wires the engine to its read-only collaborators. fanout bounds
// concurrent outstanding chain reads during snapshot assembly.
func NewEngine(chain ChainReader, idx OwnershipIndexer, meta MetadataResolver, fanout int) *Engine {
	if fanout < 1 {
		fanout = 1
	}
	return &Engine{
		chain:   chain,
		indexer: idx,
		meta:    meta,
		fanout:  fanout,
		log:     logger.Default(),
	}
}

// OwnedListings returns the wallet's ERC-721 holdings decorated with their
// on-chain listing status, in indexer order.
//
// A chain listing-read failure fails the whole operation: "listed" is a
// primary requested fact here, not a best-effort decoration.
func (e *Engine) OwnedListings(ctx context.Context, wallet string) ([]domain.OwnedNft, error) {
	owned, err := e.indexer.OwnedTokens(ctx, wallet)
	if err != nil {
		return nil, fmt.Errorf("owned tokens for %s: %w", wallet, err)
	}

	book, err := e.chain.AllListed(ctx)
	if err != nil {
		return nil, domain.Dependency("chain", fmt.Errorf("listing read: %w", err))
	}
	listed := book.Refs()

	views := make([]domain.OwnedNft, 0, len(owned))
	for _, t := range owned {
		view := domain.OwnedNft{
			Name:      t.Name,
			Symbol:    t.Symbol,
			Contract:  t.Contract,
			TokenID:   t.TokenID,
			Thumbnail: t.Thumbnail,
		}

		id, err := domain.ParseTokenID(t.TokenID)
		if err != nil {
			e.log.Warn("indexer returned unparseable token id",
				"contract", t.Contract, "token_id", t.TokenID, "error", err)
		} else {
			_, view.Listed = listed[domain.NewTokenRef(t.Contract, id)]
		}
		views = append(views, view)
	}
	return views, nil
}

// Snapshot assembles the marketplace view: every listed token with price,
// symbol, image and owner. Output order equals on-chain listing order
// regardless of fetch completion order.
//
// The listing read and per-token price reads are fatal; symbol, metadata
// and owner degrade per item to sentinels.
func (e *Engine) Snapshot(ctx context.Context) ([]domain.MarketplaceNft, error) {
	start := time.Now()

	book, err := e.chain.AllListed(ctx)
	if err != nil {
		return nil, domain.Dependency("chain", fmt.Errorf("listing read: %w", err))
	}

	views := make([]domain.MarketplaceNft, book.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.fanout)

	for i, listing := range book.Listings {
		g.Go(func() error {
			view, err := e.assembleListing(gctx, listing)
			if err != nil {
				return err
			}
			views[i] = view
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
	metrics.SnapshotSize.Set(float64(book.Len()))
	return views, nil
}

func (e *Engine) assembleListing(ctx context.Context, listing domain.Listing) (domain.MarketplaceNft, error) {
	contract := domain.ChecksumAddress(listing.Contract)

	price, err := e.chain.Price(ctx, contract, listing.TokenID)
	if err != nil {
		// Price is load-bearing: no sane placeholder exists
		return domain.MarketplaceNft{}, domain.Dependency("chain",
			fmt.Errorf("price for %s/%s: %w", contract, listing.TokenID, err))
	}

	view := domain.MarketplaceNft{
		Contract: contract,
		TokenID:  listing.TokenID.String(),
		PriceWei: price.String(),
		Price:    domain.DisplayPrice(price),
	}

	view.Symbol, err = e.chain.Symbol(ctx, contract)
	if err != nil {
		e.degrade("symbol", contract, listing.TokenID, err)
		view.Symbol = SymbolUnknown
	}

	uri, err := e.chain.TokenURI(ctx, contract, listing.TokenID)
	if err != nil {
		e.degrade("token_uri", contract, listing.TokenID, err)
		view.ImageURL = e.meta.Placeholder()
	} else {
		view.ImageURL = e.meta.Resolve(ctx, uri).Image
	}

	view.Owner, err = e.chain.OwnerOf(ctx, contract, listing.TokenID)
	if err != nil {
		e.degrade("owner", contract, listing.TokenID, err)
		view.Owner = OwnerUnknown
	}

	return view, nil
}

func (e *Engine) degrade(attribute, contract string, tokenID *big.Int, err error) {
	metrics.DegradedAttributesTotal.WithLabelValues(attribute).Inc()
	e.log.Warn("degraded listing attribute",
		"attribute", attribute, "contract", contract, "token_id", tokenID, "error", err)
}

// Proposals returns the on-chain proposals and current owner for one token.
// Every read is fatal: this view is shown for a single token the user
// navigated to, so silent degradation would be misleading.
func (e *Engine) Proposals(ctx context.Context, contract, tokenID string) (*domain.TokenProposals, error) {
	ref, err := domain.ParseTokenRef(contract, tokenID)
	if err != nil {
		return nil, domain.Preconditionf("invalid token reference: %v", err)
	}

	checksummed := domain.ChecksumAddress(ref.Contract)
	id, _ := domain.ParseTokenID(ref.TokenID)

	proposers, prices, err := e.chain.ProposalsFor(ctx, checksummed, id)
	if err != nil {
		return nil, domain.Dependency("chain",
			fmt.Errorf("proposals for %s/%s: %w", checksummed, id, err))
	}

	owner, err := e.chain.OwnerOf(ctx, checksummed, id)
	if err != nil {
		return nil, domain.Dependency("chain",
			fmt.Errorf("owner of %s/%s: %w", checksummed, id, err))
	}

	out := &domain.TokenProposals{
		Contract:  checksummed,
		TokenID:   id.String(),
		Owner:     owner,
		Proposals: make([]domain.Proposal, len(proposers)),
	}
	for i := range proposers {
		out.Proposals[i] = domain.Proposal{
			Proposer: proposers[i],
			PriceWei: prices[i].String(),
			Price:    domain.DisplayPrice(prices[i]),
		}
	}
	return out, nil
}
