package postgres

import (
	"context"
	"fmt"

	"github.com/bytemint/minty/internal/core/domain"
)

// OfferRepo persists off-chain offer records.
type OfferRepo struct {
	db *DB
}

// NewOfferRepo creates a new PostgreSQL offer repository.
func NewOfferRepo(db *DB) *OfferRepo {
	return &OfferRepo{db: db}
}

// Create records a pending offer from buyerWallet on a cached NFT.
func (r *OfferRepo) Create(ctx context.Context, nftID int64, buyerWallet, priceWei string) (*domain.Offer, error) {
	var offer domain.Offer
	err := r.db.GetContext(ctx, &offer,
		`INSERT INTO offers (nft_id, buyer_wallet, offer_price)
		 VALUES ($1, $2, $3)
		 RETURNING id, nft_id, buyer_wallet, offer_price, status, created_at`,
		nftID, domain.LowerAddress(buyerWallet), priceWei)
	if err != nil {
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}
	return &offer, nil
}

// ListForNFT returns all offers recorded against a cached NFT, newest
// first.
func (r *OfferRepo) ListForNFT(ctx context.Context, nftID int64) ([]domain.Offer, error) {
	var offers []domain.Offer
	err := r.db.SelectContext(ctx, &offers,
		`SELECT id, nft_id, buyer_wallet, offer_price, status, created_at
		 FROM offers WHERE nft_id = $1 ORDER BY created_at DESC, id DESC`,
		nftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return offers, nil
}
