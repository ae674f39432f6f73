package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bytemint/minty/internal/core/domain"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// NFTRepo is the local cache of token records that offers reference.
type NFTRepo struct {
	db *DB
}

// NewNFTRepo creates a new PostgreSQL NFT repository.
func NewNFTRepo(db *DB) *NFTRepo {
	return &NFTRepo{db: db}
}

// Upsert ensures a cached row exists for (contract, tokenID) and returns
// it. The contract address is stored lowercased.
func (r *NFTRepo) Upsert(ctx context.Context, contract, tokenID string) (*domain.NFT, error) {
	var nft domain.NFT
	err := r.db.GetContext(ctx, &nft,
		`INSERT INTO nfts (contract_address, token_id) VALUES ($1, $2)
		 ON CONFLICT (contract_address, token_id)
		 DO UPDATE SET contract_address = EXCLUDED.contract_address
		 RETURNING id, token_id, contract_address, name, image_url, description, price_wei, owner_id`,
		domain.LowerAddress(contract), tokenID)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert nft: %w", err)
	}
	return &nft, nil
}

// GetByRef returns the cached row for (contract, tokenID), or nil when
// the token has never been cached.
func (r *NFTRepo) GetByRef(ctx context.Context, contract, tokenID string) (*domain.NFT, error) {
	var nft domain.NFT
	err := r.db.GetContext(ctx, &nft,
		`SELECT id, token_id, contract_address, name, image_url, description, price_wei, owner_id
		 FROM nfts WHERE contract_address = $1 AND token_id = $2`,
		domain.LowerAddress(contract), tokenID)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nft: %w", err)
	}
	return &nft, nil
}
